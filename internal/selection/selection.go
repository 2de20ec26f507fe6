// Package selection tracks the report type and sample size chosen for the
// next create request.
package selection

import (
	"strconv"
	"strings"
	"sync"

	"github.com/pokereports/pokereports/internal/i18n"
	reports "github.com/pokereports/pokereports/sdk/go"
)

// ValidateSampleSize checks a sample-size field. An empty value is valid and
// means "unspecified" (nil). Anything else must be a base-10 positive integer
// with no sign, fraction or surrounding space.
func ValidateSampleSize(value string, p *i18n.Printer) (*int, error) {
	if value == "" {
		return nil, nil
	}
	invalid := &reports.ValidationError{Field: "sampleSize", Message: p.T(i18n.MsgSampleSizeInvalid)}
	for _, c := range value {
		if c < '0' || c > '9' {
			return nil, invalid
		}
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return nil, invalid
	}
	return &n, nil
}

// State is the selected type and the raw sample-size input, with the
// validation message for the latter kept alongside.
type State struct {
	printer *i18n.Printer

	mu         sync.Mutex
	vocabulary []string
	selected   string
	sampleRaw  string
	sampleErr  string
}

// New returns an empty selection.
func New(p *i18n.Printer) *State {
	return &State{printer: p}
}

// SetVocabulary replaces the list of type names offered for selection.
func (s *State) SetVocabulary(types []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vocabulary = append([]string(nil), types...)
}

// Vocabulary returns the type names offered for selection.
func (s *State) Vocabulary() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.vocabulary...)
}

// Select sets the type. A 1-based index into the vocabulary or a
// vocabulary name (any case) picks that entry; any other non-empty value is
// taken as typed. It returns the resulting selection.
func (s *State) Select(value string) string {
	value = strings.TrimSpace(value)
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, err := strconv.Atoi(value); err == nil && i >= 1 && i <= len(s.vocabulary) {
		s.selected = s.vocabulary[i-1]
		return s.selected
	}
	for _, v := range s.vocabulary {
		if strings.EqualFold(v, value) {
			s.selected = v
			return s.selected
		}
	}
	s.selected = value
	return s.selected
}

// Selected returns the selected type, or "" when none.
func (s *State) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SetSampleSize stores the raw input and validates it immediately. The
// returned message is empty when the input is valid.
func (s *State) SetSampleSize(raw string) string {
	_, err := ValidateSampleSize(raw, s.printer)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sampleRaw = raw
	s.sampleErr = ""
	if err != nil {
		s.sampleErr = s.printer.T(i18n.MsgSampleSizeInvalid)
	}
	return s.sampleErr
}

// SampleSize returns the raw input and its current validation message.
func (s *State) SampleSize() (raw, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleRaw, s.sampleErr
}

// Request validates the whole selection and returns what create needs.
func (s *State) Request() (pokemonType string, sampleSize *int, err error) {
	s.mu.Lock()
	selected, raw := s.selected, s.sampleRaw
	s.mu.Unlock()

	if selected == "" {
		return "", nil, &reports.ValidationError{Field: "type", Message: s.printer.T(i18n.MsgNoTypeSelected)}
	}
	size, err := ValidateSampleSize(raw, s.printer)
	if err != nil {
		s.mu.Lock()
		s.sampleErr = s.printer.T(i18n.MsgSampleSizeInvalid)
		s.mu.Unlock()
		return "", nil, err
	}
	return selected, size, nil
}

// CanCreate reports whether the create action is enabled. When it is not,
// reason says why.
func (s *State) CanCreate(busy bool) (ok bool, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.selected == "":
		return false, s.printer.T(i18n.MsgNoTypeSelected)
	case busy:
		return false, s.printer.T(i18n.MsgBusy)
	case s.sampleErr != "":
		return false, s.sampleErr
	}
	return true, ""
}
