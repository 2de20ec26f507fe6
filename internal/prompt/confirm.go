// Package prompt asks the user to confirm destructive actions.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/pokereports/pokereports/internal/i18n"
)

// ErrNotInteractive is returned when confirmation is needed but stdin is not
// a terminal.
var ErrNotInteractive = errors.New("confirmation required: stdin is not a terminal (use --force)")

// Dialog describes a confirm/cancel question.
type Dialog struct {
	Title        string
	Description  string
	ConfirmLabel string
	CancelLabel  string
}

// DeleteDialog is the dialog shown before a report is deleted.
func DeleteDialog(p *i18n.Printer, id string) Dialog {
	return Dialog{
		Title:        p.T(i18n.MsgDeleteTitle),
		Description:  p.T(i18n.MsgDeleteDescription, id),
		ConfirmLabel: p.T(i18n.MsgConfirm),
		CancelLabel:  p.T(i18n.MsgCancel),
	}
}

// Question renders the dialog as a single prompt line.
func (d Dialog) Question() string {
	var b strings.Builder
	if d.Title != "" {
		b.WriteString(d.Title)
		b.WriteString(": ")
	}
	b.WriteString(d.Description)
	confirm, cancel := d.ConfirmLabel, d.CancelLabel
	if confirm == "" {
		confirm = "y"
	}
	if cancel == "" {
		cancel = "N"
	}
	fmt.Fprintf(&b, " [%s/%s]: ", confirm, cancel)
	return b.String()
}

// Accepts reports whether answer confirms the dialog: y, yes or the confirm
// label, in any case. Everything else, including an empty line, cancels.
func (d Dialog) Accepts(answer string) bool {
	answer = strings.TrimSpace(answer)
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return d.ConfirmLabel != "" && strings.EqualFold(answer, d.ConfirmLabel)
}

// Ask writes the question and reads one answer with readLine. A failed read
// counts as cancel.
func (d Dialog) Ask(out io.Writer, readLine func() (string, error)) bool {
	fmt.Fprint(out, d.Question())
	answer, err := readLine()
	if err != nil && answer == "" {
		return false
	}
	return d.Accepts(answer)
}

// Confirm asks the dialog on out and reads the answer from in.
func Confirm(in io.Reader, out io.Writer, d Dialog) bool {
	reader := bufio.NewReader(in)
	return d.Ask(out, func() (string, error) {
		return reader.ReadString('\n')
	})
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
