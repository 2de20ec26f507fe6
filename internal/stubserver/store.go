package stubserver

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	statusPending   = "pending"
	statusCompleted = "completed"
)

var errReportNotFound = errors.New("report not found")

// record is one generated report. Status is derived from the clock: a report
// completes once completeAfter has passed since it was created.
type record struct {
	ID         string
	Type       string
	SampleSize int
	Created    time.Time
}

// Store keeps reports in memory, in creation order.
type Store struct {
	mu            sync.Mutex
	records       []record
	now           func() time.Time
	completeAfter time.Duration
}

func NewStore(completeAfter time.Duration, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{now: now, completeAfter: completeAfter}
}

func (s *Store) Create(pokemonType string, sampleSize int) record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := record{
		ID:         uuid.NewString(),
		Type:       pokemonType,
		SampleSize: sampleSize,
		Created:    s.now().UTC(),
	}
	s.records = append(s.records, rec)
	return rec
}

func (s *Store) List() []record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]record(nil), s.records...)
}

func (s *Store) Get(id string) (record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return record{}, errReportNotFound
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i:i], s.records[i+1:]...)
			return nil
		}
	}
	return errReportNotFound
}

// Completed reports whether rec is done and when it finished.
func (s *Store) Completed(rec record) (bool, time.Time) {
	doneAt := rec.Created.Add(s.completeAfter)
	return !s.now().Before(doneAt), doneAt
}
