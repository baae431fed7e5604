// Package memory is a process-local lead sink holding rows in insertion order.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
)

var (
	uidCol   = columnIndex("UID")
	emailCol = columnIndex("Email")
)

func columnIndex(header string) int {
	for i, c := range model.Columns {
		if c.Header == header {
			return i
		}
	}
	panic("memory: unknown column " + header)
}

type Sink struct {
	mu   sync.Mutex
	rows [][]string
}

func New() *Sink { return &Sink{} }

// Upsert replaces the row with the same id, else the row with the same
// email, else appends. A row matched by email keeps its id.
func (s *Sink) Upsert(_ context.Context, rec *model.LeadRecord) (bool, error) {
	row := rec.Row()
	email := rec.Email()

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.find(rec.ID, email); i >= 0 {
		row[uidCol] = s.rows[i][uidCol]
		s.rows[i] = row
		return true, nil
	}
	s.rows = append(s.rows, row)
	return true, nil
}

func (s *Sink) find(id, email string) int {
	for i, r := range s.rows {
		if id != "" && r[uidCol] == id {
			return i
		}
	}
	if email == "" {
		return -1
	}
	for i := len(s.rows) - 1; i >= 0; i-- {
		if strings.EqualFold(s.rows[i][emailCol], email) {
			return i
		}
	}
	return -1
}

// FindByEmail returns the most recently appended row with that email.
func (s *Sink) FindByEmail(_ context.Context, email string) (*model.LeadRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.rows) - 1; i >= 0; i-- {
		if strings.EqualFold(s.rows[i][emailCol], email) {
			return model.RecordFromRow(s.rows[i])
		}
	}
	return nil, nil
}

// Rows returns a copy of every stored row, header excluded.
func (s *Sink) Rows() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

var _ model.LeadSink = (*Sink)(nil)
