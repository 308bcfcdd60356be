// Package draft holds the client-side editing state for one procedure
// session. Instead of an ambient bag of mutable form values, edits accumulate
// in an explicit, serializable Session and reach the store only through a
// Commit, either user-triggered or from the periodic auto-save loop.
package draft

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"anesthesia-record-server/internal/models"
	"anesthesia-record-server/internal/services"
)

// Committer pushes a staged field set to the record store. The record
// service satisfies this; an HTTP client could as well.
type Committer interface {
	UpdateRecord(recordID string, fields *services.RecordFields) (*models.AnesthesiaRecord, error)
}

// Session is the draft state for a single anesthesia record. Safe for
// concurrent use by the editing surface and the auto-save loop.
type Session struct {
	RecordID string

	mu      sync.Mutex
	pending services.RecordFields
	dirty   bool
}

// NewSession creates an empty draft for a record.
func NewSession(recordID string) *Session {
	return &Session{RecordID: recordID}
}

// Stage applies an edit to the pending field set. Nothing is persisted until
// the next Commit.
func (s *Session) Stage(mutate func(*services.RecordFields)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(&s.pending)
	s.dirty = true
}

// Dirty reports whether the session holds uncommitted edits.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Pending returns a copy of the staged field set.
func (s *Session) Pending() services.RecordFields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Commit pushes the staged fields through the committer. On success the
// draft is cleared; on failure the staged edits stay intact so a failed save
// never discards the user's work.
func (s *Session) Commit(committer Committer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	fields := s.pending
	if _, err := committer.UpdateRecord(s.RecordID, &fields); err != nil {
		return err
	}

	s.pending = services.RecordFields{}
	s.dirty = false
	return nil
}

// AutoSave commits any dirty state at each tick until the context is
// cancelled, mirroring the form's periodic save timer. Failed commits are
// logged and retried on the next tick.
func (s *Session) AutoSave(ctx context.Context, interval time.Duration, committer Committer, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Commit(committer); err != nil {
				log.Warn().Str("record_id", s.RecordID).Err(err).Msg("auto-save failed; edits retained")
			}
		}
	}
}

// MarshalJSON serializes the session so an in-progress draft can survive a
// client restart.
func (s *Session) MarshalJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(struct {
		RecordID string                `json:"record_id"`
		Pending  services.RecordFields `json:"pending"`
		Dirty    bool                  `json:"dirty"`
	}{s.RecordID, s.pending, s.dirty})
}

// UnmarshalJSON restores a serialized session.
func (s *Session) UnmarshalJSON(data []byte) error {
	var snapshot struct {
		RecordID string                `json:"record_id"`
		Pending  services.RecordFields `json:"pending"`
		Dirty    bool                  `json:"dirty"`
	}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RecordID = snapshot.RecordID
	s.pending = snapshot.Pending
	s.dirty = snapshot.Dirty
	return nil
}
