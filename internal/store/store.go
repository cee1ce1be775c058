// Package store provides Badger-backed persistence for venues and events.
package store

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/venuetable/venuetable-server/internal/domain"
)

// ChangeEmitter is the interface for broadcasting store changes.
// Store uses this to publish mutations without depending on SSE implementation details.
type ChangeEmitter interface {
	Emit(change Change)
}

// NoopEmitter is a no-op implementation of ChangeEmitter for testing.
type NoopEmitter struct{}

// Emit implements ChangeEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ Change) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() ChangeEmitter {
	return NoopEmitter{}
}

// Change operations.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// Change describes a single store mutation.
type Change struct {
	Kind string `json:"kind"` // "venue" or "event"
	Op   string `json:"op"`   // created, updated, deleted
	ID   string `json:"id"`
	Data any    `json:"data,omitempty"` // The entity after the mutation, nil for deletes.
}

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Change emitter for broadcasting mutations.
	emitter ChangeEmitter

	// Generic entities
	Venues *Entity[domain.Venue]
	Events *Entity[domain.Event]
}

// New creates a new Store instance with the given database path and change emitter.
// The emitter is required and used to broadcast store changes via SSE.
func New(path string, logger *slog.Logger, emitter ChangeEmitter) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:      db,
		logger:  logger,
		emitter: emitter,
	}

	// Initialize generic entities
	store.initVenues()
	store.initEvents()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// emit broadcasts a change if an emitter is configured.
func (s *Store) emit(change Change) {
	if s.emitter != nil {
		s.emitter.Emit(change)
	}
}

// initVenues initializes the Venues entity on the store.
func (s *Store) initVenues() {
	s.Venues = NewEntity[domain.Venue](s, "venue", "venue:")
}

// initEvents initializes the Events entity on the store.
// Indexed by local calendar day so a full day column can be loaded with one
// prefix scan.
func (s *Store) initEvents() {
	s.Events = NewEntity[domain.Event](s, "event", "event:").
		WithIndex("day", func(ev *domain.Event) []string {
			return []string{ev.DayKey()}
		})
}
