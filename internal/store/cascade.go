package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/venuetable/venuetable-server/internal/domain"
	"github.com/venuetable/venuetable-server/internal/errors"
)

// CascadeResult summarizes the effects of a venue deletion.
type CascadeResult struct {
	Venue           *domain.Venue   `json:"venue"`
	UpdatedEvents   []*domain.Event `json:"updated_events"`
	DeletedEventIDs []string        `json:"deleted_event_ids"`
}

// DeleteVenueCascade deletes a venue and repairs every event that referenced it,
// all in a single transaction. Events that still have other venues keep their
// booking with the venue stripped out; events left with no venues are deleted.
// No intermediate state is ever visible: either the whole cascade commits or
// nothing does.
//
// Returns a NOT_FOUND error if the venue does not exist.
func (s *Store) DeleteVenueCascade(ctx context.Context, venueID string) (*CascadeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &CascadeResult{}

	err := s.db.Update(func(txn *badger.Txn) error {
		// Load the venue first so a missing venue aborts before any writes.
		item, err := txn.Get(s.Venues.key(venueID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.NotFoundf("venue %s not found", venueID)
		}
		if err != nil {
			return fmt.Errorf("failed to get venue: %w", err)
		}

		var venue domain.Venue
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &venue)
		})
		if err != nil {
			return fmt.Errorf("failed to unmarshal venue: %w", err)
		}
		result.Venue = &venue

		// Collect every event that references the venue. The iterator is
		// closed before any mutation.
		affected, err := s.eventsReferencing(txn, venueID)
		if err != nil {
			return err
		}

		// Delete the venue.
		for _, idxKey := range s.Venues.indexEntries(&venue, venueID) {
			if err := txn.Delete(idxKey); err != nil {
				return fmt.Errorf("failed to delete venue index key: %w", err)
			}
		}
		if err := txn.Delete(s.Venues.key(venueID)); err != nil {
			return fmt.Errorf("failed to delete venue key: %w", err)
		}

		// Repair or drop each affected event.
		for _, ev := range affected {
			ev.RemoveVenue(venueID)

			if len(ev.VenueIDs) == 0 {
				for _, idxKey := range s.Events.indexEntries(ev, ev.ID) {
					if err := txn.Delete(idxKey); err != nil {
						return fmt.Errorf("failed to delete event index key: %w", err)
					}
				}
				if err := txn.Delete(s.Events.key(ev.ID)); err != nil {
					return fmt.Errorf("failed to delete event key: %w", err)
				}
				result.DeletedEventIDs = append(result.DeletedEventIDs, ev.ID)
				continue
			}

			data, err := json.Marshal(ev)
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			if err := txn.Set(s.Events.key(ev.ID), data); err != nil {
				return fmt.Errorf("failed to set event key: %w", err)
			}
			result.UpdatedEvents = append(result.UpdatedEvents, ev)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Broadcast only after the transaction has committed.
	s.emit(Change{Kind: "venue", Op: OpDeleted, ID: venueID})
	for _, ev := range result.UpdatedEvents {
		s.emit(Change{Kind: "event", Op: OpUpdated, ID: ev.ID, Data: ev})
	}
	for _, id := range result.DeletedEventIDs {
		s.emit(Change{Kind: "event", Op: OpDeleted, ID: id})
	}

	return result, nil
}

// eventsReferencing scans all events within the transaction and returns those
// that book the given venue.
func (s *Store) eventsReferencing(txn *badger.Txn, venueID string) ([]*domain.Event, error) {
	prefix := []byte(s.Events.prefix)

	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = true

	it := txn.NewIterator(opts)
	defer it.Close()

	var affected []*domain.Event
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := string(it.Item().Key())
		if strings.HasPrefix(key[len(prefix):], "idx:") {
			continue
		}

		var ev domain.Event
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &ev)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal event: %w", err)
		}

		if ev.HasVenue(venueID) {
			affected = append(affected, &ev)
		}
	}

	return affected, nil
}
