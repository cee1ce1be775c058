// Package service orchestrates venue, booking, and timetable operations over
// the store.
package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/venuetable/venuetable-server/internal/domain"
	"github.com/venuetable/venuetable-server/internal/id"
	"github.com/venuetable/venuetable-server/internal/layout"
	"github.com/venuetable/venuetable-server/internal/store"
	"github.com/venuetable/venuetable-server/internal/validation"
)

// VenueService orchestrates venue operations.
type VenueService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewVenueService creates a new venue service.
func NewVenueService(store *store.Store, logger *slog.Logger) *VenueService {
	return &VenueService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// VenueRequest contains fields for creating or replacing a venue.
type VenueRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
	Capacity int    `json:"capacity" validate:"gte=0"`
}

// ListVenues returns all venues in timeline column order: creation time,
// ties broken by id. This order is the authoritative venue ordering for
// layout.
func (s *VenueService) ListVenues(ctx context.Context) ([]*domain.Venue, error) {
	var venues []*domain.Venue
	for venue, err := range s.store.Venues.List(ctx) {
		if err != nil {
			return nil, err
		}
		venues = append(venues, venue)
	}

	sort.Slice(venues, func(i, j int) bool {
		if !venues[i].CreatedAt.Equal(venues[j].CreatedAt) {
			return venues[i].CreatedAt.Before(venues[j].CreatedAt)
		}
		return venues[i].ID < venues[j].ID
	})
	return venues, nil
}

// Order returns the venue column order used by the layout engine.
func (s *VenueService) Order(ctx context.Context) (layout.Order, error) {
	venues, err := s.ListVenues(ctx)
	if err != nil {
		return nil, err
	}

	order := make(layout.Order, 0, len(venues))
	for _, venue := range venues {
		order = append(order, venue.ID)
	}
	return order, nil
}

// GetVenue returns a single venue.
func (s *VenueService) GetVenue(ctx context.Context, venueID string) (*domain.Venue, error) {
	return s.store.Venues.Get(ctx, venueID)
}

// CreateVenue creates a new venue.
func (s *VenueService) CreateVenue(ctx context.Context, req VenueRequest) (*domain.Venue, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	venueID, err := id.Generate("venue")
	if err != nil {
		return nil, err
	}

	venue := &domain.Venue{
		ID:       venueID,
		Name:     req.Name,
		Color:    req.Color,
		Capacity: req.Capacity,
	}
	venue.InitTimestamps()

	if err := s.store.Venues.Create(ctx, venueID, venue); err != nil {
		return nil, err
	}

	s.logger.Info("venue created", "id", venueID, "name", req.Name)
	return venue, nil
}

// UpdateVenue replaces a venue's fields.
func (s *VenueService) UpdateVenue(ctx context.Context, venueID string, req VenueRequest) (*domain.Venue, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	venue, err := s.store.Venues.Get(ctx, venueID)
	if err != nil {
		return nil, err
	}

	venue.Name = req.Name
	venue.Color = req.Color
	venue.Capacity = req.Capacity
	venue.Touch()

	if err := s.store.Venues.Update(ctx, venueID, venue); err != nil {
		return nil, err
	}

	return venue, nil
}

// DeleteVenue deletes a venue and cascades through every event booked in it:
// the venue is stripped from each event's venue set, and events left with no
// venues are deleted. Returns the cascade summary.
func (s *VenueService) DeleteVenue(ctx context.Context, venueID string) (*store.CascadeResult, error) {
	result, err := s.store.DeleteVenueCascade(ctx, venueID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("venue deleted",
		"id", venueID,
		"events_updated", len(result.UpdatedEvents),
		"events_deleted", len(result.DeletedEventIDs))
	return result, nil
}
