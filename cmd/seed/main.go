// Package main provides a tool to seed the database with sample venues and
// bookings for local development.
//
// Usage:
//
//	DATA_PATH=~/VenueTable/data go run ./cmd/seed
//	DATA_PATH=~/VenueTable/data go run ./cmd/seed -day 2026-08-28
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/venuetable/venuetable-server/internal/service"
	"github.com/venuetable/venuetable-server/internal/store"
)

var day = flag.String("day", "", "Day to book sample events on (2006-01-02, default today)")

type sampleVenue struct {
	name     string
	color    string
	capacity int
}

type sampleBooking struct {
	title string
	start string
	end   string
	// indexes into the sample venues
	venues []int
}

var sampleVenues = []sampleVenue{
	{"Main Hall", "#1f77b4", 400},
	{"Studio A", "#2ca02c", 40},
	{"Studio B", "#d62728", 40},
	{"Rooftop Terrace", "#9467bd", 120},
}

var sampleBookings = []sampleBooking{
	{"Morning Yoga", "08:00", "09:30", []int{3}},
	{"Orchestra Rehearsal", "10:00", "13:00", []int{0}},
	{"Podcast Recording", "10:30", "12:00", []int{1}},
	{"Band Practice", "12:00", "14:30", []int{2}},
	{"Tech Conference Setup", "14:00", "18:00", []int{0, 3}},
	{"Evening Mixdown", "19:00", "21:00", []int{1, 2}},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dataPath = filepath.Join(home, "VenueTable", "data")
	}
	dbPath := filepath.Join(dataPath, "db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := store.New(dbPath, logger, store.NewNoopEmitter())
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	venueService := service.NewVenueService(s, logger)
	bookingService := service.NewBookingService(s, logger)

	date := time.Now().Format("2006-01-02")
	if *day != "" {
		if _, err := time.Parse("2006-01-02", *day); err != nil {
			log.Fatalf("Invalid -day value %q: %v", *day, err)
		}
		date = *day
	}

	venueIDs := make([]string, 0, len(sampleVenues))
	for _, sv := range sampleVenues {
		venue, err := venueService.CreateVenue(ctx, service.VenueRequest{
			Name:     sv.name,
			Color:    sv.color,
			Capacity: sv.capacity,
		})
		if err != nil {
			log.Fatalf("Failed to create venue %q: %v", sv.name, err)
		}
		venueIDs = append(venueIDs, venue.ID)
		fmt.Printf("Created venue %s (%s)\n", venue.Name, venue.ID)
	}

	for _, sb := range sampleBookings {
		ids := make([]string, len(sb.venues))
		for i, idx := range sb.venues {
			ids[i] = venueIDs[idx]
		}

		event, err := bookingService.CreateBooking(ctx, service.BookingRequest{
			Title:     sb.title,
			Date:      date,
			StartSlot: sb.start,
			EndSlot:   sb.end,
			VenueIDs:  ids,
		})
		if err != nil {
			log.Fatalf("Failed to book %q: %v", sb.title, err)
		}
		fmt.Printf("Booked %s %s-%s (%s)\n", event.Title, sb.start, sb.end, event.ID)
	}

	fmt.Printf("\nSeeded %d venues and %d bookings on %s\n", len(sampleVenues), len(sampleBookings), date)
}
