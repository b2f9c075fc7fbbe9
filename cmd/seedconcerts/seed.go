package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"stagenextdoor/internal/models"
	"stagenextdoor/internal/store"
)

// concertNamespace keeps seeded IDs stable across runs so re-seeding updates
// rows instead of duplicating them.
var concertNamespace = uuid.MustParse("7d2f1f5e-9b1a-4c63-8a6f-3f0f1b2c4d5e")

// seedConcertID derives a stable ID from artist and venue alone, so editing
// any other field (date, price) and re-seeding updates the existing row and
// keeps its attendance and photo links.
func seedConcertID(artist, venue string) string {
	return uuid.NewSHA1(concertNamespace, []byte(artist+"|"+venue)).String()
}

type seedConcert struct {
	Artist   string  `json:"artist"`
	Venue    string  `json:"venue"`
	Genre    string  `json:"genre"`
	Date     string  `json:"date"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

// loadSeedConcerts reads a concerts JSON file, or returns the embedded sample
// listing when no path is given.
func loadSeedConcerts(path string) ([]seedConcert, error) {
	if path == "" {
		return seedConcerts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var concerts []seedConcert
	if err := json.Unmarshal(data, &concerts); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for _, c := range concerts {
		if c.Artist == "" || c.Venue == "" {
			return nil, fmt.Errorf("seed file %s: every concert needs an artist and venue", path)
		}
	}
	return concerts, nil
}

var seedConcerts = []seedConcert{
	{"The Midnight Echo", "Crescent Ballroom", "Rock", "Friday, May 2nd - 8:00 PM", 35, "https://images.stagenextdoor.dev/midnight-echo.jpg"},
	{"Luna Vale", "The Rebel Lounge", "Pop", "Saturday, May 3rd - 9:00 PM", 28, "https://images.stagenextdoor.dev/luna-vale.jpg"},
	{"Static Bloom", "Valley Bar", "EDM", "Tuesday, May 6th - 10:00 PM", 22, "https://images.stagenextdoor.dev/static-bloom.jpg"},
	{"Marrow & Pine", "Musical Instrument Museum", "Folk", "Wednesday, May 7th - 7:00 PM", 40, "https://images.stagenextdoor.dev/marrow-pine.jpg"},
	{"DJ Cascade", "Sunbar Tempe", "EDM", "Friday, May 9th - 11:00 PM", 30, "https://images.stagenextdoor.dev/dj-cascade.jpg"},
	{"The Velvet Keys", "The Nash", "Jazz", "Sunday, May 11th - 6:00 PM", 25, "https://images.stagenextdoor.dev/velvet-keys.jpg"},
	{"Iron Harvest", "The Van Buren", "Metal", "Thursday, May 15th - 8:00 PM", 45, "https://images.stagenextdoor.dev/iron-harvest.jpg"},
	{"Cold Copper", "Last Exit Live", "Country", "Saturday, May 17th - 7:30 PM", 18, "https://images.stagenextdoor.dev/cold-copper.jpg"},
	{"MC Northside", "The Pressroom", "Hip-Hop", "Friday, May 23rd - 9:00 PM", 32, "https://images.stagenextdoor.dev/mc-northside.jpg"},
	{"Satin Ave", "Chandler Center for the Arts", "R&B", "Saturday, May 24th - 8:00 PM", 38, "https://images.stagenextdoor.dev/satin-ave.jpg"},
}

// runSeed replaces the concert catalog with the listing from path, falling
// back to the embedded sample data.
func runSeed(ctx context.Context, dataStore *store.Store, log zerolog.Logger, path string) error {
	source, err := loadSeedConcerts(path)
	if err != nil {
		return err
	}
	year := time.Now().Year()

	concerts := make([]models.Concert, 0, len(source))
	for _, sc := range source {
		ts, err := parseDisplayDate(sc.Date, year, time.Local)
		if err != nil {
			return fmt.Errorf("seed %s: %w", sc.Artist, err)
		}

		concerts = append(concerts, models.Concert{
			ID:         seedConcertID(sc.Artist, sc.Venue),
			ArtistName: sc.Artist,
			VenueName:  sc.Venue,
			Genre:      sc.Genre,
			Date:       sc.Date,
			DateTS:     ts.Unix(),
			Price:      sc.Price,
			ImageURL:   sc.ImageURL,
		})
	}

	if err := dataStore.SyncConcerts(ctx, concerts); err != nil {
		return fmt.Errorf("sync concerts: %w", err)
	}

	log.Info().Int("concerts", len(concerts)).Msg("seed complete")
	return nil
}
