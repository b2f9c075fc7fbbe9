package main

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stagenextdoor/internal/store"
)

var ordinalSuffix = regexp.MustCompile(`(\d+)(st|nd|rd|th)\b`)

// parseDisplayDate converts a human-readable concert date such as
// "Tuesday, April 22nd - 1:00 PM" into a concrete time in the given year.
// The weekday prefix and ordinal suffix are decorative and ignored; entries
// without a time portion resolve to midnight.
func parseDisplayDate(display string, year int, loc *time.Location) (time.Time, error) {
	s := display
	if i := strings.Index(s, ","); i >= 0 {
		s = s[i+1:]
	}
	s = ordinalSuffix.ReplaceAllString(s, "$1")
	s = strings.TrimSpace(s)

	for _, layout := range []string{"January 2 - 3:04 PM", "January 2"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", display)
}

// runBackfillDates fills in the sortable timestamp for concerts that only
// carry a display date. Rows whose dates cannot be parsed are reported and
// skipped.
func runBackfillDates(ctx context.Context, db *sql.DB, dataStore *store.Store, log zerolog.Logger) error {
	rows, err := db.QueryContext(ctx, `
		SELECT id, date
		FROM concerts
		WHERE date_ts = 0
	`)
	if err != nil {
		return fmt.Errorf("list concerts missing timestamps: %w", err)
	}
	defer rows.Close()

	type pending struct {
		id   string
		date string
	}
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.date); err != nil {
			return fmt.Errorf("scan concert: %w", err)
		}
		todo = append(todo, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	year := time.Now().Year()
	updated := 0
	for _, p := range todo {
		ts, err := parseDisplayDate(p.date, year, time.Local)
		if err != nil {
			log.Warn().Str("concert_id", p.id).Str("date", p.date).Msg("skipping unparseable date")
			continue
		}
		if err := dataStore.UpdateConcertDate(ctx, p.id, p.date, ts.Unix()); err != nil {
			return fmt.Errorf("update concert %s: %w", p.id, err)
		}
		updated++
	}

	log.Info().Int("updated", updated).Int("total", len(todo)).Msg("backfill complete")
	return nil
}
