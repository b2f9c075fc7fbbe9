// Package discover implements the concert filtering and recommendation
// heuristics: price ceiling, date-bucket filtering, genre matching, and the
// trending / recommended-for-you samples.
package discover

import (
	"errors"
	"math/rand/v2"
	"strings"

	"stagenextdoor/internal/genres"
	"stagenextdoor/internal/models"
)

// ErrNoMatches signals that filters were applied and eliminated every concert.
// Distinct from the untouched-filters passthrough so callers can render a
// "no matches" state instead of an empty list.
var ErrNoMatches = errors.New("no concerts match the selected filters")

// DateBucket selects a coarse date restriction.
type DateBucket string

const (
	DateAny      DateBucket = "any"
	DateToday    DateBucket = "today"
	DateTomorrow DateBucket = "tomorrow"
	DateThisWeek DateBucket = "week"
	DateCustom   DateBucket = "custom"
)

// LocationBucket is parsed for forward compatibility but currently inert:
// concert records carry no coordinates to filter on.
type LocationBucket string

const (
	LocationAny     LocationBucket = "any"
	LocationNearby  LocationBucket = "nearby"
	LocationCity    LocationBucket = "city"
	LocationCustomL LocationBucket = "custom"
)

// Criteria is the per-request filter state. It is ephemeral: built from one
// filter-screen session, applied once, and discarded.
type Criteria struct {
	Price    float64
	Date     DateBucket
	Location LocationBucket
	Genres   []string
}

// ParseDateBucket maps a query-string value onto a DateBucket, defaulting to
// DateAny for anything unrecognized.
func ParseDateBucket(s string) DateBucket {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return DateToday
	case "tomorrow":
		return DateTomorrow
	case "week", "this week", "thisweek":
		return DateThisWeek
	case "custom":
		return DateCustom
	default:
		return DateAny
	}
}

// ParseLocationBucket maps a query-string value onto a LocationBucket.
func ParseLocationBucket(s string) LocationBucket {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearby", "<5 miles":
		return LocationNearby
	case "city", "<10 miles", "<20 miles":
		return LocationCity
	case "custom":
		return LocationCustomL
	default:
		return LocationAny
	}
}

// MaxPrice returns the highest price present in concerts, or 0 for an empty
// set. The default criteria use it so an untouched price slider never hides
// anything.
func MaxPrice(concerts []models.Concert) float64 {
	var max float64
	for _, c := range concerts {
		if c.Price > max {
			max = c.Price
		}
	}
	return max
}

// DefaultCriteria builds the no-restriction state for the given concert set.
func DefaultCriteria(concerts []models.Concert) Criteria {
	return Criteria{
		Price:    MaxPrice(concerts),
		Date:     DateAny,
		Location: LocationAny,
	}
}

// isDefault reports whether c leaves the concert set unrestricted. Location
// is ignored here because it is inert.
func (c Criteria) isDefault(concerts []models.Concert) bool {
	return c.Price >= MaxPrice(concerts) &&
		(c.Date == DateAny || c.Date == "") &&
		len(c.Genres) == 0
}

// ApplyFilters applies criteria to concerts. With the default criteria the
// input is returned unchanged, length- and order-preserved; otherwise the
// price ceiling, genre selection, and date bucket are applied in that order.
// An empty result after filtering is reported as ErrNoMatches.
func ApplyFilters(concerts []models.Concert, criteria Criteria) ([]models.Concert, error) {
	if criteria.isDefault(concerts) {
		return concerts, nil
	}

	filtered := make([]models.Concert, 0, len(concerts))
	for _, c := range concerts {
		if c.Price > criteria.Price {
			continue
		}
		if len(criteria.Genres) > 0 && !genres.MatchesAny(c.Genre, criteria.Genres) {
			continue
		}
		filtered = append(filtered, c)
	}

	filtered = applyDateBucket(filtered, criteria.Date)

	if len(filtered) == 0 {
		return nil, ErrNoMatches
	}
	return filtered, nil
}

// applyDateBucket narrows the filtered list by date bucket. Today and
// Tomorrow are positional slices of the already-filtered list (the first and
// middle thirds) rather than calendar comparisons; the concert dates are
// display strings, so this approximation is deliberate.
func applyDateBucket(list []models.Concert, bucket DateBucket) []models.Concert {
	switch bucket {
	case DateToday, DateTomorrow:
		third := (len(list) + 2) / 3
		if bucket == DateToday {
			return list[:min(third, len(list))]
		}
		return list[min(third, len(list)):min(2*third, len(list))]
	default:
		// Any, ThisWeek, and Custom leave the list untouched.
		return list
	}
}

// RecommendationsFor picks up to limit concerts matching the user's favorite
// genres, shuffled. When nothing matches it falls back to a random sample of
// the whole set, so a non-empty input never yields an empty recommendation.
func RecommendationsFor(concerts []models.Concert, favoriteGenres []string, limit int) []models.Concert {
	matched := make([]models.Concert, 0, len(concerts))
	for _, c := range concerts {
		if genres.MatchesAny(c.Genre, favoriteGenres) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		matched = concerts
	}
	return sample(matched, limit)
}

// Trending returns a random sample of size limit, independent of preferences.
func Trending(concerts []models.Concert, limit int) []models.Concert {
	return sample(concerts, limit)
}

// sample shuffles a copy of list and truncates it to limit. Uniform permutation,
// no seed determinism: repeated calls differ.
func sample(list []models.Concert, limit int) []models.Concert {
	out := make([]models.Concert, len(list))
	copy(out, list)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
