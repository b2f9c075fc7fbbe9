package discover

import (
	"errors"
	"reflect"
	"testing"

	"stagenextdoor/internal/models"
)

func concertSet() []models.Concert {
	return []models.Concert{
		{ID: "c1", ArtistName: "Evania", Genre: "Indie Rock", Price: 10},
		{ID: "c2", ArtistName: "CorMae", Genre: "Jazz", Price: 25},
		{ID: "c3", ArtistName: "Fifi Knifefight", Genre: "Punk Rock", Price: 20},
		{ID: "c4", ArtistName: "Social Dissonance", Genre: "EDM", Price: 15},
		{ID: "c5", ArtistName: "Moodring", Genre: "", Price: 5},
	}
}

func ids(list []models.Concert) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.ID
	}
	return out
}

func TestApplyFiltersDefaultPassthrough(t *testing.T) {
	concerts := concertSet()

	got, err := ApplyFilters(concerts, DefaultCriteria(concerts))
	if err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}
	if !reflect.DeepEqual(ids(got), ids(concerts)) {
		t.Errorf("default criteria should preserve input, got %v", ids(got))
	}
}

func TestApplyFiltersPriceCeiling(t *testing.T) {
	concerts := []models.Concert{
		{ID: "a", Price: 10},
		{ID: "b", Price: 25},
		{ID: "c", Price: 20},
	}

	got, err := ApplyFilters(concerts, Criteria{Price: 20, Date: DateAny})
	if err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}
	if !reflect.DeepEqual(ids(got), []string{"a", "c"}) {
		t.Errorf("price filter returned %v, want [a c]", ids(got))
	}
}

func TestApplyFiltersGenres(t *testing.T) {
	concerts := concertSet()

	criteria := Criteria{
		Price:  MaxPrice(concerts),
		Date:   DateAny,
		Genres: []string{"Rock"},
	}
	got, err := ApplyFilters(concerts, criteria)
	if err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}
	if !reflect.DeepEqual(ids(got), []string{"c1", "c3"}) {
		t.Errorf("genre filter returned %v, want [c1 c3]", ids(got))
	}
}

func TestApplyFiltersGenrelessConcertIsUnmatched(t *testing.T) {
	concerts := concertSet()

	criteria := Criteria{Price: MaxPrice(concerts), Genres: []string{"Pop"}}
	_, err := ApplyFilters(concerts, criteria)
	if !errors.Is(err, ErrNoMatches) {
		t.Fatalf("expected ErrNoMatches, got %v", err)
	}
}

func TestApplyFiltersNoMatches(t *testing.T) {
	concerts := concertSet()

	_, err := ApplyFilters(concerts, Criteria{Price: 1, Date: DateAny})
	if !errors.Is(err, ErrNoMatches) {
		t.Fatalf("expected ErrNoMatches, got %v", err)
	}
}

func TestApplyFiltersDateBuckets(t *testing.T) {
	concerts := []models.Concert{
		{ID: "a", Price: 1}, {ID: "b", Price: 1}, {ID: "c", Price: 1},
		{ID: "d", Price: 1}, {ID: "e", Price: 1}, {ID: "f", Price: 1},
	}

	// Positional thirds: with the price untouched but a date bucket chosen the
	// criteria are no longer default.
	got, err := ApplyFilters(concerts, Criteria{Price: 10, Date: DateToday})
	if err != nil {
		t.Fatalf("ApplyFilters today: %v", err)
	}
	if !reflect.DeepEqual(ids(got), []string{"a", "b"}) {
		t.Errorf("today bucket = %v, want first third [a b]", ids(got))
	}

	got, err = ApplyFilters(concerts, Criteria{Price: 10, Date: DateTomorrow})
	if err != nil {
		t.Fatalf("ApplyFilters tomorrow: %v", err)
	}
	if !reflect.DeepEqual(ids(got), []string{"c", "d"}) {
		t.Errorf("tomorrow bucket = %v, want middle third [c d]", ids(got))
	}

	got, err = ApplyFilters(concerts, Criteria{Price: 10, Date: DateThisWeek})
	if err != nil {
		t.Fatalf("ApplyFilters week: %v", err)
	}
	if len(got) != len(concerts) {
		t.Errorf("week bucket should pass through, got %d of %d", len(got), len(concerts))
	}
}

func TestParseDateBucket(t *testing.T) {
	tests := map[string]DateBucket{
		"Today":     DateToday,
		"tomorrow":  DateTomorrow,
		"This week": DateThisWeek,
		"custom":    DateCustom,
		"":          DateAny,
		"whenever":  DateAny,
	}
	for in, want := range tests {
		if got := ParseDateBucket(in); got != want {
			t.Errorf("ParseDateBucket(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRecommendationsForGenreMatch(t *testing.T) {
	concerts := concertSet()

	got := RecommendationsFor(concerts, []string{"Jazz"}, 10)
	if len(got) != 1 || got[0].ID != "c2" {
		t.Fatalf("expected only the Jazz concert, got %v", ids(got))
	}
}

func TestRecommendationsForCap(t *testing.T) {
	concerts := concertSet()

	got := RecommendationsFor(concerts, []string{"Rock", "Jazz", "EDM"}, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(got))
	}
	for _, c := range got {
		if c.Genre == "" {
			t.Errorf("genreless concert %s should not be recommended on a match", c.ID)
		}
	}
}

func TestRecommendationsForFallback(t *testing.T) {
	concerts := concertSet()

	got := RecommendationsFor(concerts, []string{"Gregorian Chant"}, 3)
	if len(got) != 3 {
		t.Fatalf("expected fallback sample of 3, got %d", len(got))
	}
}

func TestRecommendationsForEmptyInput(t *testing.T) {
	if got := RecommendationsFor(nil, []string{"Jazz"}, 5); len(got) != 0 {
		t.Errorf("empty input should yield empty output, got %v", ids(got))
	}
}

func TestTrending(t *testing.T) {
	concerts := concertSet()

	got := Trending(concerts, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 trending concerts, got %d", len(got))
	}

	seen := map[string]bool{}
	for _, c := range got {
		if seen[c.ID] {
			t.Errorf("duplicate concert %s in trending sample", c.ID)
		}
		seen[c.ID] = true
	}

	if got := Trending(concerts, 100); len(got) != len(concerts) {
		t.Errorf("oversized limit should return everything, got %d", len(got))
	}
}
