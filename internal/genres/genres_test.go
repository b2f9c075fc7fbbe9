package genres

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hip-Hop", "hiphop"},
		{"hiphop", "hiphop"},
		{"R&B", "rb"},
		{"  Heavy Metal ", "heavymetal"},
		{"K-pop", "kpop"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tc := range tests {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"substring containment", "Alternative Rock", "Rock", true},
		{"reversed containment", "Rock", "Alternative Rock", true},
		{"case and punctuation", "Hip-Hop", "hip hop", true},
		{"no relation", "Jazz", "Classical", false},
		{"rap maps to hip-hop", "Hip-Hop", "Gangsta Rap", true},
		{"house maps to edm", "EDM", "Deep House", true},
		{"techno maps to edm", "edm", "Detroit Techno", true},
		{"soul maps to rnb", "R&B", "Neo Soul", true},
		{"soul synonym is symmetric", "Neo Soul", "R&B", true},
		{"dance maps to edm", "EDM", "Dance Pop", true},
		{"empty never matches", "", "Rock", false},
		{"both empty", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Matches(tc.a, tc.b); got != tc.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestMatchesAny(t *testing.T) {
	if !MatchesAny("Indie Rock", []string{"Jazz", "Rock"}) {
		t.Error("expected Indie Rock to match selection containing Rock")
	}
	if MatchesAny("Jazz", []string{"Classical", "Metal"}) {
		t.Error("Jazz should not match Classical or Metal")
	}
	if MatchesAny("Jazz", nil) {
		t.Error("empty selection should never match")
	}
}

func TestRankMatches(t *testing.T) {
	foreign := []string{"indie rock", "garage rock", "art rock", "bebop", "trap"}

	got := RankMatches(Canonical, foreign, 5)
	if len(got) == 0 {
		t.Fatal("expected at least one ranked genre")
	}
	if got[0] != "Rock" {
		t.Errorf("expected Rock ranked first, got %v", got)
	}

	found := map[string]bool{}
	for _, g := range got {
		found[g] = true
	}
	if !found["Hip-Hop"] {
		t.Errorf("expected trap to surface Hip-Hop, got %v", got)
	}
	if found["Classical"] {
		t.Errorf("Classical should not appear, got %v", got)
	}
}

func TestRankMatchesCap(t *testing.T) {
	foreign := []string{"pop", "rock", "jazz", "blues", "folk", "disco", "metal"}
	got := RankMatches(Canonical, foreign, 3)
	if len(got) != 3 {
		t.Fatalf("expected cap of 3, got %d: %v", len(got), got)
	}
}

func TestRankMatchesNoHits(t *testing.T) {
	if got := RankMatches(Canonical, []string{"throat singing"}, 5); len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestFallbackSelection(t *testing.T) {
	got := FallbackSelection()
	want := []string{"Pop", "Rock"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FallbackSelection() = %v, want %v", got, want)
	}
}
