// Package genres canonicalizes free-text genre strings and performs the fuzzy
// matching used by concert filtering, recommendations, and the Spotify
// favorite-genre import. This is an approximate heuristic matcher, not a
// taxonomy: false positives and negatives are acceptable.
package genres

import (
	"sort"
	"strings"
)

// Canonical is the fixed genre list offered by the genre-selection screen.
// Order matters for display and for tie-breaking in RankMatches.
var Canonical = []string{
	"Pop", "Jazz", "Rock", "Hip-Hop", "Classical",
	"EDM", "Country", "R&B", "Folk", "Blues",
	"K-pop", "Metal", "Indie", "Reggae", "Disco",
}

// Normalize lowercases s and strips every character outside [a-z0-9].
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Matches reports whether a and b name the same genre, approximately: after
// normalization either string contains the other, or one of the fixed synonym
// buckets applies.
func Matches(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}
	return synonym(a, b) || synonym(b, a)
}

// synonym reports whether other belongs to the canonical bucket named by canon.
// Checks run on the lowercased raw string because "&" does not survive
// normalization.
func synonym(canon, other string) bool {
	lo := strings.ToLower(other)
	switch Normalize(canon) {
	case "hiphop":
		return strings.Contains(lo, "rap") || strings.Contains(lo, "hip hop")
	case "edm":
		return strings.Contains(lo, "electronic") || strings.Contains(lo, "house") ||
			strings.Contains(lo, "techno") || strings.Contains(lo, "dance")
	case "rb":
		return strings.Contains(lo, "r&b") || strings.Contains(lo, "soul")
	}
	return false
}

// MatchesAny reports whether genre matches at least one entry of selection.
func MatchesAny(genre string, selection []string) bool {
	for _, s := range selection {
		if Matches(genre, s) {
			return true
		}
	}
	return false
}

// RankMatches scores each canonical app genre by how many foreign genre
// strings match it and returns the top app genres by score, best first. App
// genres with no matches are dropped; ties keep canonical order.
func RankMatches(appGenres, foreign []string, top int) []string {
	type scored struct {
		genre string
		rank  int
		count int
	}

	var hits []scored
	for i, app := range appGenres {
		count := 0
		for _, f := range foreign {
			if Matches(app, f) {
				count++
			}
		}
		if count > 0 {
			hits = append(hits, scored{genre: app, rank: i, count: count})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].count != hits[j].count {
			return hits[i].count > hits[j].count
		}
		return hits[i].rank < hits[j].rank
	})

	if top > 0 && len(hits) > top {
		hits = hits[:top]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.genre
	}
	return out
}

// FallbackSelection is the default favorite-genre set used when an import
// finds nothing to match: well-known genres that exist in the canonical list,
// or the first canonical genre as a last resort.
func FallbackSelection() []string {
	var out []string
	for _, want := range []string{"Pop", "Rock", "Electronic"} {
		for _, c := range Canonical {
			if strings.EqualFold(c, want) {
				out = append(out, c)
				break
			}
		}
	}
	if len(out) == 0 {
		out = []string{Canonical[0]}
	}
	return out
}
