package musicapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestSpotify(t *testing.T, api http.HandlerFunc, auth http.HandlerFunc) *SpotifyClient {
	t.Helper()

	apiSrv := httptest.NewServer(api)
	t.Cleanup(apiSrv.Close)

	c := NewSpotifyClient(Config{SpotifyClientID: "id", SpotifyClientSecret: "secret"})
	c.apiURL = apiSrv.URL

	if auth != nil {
		authSrv := httptest.NewServer(auth)
		t.Cleanup(authSrv.Close)
		c.authURL = authSrv.URL
	}
	return c
}

func TestTopArtistsUsesUserToken(t *testing.T) {
	client := newTestSpotify(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/top/artists" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer user-token" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(spotifyArtistsPage{Items: []spotifyArtist{
			{ID: "a1", Name: "Evania", Genres: []string{"indie rock", "shoegaze"}},
			{ID: "a2", Name: "CorMae", Genres: []string{"bebop"}},
		}})
	}, nil)

	artists, err := client.TopArtists(context.Background(), "user-token", 50)
	if err != nil {
		t.Fatalf("TopArtists: %v", err)
	}
	if len(artists) != 2 {
		t.Fatalf("expected 2 artists, got %d", len(artists))
	}
	if artists[0].Name != "Evania" || len(artists[0].Genres) != 2 {
		t.Errorf("artist mismatch: %+v", artists[0])
	}
}

func TestTopArtistsAPIError(t *testing.T) {
	client := newTestSpotify(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
	}, nil)

	if _, err := client.TopArtists(context.Background(), "bad-token", 50); err == nil {
		t.Fatal("expected an error for a rejected token")
	}
}

func TestPreviewTrackSkipsUnplayable(t *testing.T) {
	client := newTestSpotify(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "artist:Evania" {
			t.Errorf("q = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"tracks": map[string]any{
				"items": []map[string]any{
					{"id": "t1", "name": "No Preview", "preview_url": ""},
					{"id": "t2", "name": "Single", "preview_url": "http://p/2.mp3",
						"artists": []map[string]string{{"name": "Evania"}}},
				},
			},
		})
	}, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(spotifyTokenResponse{AccessToken: "app-token", ExpiresIn: 3600})
	})

	track, err := client.PreviewTrack(context.Background(), "Evania")
	if err != nil {
		t.Fatalf("PreviewTrack: %v", err)
	}
	if track == nil || track.ExternalID != "t2" || track.PreviewURL != "http://p/2.mp3" {
		t.Errorf("track mismatch: %+v", track)
	}
}

func TestPreviewTrackNoneFound(t *testing.T) {
	client := newTestSpotify(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"tracks": map[string]any{"items": []map[string]any{}},
		})
	}, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(spotifyTokenResponse{AccessToken: "app-token", ExpiresIn: 3600})
	})

	track, err := client.PreviewTrack(context.Background(), "Nobody")
	if err != nil {
		t.Fatalf("PreviewTrack: %v", err)
	}
	if track != nil {
		t.Errorf("expected nil track, got %+v", track)
	}
}
