package musicapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// SpotifyClient implements Client against the Spotify Web API.
type SpotifyClient struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client

	apiURL  string
	authURL string

	mu          sync.RWMutex
	accessToken string
	tokenExpiry time.Time
}

// NewSpotifyClient creates a Spotify API client. Each call returns an
// independent client with its own token state.
func NewSpotifyClient(cfg Config) *SpotifyClient {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &SpotifyClient{
		clientID:     cfg.SpotifyClientID,
		clientSecret: cfg.SpotifyClientSecret,
		httpClient:   &http.Client{Timeout: timeout},
		apiURL:       "https://api.spotify.com/v1",
		authURL:      "https://accounts.spotify.com/api/token",
	}
}

type spotifyArtist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

type spotifyArtistsPage struct {
	Items []spotifyArtist `json:"items"`
}

type spotifyTrack struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PreviewURL string `json:"preview_url"`
	Artists    []struct {
		Name string `json:"name"`
	} `json:"artists"`
}

type spotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// authenticate obtains an app access token via the client-credentials flow.
func (c *SpotifyClient) authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.tokenExpiry) {
		return nil
	}

	authString := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("create auth request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+authString)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("spotify auth failed: %s - %s", resp.Status, string(body))
	}

	var tokenResp spotifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return nil
}

// doRequest performs a GET against the Spotify API with the given bearer
// token and decodes the JSON response into result.
func (c *SpotifyClient) doRequest(ctx context.Context, token, endpoint string, params url.Values, result any) error {
	apiURL := c.apiURL + "/" + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("spotify api error: %s - %s", resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// TopArtists lists the listener's most-played artists. userToken must be a
// user-scoped access token from Spotify's authorization-code flow; the app's
// client-credentials token cannot read personal listening data.
func (c *SpotifyClient) TopArtists(ctx context.Context, userToken string, limit int) ([]Artist, error) {
	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("time_range", "medium_term")

	var page spotifyArtistsPage
	if err := c.doRequest(ctx, userToken, "me/top/artists", params, &page); err != nil {
		return nil, err
	}

	artists := make([]Artist, 0, len(page.Items))
	for _, sa := range page.Items {
		artists = append(artists, Artist{
			ExternalID: sa.ID,
			Name:       sa.Name,
			Genres:     sa.Genres,
		})
	}
	return artists, nil
}

// PreviewTrack searches for a track by the named artist that carries a
// preview clip. Returns nil when no previewable track exists.
func (c *SpotifyClient) PreviewTrack(ctx context.Context, artistName string) (*Track, error) {
	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	token := c.accessToken
	c.mu.RUnlock()

	params := url.Values{}
	params.Set("q", "artist:"+artistName)
	params.Set("type", "track")
	params.Set("limit", "10")

	var result struct {
		Tracks struct {
			Items []spotifyTrack `json:"items"`
		} `json:"tracks"`
	}
	if err := c.doRequest(ctx, token, "search", params, &result); err != nil {
		return nil, err
	}

	for _, st := range result.Tracks.Items {
		if st.PreviewURL == "" {
			continue
		}
		artist := artistName
		if len(st.Artists) > 0 {
			artist = st.Artists[0].Name
		}
		return &Track{
			ExternalID: st.ID,
			Title:      st.Name,
			Artist:     artist,
			PreviewURL: st.PreviewURL,
		}, nil
	}
	return nil, nil
}
