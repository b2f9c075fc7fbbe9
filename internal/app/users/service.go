package users

import (
	"context"
	"errors"

	"stagenextdoor/internal/genres"
	"stagenextdoor/internal/models"
	"stagenextdoor/internal/musicapi"
)

// topArtistLimit is how many of the listener's top artists feed the
// favorite-genre import.
const topArtistLimit = 50

// ErrImportUnavailable means the service was built without a streaming
// client, so genre import cannot run.
var ErrImportUnavailable = errors.New("genre import is not configured")

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, username, password string, favoriteGenres []string) (string, error)
	Authenticate(ctx context.Context, username, password string) (string, error)
	UserIDByToken(ctx context.Context, token string) (int64, error)
	Logout(ctx context.Context, token string) error
	GetUser(ctx context.Context, userID int64) (models.User, error)
	SetFavoriteGenres(ctx context.Context, userID int64, genres []string) error
}

// Music looks up a listener's top artists on a streaming service.
type Music interface {
	TopArtists(ctx context.Context, userToken string, limit int) ([]musicapi.Artist, error)
}

// Service exposes account and preference workflows.
type Service interface {
	Signup(ctx context.Context, username, password string, favoriteGenres []string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, token string) (models.User, error)
	SetFavoriteGenres(ctx context.Context, token string, selection []string) error
	ImportFavoriteGenres(ctx context.Context, token, streamingToken string) ([]string, error)
}

type service struct {
	store Store
	music Music
}

// New wires a Service backed by the provided Store and streaming client.
// music may be nil, in which case genre import is unavailable.
func New(store Store, music Music) Service {
	return &service{store: store, music: music}
}

func (s *service) Signup(ctx context.Context, username, password string, favoriteGenres []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.store.CreateUser(ctx, username, password, keepCanonical(favoriteGenres))
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.store.Authenticate(ctx, username, password)
}

func (s *service) Logout(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Logout(ctx, token)
}

func (s *service) Profile(ctx context.Context, token string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	userID, err := s.store.UserIDByToken(ctx, token)
	if err != nil {
		return models.User{}, err
	}
	return s.store.GetUser(ctx, userID)
}

func (s *service) SetFavoriteGenres(ctx context.Context, token string, selection []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	userID, err := s.store.UserIDByToken(ctx, token)
	if err != nil {
		return err
	}
	return s.store.SetFavoriteGenres(ctx, userID, keepCanonical(selection))
}

// ImportFavoriteGenres derives a favorite-genre selection from the listener's
// top artists and stores it. Artists' genre tags are ranked against the app's
// genre list; when nothing matches the selection falls back to a sensible
// default rather than staying empty.
func (s *service) ImportFavoriteGenres(ctx context.Context, token, streamingToken string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.music == nil {
		return nil, ErrImportUnavailable
	}

	userID, err := s.store.UserIDByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	artists, err := s.music.TopArtists(ctx, streamingToken, topArtistLimit)
	if err != nil {
		return nil, err
	}

	var foreign []string
	for _, a := range artists {
		foreign = append(foreign, a.Genres...)
	}

	selection := genres.RankMatches(genres.Canonical, foreign, 5)
	if len(selection) == 0 {
		selection = genres.FallbackSelection()
	}

	if err := s.store.SetFavoriteGenres(ctx, userID, selection); err != nil {
		return nil, err
	}
	return selection, nil
}

// keepCanonical drops selections that are not app genres, preserving order.
func keepCanonical(selection []string) []string {
	var out []string
	for _, g := range selection {
		for _, c := range genres.Canonical {
			if g == c {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
