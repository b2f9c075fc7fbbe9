package concerts

import (
	"context"
	"errors"
	"time"

	"stagenextdoor/internal/discover"
	"stagenextdoor/internal/fetcher"
	"stagenextdoor/internal/models"
	"stagenextdoor/internal/store"
)

// detailTimeout bounds a single-concert lookup before falling back to the
// cached listing.
const detailTimeout = 5 * time.Second

// defaultLimit applies to trending and recommended listings when the caller
// does not ask for a specific size.
const defaultLimit = 5

// Store defines the persistence operations the concert service needs beyond
// what the fetcher already covers.
type Store interface {
	GetConcert(ctx context.Context, id string) (models.Concert, error)
	UserIDByToken(ctx context.Context, token string) (int64, error)
	FavoriteGenres(ctx context.Context, userID int64) ([]string, error)
	SetAttendance(ctx context.Context, userID int64, concertID string, attending bool) error
	Attendance(ctx context.Context, userID int64, concertID string) (bool, int, error)
	AttendedConcertIDs(ctx context.Context, userID int64) ([]string, error)
	SetMusicTrack(ctx context.Context, id string, track models.MusicTrack) error
}

// Fetcher resolves the current concert listing with cache fallback.
type Fetcher interface {
	Fetch(ctx context.Context, forceRefresh bool) (fetcher.Result, error)
}

// Listing is a filtered concert listing plus its provenance.
type Listing struct {
	Concerts  []models.Concert
	FromCache bool
	FetchedAt time.Time
}

// AttendanceInfo reports one user's RSVP alongside the total count.
type AttendanceInfo struct {
	Attending bool `json:"attending"`
	Total     int  `json:"total"`
}

// Service coordinates concert discovery operations.
type Service interface {
	List(ctx context.Context, criteria discover.Criteria, forceRefresh bool) (Listing, error)
	Get(ctx context.Context, id string) (models.Concert, bool, error)
	Refresh(ctx context.Context) (Listing, error)
	Trending(ctx context.Context, limit int) ([]models.Concert, error)
	Recommended(ctx context.Context, token string, limit int) ([]models.Concert, error)
	SetAttendance(ctx context.Context, token, concertID string, attending bool) (AttendanceInfo, error)
	GetAttendance(ctx context.Context, token, concertID string) (AttendanceInfo, error)
	Attended(ctx context.Context, token string) ([]models.Concert, error)
	LinkTrack(ctx context.Context, concertID string, track models.MusicTrack) error
}

type service struct {
	store   Store
	fetcher Fetcher
}

// New constructs a concerts Service.
func New(store Store, f Fetcher) Service {
	return &service{store: store, fetcher: f}
}

func (s *service) List(ctx context.Context, criteria discover.Criteria, forceRefresh bool) (Listing, error) {
	if err := ctx.Err(); err != nil {
		return Listing{}, err
	}

	result, err := s.fetcher.Fetch(ctx, forceRefresh)
	if err != nil {
		return Listing{}, err
	}

	// A negative price means the caller set no ceiling.
	if criteria.Price < 0 {
		criteria.Price = discover.MaxPrice(result.Concerts)
	}

	filtered, err := discover.ApplyFilters(result.Concerts, criteria)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Concerts: filtered, FromCache: result.FromCache, FetchedAt: result.FetchedAt}, nil
}

// Get looks a concert up directly, falling back to the cached listing when
// the source is slow or down. The bool reports whether the fallback served
// the result.
func (s *service) Get(ctx context.Context, id string) (models.Concert, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.Concert{}, false, err
	}

	direct, cancel := context.WithTimeout(ctx, detailTimeout)
	defer cancel()

	concert, err := s.store.GetConcert(direct, id)
	if err == nil {
		return concert, false, nil
	}
	if isNotFound(err) {
		return models.Concert{}, false, err
	}

	result, ferr := s.fetcher.Fetch(ctx, false)
	if ferr != nil {
		return models.Concert{}, false, err
	}
	for _, c := range result.Concerts {
		if c.ID == id {
			return c, true, nil
		}
	}
	return models.Concert{}, false, err
}

func (s *service) Refresh(ctx context.Context) (Listing, error) {
	if err := ctx.Err(); err != nil {
		return Listing{}, err
	}

	result, err := s.fetcher.Fetch(ctx, true)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Concerts: result.Concerts, FromCache: result.FromCache, FetchedAt: result.FetchedAt}, nil
}

func (s *service) Trending(ctx context.Context, limit int) ([]models.Concert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	result, err := s.fetcher.Fetch(ctx, false)
	if err != nil {
		return nil, err
	}
	return discover.Trending(result.Concerts, limit), nil
}

func (s *service) Recommended(ctx context.Context, token string, limit int) ([]models.Concert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	userID, err := s.store.UserIDByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	favorites, err := s.store.FavoriteGenres(ctx, userID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	result, err := s.fetcher.Fetch(ctx, false)
	if err != nil {
		return nil, err
	}
	return discover.RecommendationsFor(result.Concerts, favorites, limit), nil
}

func (s *service) SetAttendance(ctx context.Context, token, concertID string, attending bool) (AttendanceInfo, error) {
	if err := ctx.Err(); err != nil {
		return AttendanceInfo{}, err
	}

	userID, err := s.store.UserIDByToken(ctx, token)
	if err != nil {
		return AttendanceInfo{}, err
	}

	if _, err := s.store.GetConcert(ctx, concertID); err != nil {
		return AttendanceInfo{}, err
	}

	if err := s.store.SetAttendance(ctx, userID, concertID, attending); err != nil {
		return AttendanceInfo{}, err
	}

	isAttending, total, err := s.store.Attendance(ctx, userID, concertID)
	if err != nil {
		return AttendanceInfo{}, err
	}
	return AttendanceInfo{Attending: isAttending, Total: total}, nil
}

func (s *service) GetAttendance(ctx context.Context, token, concertID string) (AttendanceInfo, error) {
	if err := ctx.Err(); err != nil {
		return AttendanceInfo{}, err
	}

	userID, err := s.store.UserIDByToken(ctx, token)
	if err != nil {
		return AttendanceInfo{}, err
	}

	attending, total, err := s.store.Attendance(ctx, userID, concertID)
	if err != nil {
		return AttendanceInfo{}, err
	}
	return AttendanceInfo{Attending: attending, Total: total}, nil
}

// Attended returns the concerts the user has marked, newest mark first.
// Concerts that have since left the catalog are skipped.
func (s *service) Attended(ctx context.Context, token string) ([]models.Concert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	userID, err := s.store.UserIDByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	ids, err := s.store.AttendedConcertIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	attended := make([]models.Concert, 0, len(ids))
	for _, id := range ids {
		concert, err := s.store.GetConcert(ctx, id)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		attended = append(attended, concert)
	}
	return attended, nil
}

func (s *service) LinkTrack(ctx context.Context, concertID string, track models.MusicTrack) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.SetMusicTrack(ctx, concertID, track)
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrConcertNotFound)
}
