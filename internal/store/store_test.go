package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret")

// sliceConverter lets slice arguments reach the mock unchanged, matching the
// pgx driver used in production; everything else follows the default rules.
type sliceConverter struct{}

func (sliceConverter) ConvertValue(v any) (driver.Value, error) {
	if ss, ok := v.([]string); ok {
		return ss, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(sliceConverter{}))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return New(db, testSecret), mock
}

// signTestToken issues a token whose jti the test can seed session rows for.
func signTestToken(t *testing.T, userID int64, tokenID string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		ID:        tokenID,
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestCreateUserSuccess(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`)).
		WithArgs("ada", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO user_genres (user_id, position, genre)
		VALUES ($1, $2, $3)
	`)).
		WithArgs(int64(7), 0, "Rock").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO sessions (token_id, user_id, expires_at)
		VALUES ($1, $2, $3)
	`)).
		WithArgs(sqlmock.AnyArg(), int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	token, err := s.CreateUser(context.Background(), "  ada ", "s3cret", []string{"Rock"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateUserEmptyFields(t *testing.T) {
	s, _ := newMockStore(t)

	if _, err := s.CreateUser(context.Background(), "", "pw", nil); err == nil {
		t.Error("empty username should fail")
	}
	if _, err := s.CreateUser(context.Background(), "ada", "", nil); err == nil {
		t.Error("empty password should fail")
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	s, mock := newMockStore(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, password_hash
		FROM users
		WHERE username = $1
	`)).
		WithArgs("ada").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash"}).AddRow(int64(7), hash))
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO sessions (token_id, user_id, expires_at)
		VALUES ($1, $2, $3)
	`)).
		WithArgs(sqlmock.AnyArg(), int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	token, err := s.Authenticate(context.Background(), "ada", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	s, mock := newMockStore(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, password_hash
		FROM users
		WHERE username = $1
	`)).
		WithArgs("ada").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash"}).AddRow(int64(7), hash))

	_, err := s.Authenticate(context.Background(), "ada", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, password_hash
		FROM users
		WHERE username = $1
	`)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash"}))

	_, err := s.Authenticate(context.Background(), "ghost", "pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserIDByToken(t *testing.T) {
	s, mock := newMockStore(t)

	token := signTestToken(t, 7, "jti-1", time.Now().Add(time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT user_id
		FROM sessions
		WHERE token_id = $1 AND expires_at > NOW()
	`)).
		WithArgs("jti-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(7)))

	userID, err := s.UserIDByToken(context.Background(), token)
	if err != nil {
		t.Fatalf("UserIDByToken: %v", err)
	}
	if userID != 7 {
		t.Errorf("userID = %d, want 7", userID)
	}
}

func TestUserIDByTokenRevoked(t *testing.T) {
	s, mock := newMockStore(t)

	token := signTestToken(t, 7, "jti-gone", time.Now().Add(time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT user_id
		FROM sessions
		WHERE token_id = $1 AND expires_at > NOW()
	`)).
		WithArgs("jti-gone").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := s.UserIDByToken(context.Background(), token)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUserIDByTokenExpired(t *testing.T) {
	s, _ := newMockStore(t)

	token := signTestToken(t, 7, "jti-old", time.Now().Add(-time.Hour))

	_, err := s.UserIDByToken(context.Background(), token)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUserIDByTokenGarbage(t *testing.T) {
	s, _ := newMockStore(t)

	_, err := s.UserIDByToken(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
