// Package store provides Postgres persistence for users, sessions, concerts,
// and concert photos.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserExists signals the username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthorized indicates an invalid, expired, or revoked session.
	ErrUnauthorized = errors.New("unauthorized")

	dummyPasswordHash = []byte("$2a$10$CwTycUXWue0Thq9StjUM0uJ8n4VWeNseyX2fA9DE.D7su7J6iYGTC")
)

const sessionTTL = 30 * 24 * time.Hour

// Store provides persistence backed by Postgres.
type Store struct {
	db        *sql.DB
	jwtSecret []byte
}

// New sets up a Store using the provided database handle and the secret used
// to sign session tokens.
func New(db *sql.DB, jwtSecret []byte) *Store {
	return &Store{db: db, jwtSecret: jwtSecret}
}

// sessionClaims are the JWT claims carried by a session token. The token is
// only half of a session: the jti must also exist in the sessions table, so a
// signed token can still be revoked server-side.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// CreateUser registers a new user with an optional starter set of favorite
// genres and returns a session token for the fresh account.
func (s *Store) CreateUser(ctx context.Context, username, password string, favoriteGenres []string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", fmt.Errorf("username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var userID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`, username, hash).Scan(&userID)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("insert user: %w", err)
	}

	for i, genre := range favoriteGenres {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_genres (user_id, position, genre)
			VALUES ($1, $2, $3)
		`, userID, i, genre); err != nil {
			return "", fmt.Errorf("insert genre: %w", err)
		}
	}

	token, err := s.issueSessionTx(ctx, tx, userID)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return token, nil
}

// Authenticate validates credentials and returns a session token.
func (s *Store) Authenticate(ctx context.Context, username, password string) (string, error) {
	var (
		userID int64
		hash   []byte
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash
		FROM users
		WHERE username = $1
	`, username).Scan(&userID, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.issueSession(ctx, userID)
}

// UserIDByToken resolves a session token to a user ID. The token signature
// and expiry are checked first, then the session row must still exist.
func (s *Store) UserIDByToken(ctx context.Context, token string) (int64, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrUnauthorized
	}

	var userID int64
	err = s.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM sessions
		WHERE token_id = $1 AND expires_at > NOW()
	`, claims.ID).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUnauthorized
		}
		return 0, fmt.Errorf("lookup session: %w", err)
	}
	return userID, nil
}

// Logout revokes the session carried by token. Revoking an unknown or
// already-revoked token is not an error.
func (s *Store) Logout(ctx context.Context, token string) error {
	claims := &sessionClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}); err != nil {
		return nil
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE token_id = $1
	`, claims.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Store) issueSession(ctx context.Context, userID int64) (string, error) {
	token, tokenID, expiresAt, err := s.signToken(userID)
	if err != nil {
		return "", err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token_id, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, tokenID, userID, expiresAt); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *Store) issueSessionTx(ctx context.Context, tx *sql.Tx, userID int64) (string, error) {
	token, tokenID, expiresAt, err := s.signToken(userID)
	if err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (token_id, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, tokenID, userID, expiresAt); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *Store) signToken(userID int64) (token, tokenID string, expiresAt time.Time, err error) {
	tokenID = uuid.New().String()
	expiresAt = time.Now().Add(sessionTTL)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, tokenID, expiresAt, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
