// Package auth implements account registration and credential checks.
package auth

import (
	"context"
	"errors"
	"fmt"

	"finance-tracker/internal/models"
	"finance-tracker/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)

// Operation names carried by StoreError.
const (
	OpLookup = "lookup"
	OpInsert = "insert"
	OpHash   = "hash"
)

// StoreError wraps a failure of the underlying user store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("user store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// UserStore is the persistence the service needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error)
}

// Service registers users and verifies their credentials.
type Service struct {
	store UserStore
	cost  int
}

// Option configures a Service.
type Option func(*Service)

// WithCost overrides the bcrypt work factor. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(s *Service) {
		s.cost = cost
	}
}

// NewService creates a Service that hashes at DefaultCost unless overridden.
func NewService(store UserStore, opts ...Option) *Service {
	s := &Service{store: store, cost: DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user unless the email is already taken.
//
// The email lookup only gives an early answer. Two concurrent registrations can
// both pass it, and the store's unique constraint then rejects the second insert,
// which is reported as ErrUserExists as well.
func (s *Service) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	_, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, storage.ErrUserNotFound):
		return nil, &StoreError{Op: OpLookup, Err: err}
	}

	hash, err := hashPassword(password, s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, &StoreError{Op: OpHash, Err: err}
	}

	user, err := s.store.CreateUser(ctx, email, username, hash)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, &StoreError{Op: OpInsert, Err: err}
	}
	return user, nil
}

// Login checks password against the stored hash for email. It never writes.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, &StoreError{Op: OpLookup, Err: err}
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
