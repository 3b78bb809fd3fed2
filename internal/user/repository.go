// Package user owns the users collection.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/daap14/taskboard/internal/apperr"
	"github.com/daap14/taskboard/internal/store"
	"github.com/daap14/taskboard/internal/validation"
)

// CollectionName is the store collection holding users.
const CollectionName = "users"

// Length limits for user fields.
const (
	MaxNameLength               = validation.MaxNameLength
	MaxDisplayNameLength        = validation.MaxNameLength
	MaxUpdatedDisplayNameLength = validation.MaxDescriptionLength
)

// ErrUserNotFound is returned when no user has the requested ID.
var ErrUserNotFound = fmt.Errorf("user %w", apperr.ErrNotFound)

// ErrDuplicateUserName is returned when a user with the same name already exists.
var ErrDuplicateUserName = fmt.Errorf("user name %w", apperr.ErrConflict)

// ErrNameImmutable is returned when an update tries to rename a user.
var ErrNameImmutable = fmt.Errorf("user name cannot be changed: %w", apperr.ErrImmutable)

// TeamFinder resolves the teams a user belongs to.
type TeamFinder interface {
	TeamsForUser(ctx context.Context, id ID) ([]TeamSummary, error)
}

// Repository provides operations on the users collection.
type Repository interface {
	Create(ctx context.Context, in CreateInput) (*User, error)
	List(ctx context.Context) ([]User, error)
	Describe(ctx context.Context, id ID) (*User, error)
	Update(ctx context.Context, id ID, in UpdateInput) (*User, error)
	GetTeams(ctx context.Context, id ID) ([]TeamSummary, error)
	// Lookup returns the users matching ids in the order given. Unknown IDs
	// are skipped.
	Lookup(ctx context.Context, ids ...ID) ([]User, error)
}

// Option configures a StoreRepository.
type Option func(*StoreRepository)

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *StoreRepository) { r.now = now }
}

// StoreRepository implements Repository on top of a store collection.
// Mutations are serialised so that load, mutate and save never interleave.
type StoreRepository struct {
	mu    sync.Mutex
	users *store.Collection[User]
	teams TeamFinder
	now   func() time.Time
}

// NewRepository creates a Repository persisting into s. teams may be nil, in
// which case GetTeams always returns an empty list.
func NewRepository(s store.Store, teams TeamFinder, opts ...Option) *StoreRepository {
	r := &StoreRepository{
		users: store.NewCollection[User](s, CollectionName),
		teams: teams,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create validates and stores a new user.
func (r *StoreRepository) Create(ctx context.Context, in CreateInput) (*User, error) {
	var c validation.Checker
	c.Required("name", in.Name).
		MaxLength("name", in.Name, MaxNameLength).
		MaxLength("display_name", in.DisplayName, MaxDisplayNameLength)
	if err := c.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.users.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Name == in.Name {
			return nil, ErrDuplicateUserName
		}
	}

	created := r.now().UTC()
	u := User{
		ID:           NewID(),
		Name:         in.Name,
		DisplayName:  in.DisplayName,
		Description:  describe(in.Name, in.DisplayName, created),
		CreationTime: created,
	}
	users = append(users, u)

	if err := r.users.Save(ctx, users); err != nil {
		return nil, err
	}

	slog.Info("user created", "user_id", u.ID, "name", u.Name)
	return &u, nil
}

// List returns every user in creation order.
func (r *StoreRepository) List(ctx context.Context) ([]User, error) {
	return r.users.Load(ctx)
}

// Describe returns the user with the given ID.
func (r *StoreRepository) Describe(ctx context.Context, id ID) (*User, error) {
	users, err := r.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	i, ok := store.Index(users, func(u *User) ID { return u.ID })[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &users[i], nil
}

// Update replaces the display name of a user. The name is fixed at creation:
// a supplied name that differs from the stored one is rejected.
func (r *StoreRepository) Update(ctx context.Context, id ID, in UpdateInput) (*User, error) {
	var c validation.Checker
	c.MaxLength("name", in.Name, MaxNameLength).
		MaxLength("display_name", in.DisplayName, MaxUpdatedDisplayNameLength)
	if err := c.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	i, ok := store.Index(users, func(u *User) ID { return u.ID })[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	u := &users[i]
	if in.Name != "" && in.Name != u.Name {
		return nil, ErrNameImmutable
	}

	u.DisplayName = in.DisplayName
	u.Description = describe(u.Name, u.DisplayName, u.CreationTime)

	if err := r.users.Save(ctx, users); err != nil {
		return nil, err
	}

	slog.Info("user updated", "user_id", u.ID)
	updated := *u
	return &updated, nil
}

// GetTeams lists the teams the user is a member of.
func (r *StoreRepository) GetTeams(ctx context.Context, id ID) ([]TeamSummary, error) {
	if _, err := r.Describe(ctx, id); err != nil {
		return nil, err
	}
	if r.teams == nil {
		return []TeamSummary{}, nil
	}
	teams, err := r.teams.TeamsForUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolving teams for user: %w", err)
	}
	return teams, nil
}

// Lookup returns the users matching ids in the order given.
func (r *StoreRepository) Lookup(ctx context.Context, ids ...ID) ([]User, error) {
	if len(ids) == 0 {
		return []User{}, nil
	}
	users, err := r.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	byID := store.Index(users, func(u *User) ID { return u.ID })

	out := make([]User, 0, len(ids))
	for _, id := range ids {
		if i, ok := byID[id]; ok {
			out = append(out, users[i])
		}
	}
	return out, nil
}
