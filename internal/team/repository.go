// Package team owns the teams collection and its membership rules.
package team

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/daap14/taskboard/internal/apperr"
	"github.com/daap14/taskboard/internal/store"
	"github.com/daap14/taskboard/internal/user"
	"github.com/daap14/taskboard/internal/validation"
)

// CollectionName is the store collection holding teams.
const CollectionName = "teams"

// MaxMembers is the largest member set a team may hold.
const MaxMembers = 50

// ErrTeamNotFound is returned when no team has the requested ID.
var ErrTeamNotFound = fmt.Errorf("team %w", apperr.ErrNotFound)

// ErrDuplicateTeamName is returned when another team already uses the name,
// ignoring case.
var ErrDuplicateTeamName = fmt.Errorf("team name %w", apperr.ErrConflict)

// ErrTeamFull is returned when a membership change would exceed MaxMembers.
var ErrTeamFull = fmt.Errorf("team cannot have more than %d users: %w", MaxMembers, apperr.ErrCapacity)

// UserLookup resolves user IDs to user records.
type UserLookup interface {
	Lookup(ctx context.Context, ids ...user.ID) ([]user.User, error)
}

// Repository provides operations on the teams collection.
type Repository interface {
	Create(ctx context.Context, in CreateInput) (*Team, error)
	List(ctx context.Context) ([]Team, error)
	Describe(ctx context.Context, id ID) (*Team, error)
	Update(ctx context.Context, id ID, in UpdateInput) (*Team, error)
	AddUsers(ctx context.Context, id ID, users []user.ID) (*Team, error)
	RemoveUsers(ctx context.Context, id ID, users []user.ID) (*Team, error)
	// ListUsers resolves the member IDs of a team. Members without a user
	// record are left out.
	ListUsers(ctx context.Context, id ID) ([]user.User, error)
	TeamsForUser(ctx context.Context, id user.ID) ([]user.TeamSummary, error)
}

// Option configures a StoreRepository.
type Option func(*StoreRepository)

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *StoreRepository) { r.now = now }
}

// StoreRepository implements Repository on top of a store collection.
type StoreRepository struct {
	*Reader

	mu    sync.Mutex
	users UserLookup
	now   func() time.Time
}

// NewRepository creates a Repository persisting into s and resolving
// members through users.
func NewRepository(s store.Store, users UserLookup, opts ...Option) *StoreRepository {
	r := &StoreRepository{
		Reader: NewReader(s),
		users:  users,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func validateFields(name, description string) error {
	var c validation.Checker
	c.Required("name", name).
		MaxLength("name", name, validation.MaxNameLength).
		MaxLength("description", description, validation.MaxDescriptionLength)
	return c.Err()
}

// nameTaken reports whether a team other than self already uses name.
func nameTaken(teams []Team, name string, self ID) bool {
	for i := range teams {
		if teams[i].ID != self && strings.EqualFold(teams[i].Name, name) {
			return true
		}
	}
	return false
}

// Create validates and stores a new team with no members.
func (r *StoreRepository) Create(ctx context.Context, in CreateInput) (*Team, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	if err := validateFields(name, description); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	teams, err := r.teams.Load(ctx)
	if err != nil {
		return nil, err
	}
	if nameTaken(teams, name, "") {
		return nil, ErrDuplicateTeamName
	}

	t := Team{
		ID:           NewID(),
		Name:         name,
		Description:  description,
		Admin:        user.ID(strings.TrimSpace(in.Admin.String())),
		Users:        []user.ID{},
		CreationTime: r.now().UTC(),
	}
	teams = append(teams, t)

	if err := r.teams.Save(ctx, teams); err != nil {
		return nil, err
	}

	slog.Info("team created", "team_id", t.ID, "name", t.Name)
	return &t, nil
}

// List returns every team in creation order.
func (r *StoreRepository) List(ctx context.Context) ([]Team, error) {
	return r.teams.Load(ctx)
}

// Describe returns the team with the given ID.
func (r *StoreRepository) Describe(ctx context.Context, id ID) (*Team, error) {
	return r.Get(ctx, id)
}

// Update replaces name, description and admin. A changed name must stay
// unique among the other teams.
func (r *StoreRepository) Update(ctx context.Context, id ID, in UpdateInput) (*Team, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	if err := validateFields(name, description); err != nil {
		return nil, err
	}

	return r.mutate(ctx, id, func(teams []Team, t *Team) error {
		if t.Name != name && nameTaken(teams, name, t.ID) {
			return ErrDuplicateTeamName
		}
		t.Name = name
		t.Description = description
		t.Admin = user.ID(strings.TrimSpace(in.Admin.String()))
		return nil
	}, "team updated")
}

// AddUsers merges ids into the member set. Duplicates collapse and blank IDs
// are ignored. When the merged set would exceed MaxMembers nothing changes.
func (r *StoreRepository) AddUsers(ctx context.Context, id ID, ids []user.ID) (*Team, error) {
	return r.mutate(ctx, id, func(_ []Team, t *Team) error {
		merged := make([]user.ID, 0, len(t.Users)+len(ids))
		seen := make(map[user.ID]struct{}, len(t.Users)+len(ids))
		for _, group := range [][]user.ID{t.Users, ids} {
			for _, m := range group {
				m = user.ID(strings.TrimSpace(m.String()))
				if m == "" {
					continue
				}
				if _, dup := seen[m]; dup {
					continue
				}
				seen[m] = struct{}{}
				merged = append(merged, m)
			}
		}
		if len(merged) > MaxMembers {
			return ErrTeamFull
		}
		t.Users = merged
		return nil
	}, "team users added")
}

// RemoveUsers drops every member listed in ids. IDs that are not members are
// ignored.
func (r *StoreRepository) RemoveUsers(ctx context.Context, id ID, ids []user.ID) (*Team, error) {
	remove := make(map[user.ID]struct{}, len(ids))
	for _, m := range ids {
		remove[user.ID(strings.TrimSpace(m.String()))] = struct{}{}
	}

	return r.mutate(ctx, id, func(_ []Team, t *Team) error {
		kept := make([]user.ID, 0, len(t.Users))
		for _, m := range t.Users {
			if _, drop := remove[m]; !drop {
				kept = append(kept, m)
			}
		}
		t.Users = kept
		return nil
	}, "team users removed")
}

// ListUsers resolves the members of a team against the users collection.
func (r *StoreRepository) ListUsers(ctx context.Context, id ID) ([]user.User, error) {
	t, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(t.Users) == 0 || r.users == nil {
		return []user.User{}, nil
	}
	users, err := r.users.Lookup(ctx, t.Users...)
	if err != nil {
		return nil, fmt.Errorf("resolving team members: %w", err)
	}
	return users, nil
}

// mutate loads the collection, applies fn to the team with the given ID and
// saves the result. Nothing is written when fn fails.
func (r *StoreRepository) mutate(ctx context.Context, id ID, fn func(teams []Team, t *Team) error, msg string) (*Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	teams, err := r.teams.Load(ctx)
	if err != nil {
		return nil, err
	}
	i, ok := store.Index(teams, func(t *Team) ID { return t.ID })[id]
	if !ok {
		return nil, ErrTeamNotFound
	}

	if err := fn(teams, &teams[i]); err != nil {
		return nil, err
	}
	if err := r.teams.Save(ctx, teams); err != nil {
		return nil, err
	}

	t := teams[i]
	slog.Info(msg, "team_id", t.ID, "members", len(t.Users))
	return &t, nil
}
