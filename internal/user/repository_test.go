package user_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/taskboard/internal/apperr"
	"github.com/daap14/taskboard/internal/store"
	"github.com/daap14/taskboard/internal/user"
)

// --- Mock Team Finder ---

type mockTeamFinder struct {
	teamsForUserFn func(ctx context.Context, id user.ID) ([]user.TeamSummary, error)
}

func (m *mockTeamFinder) TeamsForUser(ctx context.Context, id user.ID) ([]user.TeamSummary, error) {
	if m.teamsForUserFn != nil {
		return m.teamsForUserFn(ctx, id)
	}
	return []user.TeamSummary{}, nil
}

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func setupUserRepo(t *testing.T, finder user.TeamFinder) *user.StoreRepository {
	t.Helper()
	return user.NewRepository(store.NewMemoryStore(), finder, user.WithClock(func() time.Time { return fixedNow }))
}

// --- Create Tests ---

func TestCreate_Success(t *testing.T) {
	repo := setupUserRepo(t, nil)

	u, err := repo.Create(context.Background(), user.CreateInput{Name: "alice", DisplayName: "Alice A"})
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, "Alice A", u.DisplayName)
	assert.True(t, fixedNow.Equal(u.CreationTime))
	assert.Equal(t, "alice (Alice A) joined on 2026-03-01T09:30:00Z", u.Description)
}

func TestCreate_DuplicateName(t *testing.T) {
	repo := setupUserRepo(t, nil)
	ctx := context.Background()

	_, err := repo.Create(ctx, user.CreateInput{Name: "alice", DisplayName: "Alice"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, user.CreateInput{Name: "alice", DisplayName: "Other"})
	assert.ErrorIs(t, err, user.ErrDuplicateUserName)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestCreate_NameUniquenessIsCaseSensitive(t *testing.T) {
	repo := setupUserRepo(t, nil)
	ctx := context.Background()

	_, err := repo.Create(ctx, user.CreateInput{Name: "alice", DisplayName: "Alice"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, user.CreateInput{Name: "Alice", DisplayName: "Alice"})
	assert.NoError(t, err)
}

func TestCreate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input user.CreateInput
	}{
		{"missing name", user.CreateInput{DisplayName: "x"}},
		{"name too long", user.CreateInput{Name: strings.Repeat("n", 65), DisplayName: "x"}},
		{"display name too long", user.CreateInput{Name: "bob", DisplayName: strings.Repeat("d", 65)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := setupUserRepo(t, nil)
			_, err := repo.Create(context.Background(), tt.input)
			assert.ErrorIs(t, err, apperr.ErrValidation)

			users, err := repo.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, users)
		})
	}
}

func TestCreate_BoundaryLengthsAccepted(t *testing.T) {
	repo := setupUserRepo(t, nil)

	_, err := repo.Create(context.Background(), user.CreateInput{
		Name:        strings.Repeat("n", 64),
		DisplayName: strings.Repeat("d", 64),
	})
	assert.NoError(t, err)
}

// --- List / Describe Tests ---

func TestList_CreationOrder(t *testing.T) {
	repo := setupUserRepo(t, nil)
	ctx := context.Background()

	for _, name := range []string{"carol", "alice", "bob"} {
		_, err := repo.Create(ctx, user.CreateInput{Name: name, DisplayName: name})
		require.NoError(t, err)
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "carol", users[0].Name)
	assert.Equal(t, "alice", users[1].Name)
	assert.Equal(t, "bob", users[2].Name)
}

func TestDescribe_NotFound(t *testing.T) {
	repo := setupUserRepo(t, nil)

	_, err := repo.Describe(context.Background(), user.NewID())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// --- Update Tests ---

func TestUpdate_DisplayNameOnly(t *testing.T) {
	repo := setupUserRepo(t, nil)
	ctx := context.Background()

	u, err := repo.Create(ctx, user.CreateInput{Name: "alice", DisplayName: "Alice"})
	require.NoError(t, err)

	longDisplay := strings.Repeat("d", 128)
	updated, err := repo.Update(ctx, u.ID, user.UpdateInput{Name: "alice", DisplayName: longDisplay})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Name)
	assert.Equal(t, longDisplay, updated.DisplayName)

	found, err := repo.Describe(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Name)
	assert.Equal(t, longDisplay, found.DisplayName)
	assert.Contains(t, found.Description, longDisplay)
	assert.True(t, u.CreationTime.Equal(found.CreationTime))
}

func TestUpdate_OmittedNameKeepsName(t *testing.T) {
	repo := setupUserRepo(t, nil)
	ctx := context.Background()

	u, err := repo.Create(ctx, user.CreateInput{Name: "alice", DisplayName: "Alice"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, u.ID, user.UpdateInput{DisplayName: "Al"})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Name)
	assert.Equal(t, "Al", updated.DisplayName)
}

func TestUpdate_NameIsImmutable(t *testing.T) {
	repo := setupUserRepo(t, nil)
	ctx := context.Background()

	u, err := repo.Create(ctx, user.CreateInput{Name: "alice", DisplayName: "Alice"})
	require.NoError(t, err)

	_, err = repo.Update(ctx, u.ID, user.UpdateInput{Name: "alicia", DisplayName: "New"})
	assert.ErrorIs(t, err, user.ErrNameImmutable)
	assert.ErrorIs(t, err, apperr.ErrImmutable)

	found, err := repo.Describe(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Name)
	assert.Equal(t, "Alice", found.DisplayName)
}

func TestUpdate_NotFound(t *testing.T) {
	repo := setupUserRepo(t, nil)

	_, err := repo.Update(context.Background(), user.NewID(), user.UpdateInput{DisplayName: "x"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUpdate_ValidationErrors(t *testing.T) {
	repo := setupUserRepo(t, nil)
	ctx := context.Background()

	u, err := repo.Create(ctx, user.CreateInput{Name: "alice", DisplayName: "Alice"})
	require.NoError(t, err)

	_, err = repo.Update(ctx, u.ID, user.UpdateInput{Name: "alice", DisplayName: strings.Repeat("d", 129)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = repo.Update(ctx, u.ID, user.UpdateInput{Name: strings.Repeat("n", 65), DisplayName: "x"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

// --- GetTeams Tests ---

func TestGetTeams_DelegatesToFinder(t *testing.T) {
	var askedFor user.ID
	finder := &mockTeamFinder{
		teamsForUserFn: func(_ context.Context, id user.ID) ([]user.TeamSummary, error) {
			askedFor = id
			return []user.TeamSummary{{ID: "t1", Name: "Eng"}}, nil
		},
	}
	repo := setupUserRepo(t, finder)
	ctx := context.Background()

	u, err := repo.Create(ctx, user.CreateInput{Name: "alice", DisplayName: "Alice"})
	require.NoError(t, err)

	teams, err := repo.GetTeams(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, askedFor)
	require.Len(t, teams, 1)
	assert.Equal(t, "Eng", teams[0].Name)
}

func TestGetTeams_UnknownUser(t *testing.T) {
	finder := &mockTeamFinder{
		teamsForUserFn: func(_ context.Context, _ user.ID) ([]user.TeamSummary, error) {
			t.Fatal("finder must not be called for unknown users")
			return nil, nil
		},
	}
	repo := setupUserRepo(t, finder)

	_, err := repo.GetTeams(context.Background(), user.NewID())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestGetTeams_FinderError(t *testing.T) {
	finder := &mockTeamFinder{
		teamsForUserFn: func(_ context.Context, _ user.ID) ([]user.TeamSummary, error) {
			return nil, errors.New("disk on fire")
		},
	}
	repo := setupUserRepo(t, finder)
	ctx := context.Background()

	u, err := repo.Create(ctx, user.CreateInput{Name: "alice", DisplayName: "Alice"})
	require.NoError(t, err)

	_, err = repo.GetTeams(ctx, u.ID)
	require.Error(t, err)
	assert.Nil(t, apperr.Kind(err))
}

func TestGetTeams_NoFinder(t *testing.T) {
	repo := setupUserRepo(t, nil)
	ctx := context.Background()

	u, err := repo.Create(ctx, user.CreateInput{Name: "alice", DisplayName: "Alice"})
	require.NoError(t, err)

	teams, err := repo.GetTeams(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, teams)
}

// --- Lookup Tests ---

func TestLookup_SkipsUnknownIDs(t *testing.T) {
	repo := setupUserRepo(t, nil)
	ctx := context.Background()

	a, err := repo.Create(ctx, user.CreateInput{Name: "alice", DisplayName: "Alice"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, user.CreateInput{Name: "bob", DisplayName: "Bob"})
	require.NoError(t, err)

	users, err := repo.Lookup(ctx, b.ID, "ghost", a.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[0].Name)
	assert.Equal(t, "alice", users[1].Name)
}

func TestRepository_PersistsAcrossInstances(t *testing.T) {
	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	first := user.NewRepository(s, nil)
	u, err := first.Create(ctx, user.CreateInput{Name: "alice", DisplayName: "Alice"})
	require.NoError(t, err)

	second := user.NewRepository(s, nil)
	found, err := second.Describe(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Name)

	_, err = second.Create(ctx, user.CreateInput{Name: "alice", DisplayName: "dup"})
	assert.ErrorIs(t, err, user.ErrDuplicateUserName)
}
