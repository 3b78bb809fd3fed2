package team

import (
	"context"

	"github.com/daap14/taskboard/internal/store"
	"github.com/daap14/taskboard/internal/user"
)

// Reader is a read-only view of the teams collection. The user repository
// uses it to resolve memberships without owning the collection.
type Reader struct {
	teams *store.Collection[Team]
}

// NewReader returns a Reader over the teams collection of s.
func NewReader(s store.Store) *Reader {
	return &Reader{teams: store.NewCollection[Team](s, CollectionName)}
}

// Get returns the team with the given ID.
func (r *Reader) Get(ctx context.Context, id ID) (*Team, error) {
	teams, err := r.teams.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		if teams[i].ID == id {
			return &teams[i], nil
		}
	}
	return nil, ErrTeamNotFound
}

// TeamsForUser returns a summary of every team listing id as a member.
func (r *Reader) TeamsForUser(ctx context.Context, id user.ID) ([]user.TeamSummary, error) {
	teams, err := r.teams.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := []user.TeamSummary{}
	for i := range teams {
		if !teams[i].HasMember(id) {
			continue
		}
		out = append(out, user.TeamSummary{
			ID:           teams[i].ID.String(),
			Name:         teams[i].Name,
			Description:  teams[i].Description,
			CreationTime: teams[i].CreationTime,
		})
	}
	return out, nil
}
