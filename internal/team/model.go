package team

import (
	"time"

	"github.com/google/uuid"

	"github.com/daap14/taskboard/internal/user"
)

// ID identifies a team. Boards hold team IDs as weak references.
type ID string

// NewID returns a fresh random team ID.
func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string {
	return string(id)
}

// Team is one record of the teams collection. Admin and Users reference
// users by ID only; their existence is not checked.
type Team struct {
	ID           ID        `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Admin        user.ID   `json:"admin"`
	Users        []user.ID `json:"users"`
	CreationTime time.Time `json:"creation_time"`
}

// HasMember reports whether id is in the member set.
func (t *Team) HasMember(id user.ID) bool {
	for _, m := range t.Users {
		if m == id {
			return true
		}
	}
	return false
}

// CreateInput holds the fields accepted when creating a team.
type CreateInput struct {
	Name        string
	Description string
	Admin       user.ID
}

// UpdateInput replaces the mutable fields of a team.
type UpdateInput struct {
	Name        string
	Description string
	Admin       user.ID
}
