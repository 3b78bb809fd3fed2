package user

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ID identifies a user. Teams and tasks hold user IDs as weak references.
type ID string

// NewID returns a fresh random user ID.
func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string {
	return string(id)
}

// User is one record of the users collection.
type User struct {
	ID           ID        `json:"id"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"display_name"`
	Description  string    `json:"description"`
	CreationTime time.Time `json:"creation_time"`
}

// CreateInput holds the fields accepted when creating a user.
type CreateInput struct {
	Name        string
	DisplayName string
}

// UpdateInput holds the fields accepted when updating a user. Name must match
// the stored name when supplied.
type UpdateInput struct {
	Name        string
	DisplayName string
}

// TeamSummary describes a team the user is a member of.
type TeamSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CreationTime time.Time `json:"creation_time"`
}

func describe(name, displayName string, created time.Time) string {
	return fmt.Sprintf("%s (%s) joined on %s", name, displayName, created.Format(time.RFC3339))
}
