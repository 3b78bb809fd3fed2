package board

import (
	"time"

	"github.com/google/uuid"

	"github.com/daap14/taskboard/internal/team"
	"github.com/daap14/taskboard/internal/user"
)

// ID identifies a board.
type ID string

// NewID returns a fresh random board ID.
func NewID() ID { return ID(uuid.NewString()) }

func (id ID) String() string { return string(id) }

// TaskID identifies a task. Task IDs are unique across all boards.
type TaskID string

// NewTaskID returns a fresh random task ID.
func NewTaskID() TaskID { return TaskID(uuid.NewString()) }

func (id TaskID) String() string { return string(id) }

// Status is the lifecycle state of a board.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// TaskStatus is the progress state of a task.
type TaskStatus string

const (
	TaskOpen       TaskStatus = "OPEN"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskComplete   TaskStatus = "COMPLETE"
)

// TaskStatuses lists every accepted task status.
var TaskStatuses = []TaskStatus{TaskOpen, TaskInProgress, TaskComplete}

// Task belongs to exactly one board and is stored inside it.
type Task struct {
	ID           TaskID     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	UserID       user.ID    `json:"user_id"`
	Status       TaskStatus `json:"status"`
	CreationTime time.Time  `json:"creation_time"`
}

// Board is one record of the boards collection, tasks included.
type Board struct {
	ID           ID         `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	TeamID       team.ID    `json:"team_id"`
	Status       Status     `json:"status"`
	CreationTime time.Time  `json:"creation_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Tasks        []Task     `json:"tasks"`
}

// Summary is the listing view of an open board.
type Summary struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// CreateInput holds the fields accepted when creating a board.
type CreateInput struct {
	Name        string
	Description string
	TeamID      team.ID
}

// AddTaskInput holds the fields accepted when adding a task to a board.
type AddTaskInput struct {
	Title       string
	Description string
	UserID      user.ID
	BoardID     ID
}
