// Package board owns the boards collection, including the tasks nested in
// each board, and enforces the board and task lifecycle.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/daap14/taskboard/internal/apperr"
	"github.com/daap14/taskboard/internal/store"
	"github.com/daap14/taskboard/internal/team"
	"github.com/daap14/taskboard/internal/user"
	"github.com/daap14/taskboard/internal/validation"
)

// CollectionName is the store collection holding boards.
const CollectionName = "boards"

var (
	// ErrBoardNotFound is returned when no board has the requested ID.
	ErrBoardNotFound = fmt.Errorf("board %w", apperr.ErrNotFound)
	// ErrTaskNotFound is returned when no board holds a task with the requested ID.
	ErrTaskNotFound = fmt.Errorf("task %w", apperr.ErrNotFound)
	// ErrDuplicateBoardName is returned when the team already has a board with the name, ignoring case.
	ErrDuplicateBoardName = fmt.Errorf("board name %w in team", apperr.ErrConflict)
	// ErrDuplicateTaskTitle is returned when the board already has a task with the title, ignoring case.
	ErrDuplicateTaskTitle = fmt.Errorf("task title %w on board", apperr.ErrConflict)
	// ErrBoardClosed is returned when an operation needs an OPEN board.
	ErrBoardClosed = fmt.Errorf("board is closed: %w", apperr.ErrState)
	// ErrIncompleteTasks is returned when closing a board that has unfinished tasks.
	ErrIncompleteTasks = fmt.Errorf("all tasks must be COMPLETE to close a board: %w", apperr.ErrState)
)

// TeamLookup resolves a team by ID.
type TeamLookup interface {
	Get(ctx context.Context, id team.ID) (*team.Team, error)
}

// UserLookup resolves user IDs to user records.
type UserLookup interface {
	Lookup(ctx context.Context, ids ...user.ID) ([]user.User, error)
}

// Repository provides operations on the boards collection.
type Repository interface {
	Create(ctx context.Context, in CreateInput) (*Board, error)
	Close(ctx context.Context, id ID) (*Board, error)
	AddTask(ctx context.Context, in AddTaskInput) (*Task, error)
	UpdateTaskStatus(ctx context.Context, id TaskID, status TaskStatus) (*Task, error)
	// List returns the OPEN boards of a team.
	List(ctx context.Context, teamID team.ID) ([]Summary, error)
	Get(ctx context.Context, id ID) (*Board, error)
	// Export renders a board with its tasks and returns the artifact location.
	Export(ctx context.Context, id ID, format Format) (string, error)
}

// Option configures a StoreRepository.
type Option func(*StoreRepository)

// WithClock overrides the time source used for creation and end timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *StoreRepository) { r.now = now }
}

// StoreRepository implements Repository on top of a store collection.
type StoreRepository struct {
	mu       sync.Mutex
	boards   *store.Collection[Board]
	teams    TeamLookup
	users    UserLookup
	exporter Exporter
	now      func() time.Time
}

// NewRepository creates a Repository persisting into s. teams and users are
// only used to decorate exports; boards never require them to resolve.
func NewRepository(s store.Store, teams TeamLookup, users UserLookup, exporter Exporter, opts ...Option) *StoreRepository {
	r := &StoreRepository{
		boards:   store.NewCollection[Board](s, CollectionName),
		teams:    teams,
		users:    users,
		exporter: exporter,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create validates and stores a new OPEN board without tasks.
func (r *StoreRepository) Create(ctx context.Context, in CreateInput) (*Board, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	teamID := team.ID(strings.TrimSpace(in.TeamID.String()))

	var c validation.Checker
	c.Required("name", name).
		MaxLength("name", name, validation.MaxNameLength).
		MaxLength("description", description, validation.MaxDescriptionLength)
	if err := c.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	boards, err := r.boards.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range boards {
		if boards[i].TeamID == teamID && strings.EqualFold(boards[i].Name, name) {
			return nil, ErrDuplicateBoardName
		}
	}

	b := Board{
		ID:           NewID(),
		Name:         name,
		Description:  description,
		TeamID:       teamID,
		Status:       StatusOpen,
		CreationTime: r.now().UTC(),
		Tasks:        []Task{},
	}
	boards = append(boards, b)

	if err := r.boards.Save(ctx, boards); err != nil {
		return nil, err
	}

	slog.Info("board created", "board_id", b.ID, "team_id", b.TeamID, "name", b.Name)
	return &b, nil
}

// Close moves a board to CLOSED. Every task must be COMPLETE and a closed
// board cannot be closed again.
func (r *StoreRepository) Close(ctx context.Context, id ID) (*Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	boards, b, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusOpen {
		return nil, ErrBoardClosed
	}
	for i := range b.Tasks {
		if b.Tasks[i].Status != TaskComplete {
			return nil, ErrIncompleteTasks
		}
	}

	end := r.now().UTC()
	b.Status = StatusClosed
	b.EndTime = &end

	if err := r.boards.Save(ctx, boards); err != nil {
		return nil, err
	}

	slog.Info("board closed", "board_id", b.ID, "tasks", len(b.Tasks))
	closed := *b
	return &closed, nil
}

// AddTask appends an OPEN task to an OPEN board. The board state is checked
// before the task fields, so a closed board rejects any task.
func (r *StoreRepository) AddTask(ctx context.Context, in AddTaskInput) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	boards, b, err := r.load(ctx, in.BoardID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusOpen {
		return nil, ErrBoardClosed
	}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	var c validation.Checker
	c.Required("title", title).
		MaxLength("title", title, validation.MaxNameLength).
		MaxLength("description", description, validation.MaxDescriptionLength)
	if err := c.Err(); err != nil {
		return nil, err
	}

	for i := range b.Tasks {
		if strings.EqualFold(b.Tasks[i].Title, title) {
			return nil, ErrDuplicateTaskTitle
		}
	}

	task := Task{
		ID:           newTaskID(boards),
		Title:        title,
		Description:  description,
		UserID:       user.ID(strings.TrimSpace(in.UserID.String())),
		Status:       TaskOpen,
		CreationTime: r.now().UTC(),
	}
	b.Tasks = append(b.Tasks, task)

	if err := r.boards.Save(ctx, boards); err != nil {
		return nil, err
	}

	slog.Info("task added", "board_id", b.ID, "task_id", task.ID, "user_id", task.UserID)
	return &task, nil
}

// UpdateTaskStatus sets the status of the task with the given ID, wherever
// it lives. Any transition between the known statuses is allowed.
func (r *StoreRepository) UpdateTaskStatus(ctx context.Context, id TaskID, status TaskStatus) (*Task, error) {
	allowed := make([]string, 0, len(TaskStatuses))
	for _, s := range TaskStatuses {
		allowed = append(allowed, string(s))
	}
	var c validation.Checker
	c.OneOf("status", string(status), allowed...)
	if err := c.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	boards, err := r.boards.Load(ctx)
	if err != nil {
		return nil, err
	}

	for bi := range boards {
		for ti := range boards[bi].Tasks {
			task := &boards[bi].Tasks[ti]
			if task.ID != id {
				continue
			}
			task.Status = status
			if err := r.boards.Save(ctx, boards); err != nil {
				return nil, err
			}
			slog.Info("task status updated", "board_id", boards[bi].ID, "task_id", task.ID, "status", status)
			updated := *task
			return &updated, nil
		}
	}
	return nil, ErrTaskNotFound
}

// List returns id and name of every OPEN board owned by teamID.
func (r *StoreRepository) List(ctx context.Context, teamID team.ID) ([]Summary, error) {
	boards, err := r.boards.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := []Summary{}
	for i := range boards {
		if boards[i].TeamID == teamID && boards[i].Status == StatusOpen {
			out = append(out, Summary{ID: boards[i].ID, Name: boards[i].Name})
		}
	}
	return out, nil
}

// Get returns the board with the given ID, tasks included.
func (r *StoreRepository) Get(ctx context.Context, id ID) (*Board, error) {
	_, b, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// load returns the whole collection and a pointer into it for the board id.
func (r *StoreRepository) load(ctx context.Context, id ID) ([]Board, *Board, error) {
	boards, err := r.boards.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	i, ok := store.Index(boards, func(b *Board) ID { return b.ID })[id]
	if !ok {
		return nil, nil, ErrBoardNotFound
	}
	if boards[i].Tasks == nil {
		boards[i].Tasks = []Task{}
	}
	return boards, &boards[i], nil
}

// newTaskID returns an ID not used by any task in boards.
func newTaskID(boards []Board) TaskID {
	taken := make(map[TaskID]struct{})
	for bi := range boards {
		for ti := range boards[bi].Tasks {
			taken[boards[bi].Tasks[ti].ID] = struct{}{}
		}
	}
	for {
		id := NewTaskID()
		if _, dup := taken[id]; !dup {
			return id
		}
	}
}
