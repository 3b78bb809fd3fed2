package board

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/daap14/taskboard/internal/apperr"
	"github.com/daap14/taskboard/internal/store"
	"github.com/daap14/taskboard/internal/user"
)

// Format selects the rendering of an exported board.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for an export format other than text or yaml.
var ErrUnknownFormat = fmt.Errorf("unknown export format: %w", apperr.ErrValidation)

// ParseFormat maps a user-supplied format name to a Format. An empty name
// selects text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", ErrUnknownFormat
	}
}

func (f Format) extension() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "txt"
}

// Exporter persists a rendered board and returns where it went.
type Exporter interface {
	Write(ctx context.Context, name string, data []byte) (string, error)
}

// DirExporter writes export artifacts into a directory, creating it on demand.
type DirExporter struct {
	dir string
}

// NewDirExporter returns a DirExporter rooted at dir.
func NewDirExporter(dir string) *DirExporter {
	return &DirExporter{dir: dir}
}

// Write atomically replaces dir/name with data.
func (e *DirExporter) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(e.dir, name)
	if err := store.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export %s: %w", name, err)
	}
	return path, nil
}

// Export renders the board and hands it to the exporter as board_<id>.<ext>.
func (r *StoreRepository) Export(ctx context.Context, id ID, format Format) (string, error) {
	if format == "" {
		format = FormatText
	}
	if format != FormatText && format != FormatYAML {
		return "", ErrUnknownFormat
	}
	if r.exporter == nil {
		return "", errors.New("board export is not configured")
	}

	b, err := r.Get(ctx, id)
	if err != nil {
		return "", err
	}

	doc := r.document(ctx, b)

	var data []byte
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("encoding board export: %w", err)
		}
	default:
		data = []byte(renderText(doc))
	}

	path, err := r.exporter.Write(ctx, fmt.Sprintf("board_%s.%s", b.ID, format.extension()), data)
	if err != nil {
		return "", err
	}
	return path, nil
}

type exportDoc struct {
	ID           ID           `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	TeamID       string       `json:"team_id"`
	TeamName     string       `json:"team_name,omitempty"`
	Status       Status       `json:"status"`
	CreationTime time.Time    `json:"creation_time"`
	EndTime      *time.Time   `json:"end_time,omitempty"`
	Tasks        []exportTask `json:"tasks"`
}

type exportTask struct {
	Title        string     `json:"title"`
	Status       TaskStatus `json:"status"`
	Description  string     `json:"description"`
	UserID       string     `json:"user_id"`
	UserName     string     `json:"user_name,omitempty"`
	CreationTime time.Time  `json:"creation_time"`
}

// document builds the export view. Missing teams or users leave their names
// empty instead of failing the export.
func (r *StoreRepository) document(ctx context.Context, b *Board) exportDoc {
	doc := exportDoc{
		ID:           b.ID,
		Name:         b.Name,
		Description:  b.Description,
		TeamID:       b.TeamID.String(),
		Status:       b.Status,
		CreationTime: b.CreationTime,
		EndTime:      b.EndTime,
		Tasks:        make([]exportTask, 0, len(b.Tasks)),
	}
	if r.teams != nil {
		if t, err := r.teams.Get(ctx, b.TeamID); err == nil {
			doc.TeamName = t.Name
		}
	}

	names := map[user.ID]string{}
	if r.users != nil && len(b.Tasks) > 0 {
		ids := make([]user.ID, 0, len(b.Tasks))
		for i := range b.Tasks {
			ids = append(ids, b.Tasks[i].UserID)
		}
		if users, err := r.users.Lookup(ctx, ids...); err == nil {
			for i := range users {
				names[users[i].ID] = users[i].Name
			}
		}
	}

	for i := range b.Tasks {
		t := b.Tasks[i]
		doc.Tasks = append(doc.Tasks, exportTask{
			Title:        t.Title,
			Status:       t.Status,
			Description:  t.Description,
			UserID:       t.UserID.String(),
			UserName:     names[t.UserID],
			CreationTime: t.CreationTime,
		})
	}
	return doc
}

func renderText(doc exportDoc) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Board: %s\n", doc.Name)
	fmt.Fprintf(&sb, "Description: %s\n", doc.Description)
	fmt.Fprintf(&sb, "Team: %s\n", labelled(doc.TeamID, doc.TeamName))
	fmt.Fprintf(&sb, "Status: %s\n", doc.Status)
	fmt.Fprintf(&sb, "Created: %s\n", doc.CreationTime.Format(time.RFC3339))
	if doc.EndTime != nil {
		fmt.Fprintf(&sb, "Closed: %s\n", doc.EndTime.Format(time.RFC3339))
	}

	sb.WriteString("\nTasks:\n")
	if len(doc.Tasks) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, t := range doc.Tasks {
		fmt.Fprintf(&sb, "  - %s [%s]\n", t.Title, t.Status)
		fmt.Fprintf(&sb, "    Description: %s\n", t.Description)
		fmt.Fprintf(&sb, "    Assignee: %s\n", labelled(t.UserID, t.UserName))
		fmt.Fprintf(&sb, "    Created: %s\n", t.CreationTime.Format(time.RFC3339))
	}
	return sb.String()
}

func labelled(id, name string) string {
	if name == "" {
		return id
	}
	return fmt.Sprintf("%s (%s)", name, id)
}
