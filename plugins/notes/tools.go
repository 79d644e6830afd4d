// Package notes exposes the note-taking tools backed by the notes table.
package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sumittt2004/agentforge/log"
	"github.com/sumittt2004/agentforge/orm"
	"github.com/sumittt2004/agentforge/tools"
	"gorm.io/gorm"
)

const defaultLimit = 10

// Client owns the database handle shared by the notes tools
type Client struct {
	db *gorm.DB
}

// NewClient creates the notes client and registers save_note and get_notes
func NewClient(db *gorm.DB, registry *tools.Registry) *Client {
	c := &Client{db: db}
	if registry != nil {
		NewSaveNoteTool(c, registry)
		NewGetNotesTool(c, registry)
	}
	return c
}

// --- Save Note Tool ---

type SaveNoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
}

type SaveNoteTool struct {
	client *Client
}

func NewSaveNoteTool(client *Client, registry *tools.Registry) *SaveNoteTool {
	t := &SaveNoteTool{client: client}
	if registry != nil {
		registry.Register(t)
	}
	return t
}

func (t *SaveNoteTool) Name() string {
	return "save_note"
}

func (t *SaveNoteTool) Description() string {
	return "Save a note, task, or reminder to the database for later retrieval. Perfect for to-do lists, important information, or things to remember."
}

func (t *SaveNoteTool) Parameters() []tools.Parameter {
	return []tools.Parameter{
		{Name: "title", Type: tools.TypeString, Description: "Brief title for the note (e.g., 'Shopping List', 'Meeting Notes')", Required: true},
		{Name: "content", Type: tools.TypeString, Description: "The full content of the note", Required: true},
		{Name: "tags", Type: tools.TypeString, Description: "Optional comma-separated tags (e.g., 'work,urgent')"},
	}
}

func (t *SaveNoteTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	var input SaveNoteInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", err
	}
	if t.client == nil || t.client.db == nil {
		return "", errors.New("notes storage not initialized")
	}

	log.Debugf(ctx, "SaveNoteTool saving note %q", input.Title)
	note := &orm.Note{
		Title:   input.Title,
		Content: input.Content,
		Tags:    strings.TrimSpace(input.Tags),
	}
	if err := orm.CreateNote(ctx, t.client.db, note); err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"✅ **Note Saved Successfully!**\n\n"+
			"📝 Title: %s\n"+
			"🆔 Note ID: %d\n"+
			"📌 Tags: %s",
		note.Title, note.ID, tagsOrNone(note.Tags),
	), nil
}

func (t *SaveNoteTool) FormatError(args map[string]interface{}, err error) string {
	return fmt.Sprintf("❌ Error saving note: %v", err)
}

// --- Get Notes Tool ---

type GetNotesTool struct {
	client *Client
}

func NewGetNotesTool(client *Client, registry *tools.Registry) *GetNotesTool {
	t := &GetNotesTool{client: client}
	if registry != nil {
		registry.Register(t)
	}
	return t
}

func (t *GetNotesTool) Name() string {
	return "get_notes"
}

func (t *GetNotesTool) Description() string {
	return "Retrieve saved notes from the database. Can search by keyword or retrieve all notes."
}

func (t *GetNotesTool) Parameters() []tools.Parameter {
	return []tools.Parameter{
		{Name: "search_term", Type: tools.TypeString, Description: "Optional search term to filter notes by title, content, or tags"},
		{Name: "limit", Type: tools.TypeInteger, Description: "Maximum number of notes to return (default: 10)", Default: defaultLimit},
	}
}

func (t *GetNotesTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	if t.client == nil || t.client.db == nil {
		return "", errors.New("notes storage not initialized")
	}
	term, _ := tools.String(args, "search_term")
	term = strings.TrimSpace(term)
	limit := tools.Int(args, "limit", defaultLimit)

	log.Debugf(ctx, "GetNotesTool searching term=%q limit=%d", term, limit)
	notes, err := orm.SearchNotes(ctx, t.client.db, term, limit)
	if err != nil {
		return "", err
	}

	if len(notes) == 0 {
		msg := "📝 No notes found."
		if term != "" {
			msg += fmt.Sprintf(" Search term: '%s'", term)
		}
		return msg, nil
	}

	parts := make([]string, 0, len(notes)+1)
	parts = append(parts, fmt.Sprintf("📚 **Found %d note(s):**\n", len(notes)))
	for _, n := range notes {
		parts = append(parts, fmt.Sprintf(
			"\n📝 **%s** (ID: %d)\n   %s\n   📌 Tags: %s\n   🕒 Created: %s",
			n.Title, n.ID, n.Content, tagsOrNone(n.Tags), n.CreatedAt.Format("2006-01-02 15:04:05"),
		))
	}
	return strings.Join(parts, "\n"), nil
}

func (t *GetNotesTool) FormatError(args map[string]interface{}, err error) string {
	return fmt.Sprintf("❌ Error retrieving notes: %v", err)
}

func tagsOrNone(tags string) string {
	if tags == "" {
		return "None"
	}
	return tags
}
