package orm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNote(t *testing.T) {
	ctx := context.Background()
	db := SetupTestDB(t)

	note := &Note{Title: "Shopping List", Content: "milk, eggs", Tags: "home"}
	require.NoError(t, CreateNote(ctx, db, note))
	assert.NotZero(t, note.ID)
	assert.False(t, note.CreatedAt.IsZero())

	var got Note
	require.NoError(t, db.First(&got, note.ID).Error)
	assert.Equal(t, "Shopping List", got.Title)
	assert.Equal(t, "home", got.Tags)

	assert.Error(t, CreateNote(ctx, db, &Note{Title: "  ", Content: "x"}))
}

func TestSearchNotes(t *testing.T) {
	ctx := context.Background()
	db := SetupTestDB(t)

	for _, n := range []*Note{
		{Title: "Meeting Notes", Content: "discuss roadmap", Tags: "work"},
		{Title: "Groceries", Content: "Buy MILK", Tags: "home"},
		{Title: "Standup", Content: "blockers", Tags: "work,urgent"},
	} {
		require.NoError(t, CreateNote(ctx, db, n))
	}

	all, err := SearchNotes(ctx, db, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Standup", all[0].Title)

	work, err := SearchNotes(ctx, db, "WORK", 10)
	require.NoError(t, err)
	assert.Len(t, work, 2)

	milk, err := SearchNotes(ctx, db, "milk", 10)
	require.NoError(t, err)
	require.Len(t, milk, 1)
	assert.Equal(t, "Groceries", milk[0].Title)

	limited, err := SearchNotes(ctx, db, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := SearchNotes(ctx, db, "nothing-matches", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
