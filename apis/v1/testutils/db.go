package testutils

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sumittt2004/agentforge/llm"
	"github.com/sumittt2004/agentforge/orm"
	"gorm.io/gorm"
)

// SetupTestDB opens a migrated in-memory SQLite database private to the test
func SetupTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := orm.Open(orm.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SeedConversation appends n alternating user/assistant turns to a session
func SeedConversation(t testing.TB, store *orm.ConversationStore, sessionID string, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		_, err := store.Append(context.Background(), sessionID, role, fmt.Sprintf("message %d", i+1), orm.AppendOptions{})
		require.NoError(t, err)
	}
}
