package orm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sumittt2004/agentforge/llm"
	"github.com/sumittt2004/agentforge/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSessionNotFound is returned when a session has never received a message
var ErrSessionNotFound = errors.New("session not found")

// Session summarizes one conversation
type Session struct {
	SessionID    string                 `gorm:"primaryKey;column:session_id" json:"session_id"`
	CreatedAt    time.Time              `json:"created_at"`
	LastActive   time.Time              `json:"last_active"`
	MessageCount int                    `gorm:"default:0" json:"message_count"`
	TotalTokens  int                    `gorm:"default:0" json:"total_tokens"`
	Metadata     map[string]interface{} `gorm:"serializer:json" json:"metadata"`
}

func (Session) TableName() string { return "sessions" }

// ToolCallDescriptor records a tool the assistant invoked while answering
type ToolCallDescriptor struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// Turn is one immutable conversation entry
type Turn struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	SessionID   string               `gorm:"index:idx_session_id;not null" json:"session_id"`
	Role        string               `gorm:"not null" json:"role"`
	Content     string               `gorm:"not null" json:"content"`
	ToolCalls   []ToolCallDescriptor `gorm:"serializer:json" json:"tool_calls,omitempty"`
	ToolResults []string             `gorm:"serializer:json" json:"tool_results,omitempty"`
	Timestamp   time.Time            `gorm:"index:idx_timestamp" json:"timestamp"`
	TokensUsed  int                  `gorm:"default:0" json:"tokens_used"`
}

func (Turn) TableName() string { return "conversations" }

// AppendOptions carries the optional fields of a turn
type AppendOptions struct {
	ToolCalls   []ToolCallDescriptor
	ToolResults []string
	Tokens      int
}

// ConversationStore persists turns and session counters. Every method is a
// short independent transaction, so concurrent sessions never share state.
type ConversationStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewConversationStore(db *gorm.DB) *ConversationStore {
	return &ConversationStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Append writes a turn and creates or bumps its session in one transaction.
func (s *ConversationStore) Append(ctx context.Context, sessionID, role, content string, opts AppendOptions) (uint, error) {
	if sessionID == "" {
		return 0, errors.New("session id is required")
	}

	now := s.now()
	turn := Turn{
		SessionID:  sessionID,
		Role:       role,
		Content:    content,
		Timestamp:  now,
		TokensUsed: opts.Tokens,
	}
	if len(opts.ToolCalls) > 0 {
		turn.ToolCalls = opts.ToolCalls
	}
	if len(opts.ToolResults) > 0 {
		turn.ToolResults = opts.ToolResults
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&turn).Error; err != nil {
			return fmt.Errorf("failed to insert turn: %w", err)
		}

		session := Session{
			SessionID:    sessionID,
			CreatedAt:    now,
			LastActive:   now,
			MessageCount: 1,
			TotalTokens:  opts.Tokens,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_active":   now,
				"message_count": gorm.Expr("sessions.message_count + 1"),
				"total_tokens":  gorm.Expr("sessions.total_tokens + ?", opts.Tokens),
			}),
		}).Create(&session).Error
		if err != nil {
			return fmt.Errorf("failed to upsert session: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Debugf(ctx, "Appended %s turn %d to session %s", role, turn.ID, sessionID)
	return turn.ID, nil
}

// Recent returns the newest limit turns of a session, oldest first.
// System turns are left out unless includeSystem is set.
func (s *ConversationStore) Recent(ctx context.Context, sessionID string, limit int, includeSystem bool) ([]Turn, error) {
	turns := make([]Turn, 0)
	if limit <= 0 {
		return turns, nil
	}

	q := s.db.WithContext(ctx).Where("session_id = ?", sessionID)
	if !includeSystem {
		q = q.Where("role <> ?", llm.RoleSystem)
	}
	if err := q.Order("id DESC").Limit(limit).Find(&turns).Error; err != nil {
		return nil, fmt.Errorf("failed to load history for %s: %w", sessionID, err)
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// RenderForModel projects the recent window to role/content messages,
// prefixed by the system prompt when one is given. Stored tool call
// descriptors and results are not replayed.
func (s *ConversationStore) RenderForModel(ctx context.Context, sessionID string, limit int, systemPrompt string) ([]llm.Message, error) {
	turns, err := s.Recent(ctx, sessionID, limit, false)
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(turns)+1)
	if systemPrompt != "" {
		messages = append(messages, llm.SystemMessage(systemPrompt))
	}
	for _, t := range turns {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}
	return messages, nil
}

// SessionInfo returns the session summary, or nil when the session is unknown.
func (s *ConversationStore) SessionInfo(ctx context.Context, sessionID string) (*Session, error) {
	var session Session
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if session.Metadata == nil {
		session.Metadata = map[string]interface{}{}
	}
	return &session, nil
}

// Clear deletes every turn and the session row. Failures are logged and
// reported as false.
func (s *ConversationStore) Clear(ctx context.Context, sessionID string) bool {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&Turn{}).Error; err != nil {
			return err
		}
		return tx.Where("session_id = ?", sessionID).Delete(&Session{}).Error
	})
	if err != nil {
		log.Errorf(ctx, "Failed to clear session %s: %v", sessionID, err)
		return false
	}
	log.Infof(ctx, "Cleared session %s", sessionID)
	return true
}

// SetMetadata merges values into the session's metadata.
func (s *ConversationStore) SetMetadata(ctx context.Context, sessionID string, values map[string]interface{}) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session Session
		err := tx.Where("session_id = ?", sessionID).First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%s: %w", sessionID, ErrSessionNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to load session %s: %w", sessionID, err)
		}

		merged := make(map[string]interface{}, len(session.Metadata)+len(values))
		for k, v := range session.Metadata {
			merged[k] = v
		}
		for k, v := range values {
			merged[k] = v
		}

		session.Metadata = merged
		if err := tx.Model(&session).Select("metadata").Updates(&session).Error; err != nil {
			return fmt.Errorf("failed to update metadata for %s: %w", sessionID, err)
		}
		return nil
	})
}

// ListSessions returns sessions ordered by most recent activity.
func (s *ConversationStore) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	sessions := make([]Session, 0)
	q := s.db.WithContext(ctx).Order("last_active DESC").Order("session_id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}
