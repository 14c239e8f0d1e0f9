package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shelfmate/shelfmate/internal/core"
)

// Archive is a write-only audit trail of resolved records and session
// messages. One row per normalized book name, one append-only message
// stream per session. Nothing in the serving path ever reads it back.
type Archive struct {
	db *sql.DB
}

func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db}
}

func (a *Archive) SaveRecord(ctx context.Context, key string, rec core.BookRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	query := `INSERT INTO records (name_key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name_key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`
	if _, err := a.db.ExecContext(ctx, query, key, string(payload)); err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

func (a *Archive) AppendMessage(ctx context.Context, msg core.Message) error {
	metadata := ""
	if len(msg.Metadata) > 0 {
		data, err := json.Marshal(msg.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadata = string(data)
	}

	query := `INSERT INTO messages (message_id, session_id, type, content, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := a.db.ExecContext(ctx, query, msg.ID, msg.SessionID, string(msg.Type), msg.Content, metadata, msg.Timestamp); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}
