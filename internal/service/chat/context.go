package chat

import (
	"context"
	"strings"

	"github.com/shelfmate/shelfmate/internal/core"
	"github.com/shelfmate/shelfmate/internal/store"
	"github.com/shelfmate/shelfmate/pkg/log"
)

const DefaultContextMessages = 10

// Role labels rendered into the transcript fed back to the model.
const (
	labelUser      = "User"
	labelAssistant = "Assistant"
	labelBookInfo  = "Book info"
)

// ContextBuilder projects a session's message log into a bounded textual
// transcript. It performs no mutation and no caching.
type ContextBuilder struct {
	store *store.ConversationStore
}

func NewContextBuilder(store *store.ConversationStore) *ContextBuilder {
	return &ContextBuilder{store: store}
}

// Build renders up to maxMessages most-recent messages, oldest of that
// window first, one line per message. A missing or empty session yields an
// empty string; an empty context is always a legal model input.
func (b *ContextBuilder) Build(ctx context.Context, sessionID string, maxMessages int) string {
	if maxMessages <= 0 {
		maxMessages = DefaultContextMessages
	}

	msgs := b.store.GetMessages(sessionID, 0, 0)
	if len(msgs) == 0 {
		return ""
	}
	if len(msgs) > maxMessages {
		msgs = msgs[len(msgs)-maxMessages:]
	}

	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		lines = append(lines, roleLabel(msg.Type)+": "+msg.Content)
	}

	transcript := strings.Join(lines, "\n")
	log.FromCtx(ctx).Debug().
		Str("session_id", sessionID).
		Int("messages", len(msgs)).
		Int("tokens", EstimateTokens(transcript)).
		Msg("built conversation context")
	return transcript
}

func roleLabel(t core.MessageType) string {
	switch t {
	case core.TypeQuestion:
		return labelUser
	case core.TypeAnswer:
		return labelAssistant
	case core.TypeBookInfo:
		return labelBookInfo
	default:
		return labelUser
	}
}
