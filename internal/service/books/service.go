package books

import (
	"context"

	"github.com/shelfmate/shelfmate/internal/config"
	"github.com/shelfmate/shelfmate/internal/core"
	"github.com/shelfmate/shelfmate/internal/service/chat"
	"github.com/shelfmate/shelfmate/internal/store"
	"github.com/shelfmate/shelfmate/pkg/conv"
	"github.com/shelfmate/shelfmate/pkg/log"
)

// Service orchestrates book lookups and question answering on top of the
// record cache, the conversation store and the model provider.
type Service struct {
	cfg      *config.AppConfig
	model    core.TextModel
	cache    *store.RecordCache
	sessions *store.ConversationStore
	builder  *chat.ContextBuilder
	archive  core.Archive // nil when archiving is disabled
}

func NewService(
	cfg *config.AppConfig,
	model core.TextModel,
	cache *store.RecordCache,
	sessions *store.ConversationStore,
	builder *chat.ContextBuilder,
	archive core.Archive,
) *Service {
	return &Service{
		cfg:      cfg,
		model:    model,
		cache:    cache,
		sessions: sessions,
		builder:  builder,
		archive:  archive,
	}
}

// GetBookInfo resolves a structured record for the named book, from cache
// or via one model call. The returned record may be a not-found record;
// the error is non-nil only for invalid input.
func (s *Service) GetBookInfo(ctx context.Context, bookName string) (core.BookRecord, error) {
	rec, err := s.cache.GetOrCompute(ctx, bookName, func(ctx context.Context) (string, error) {
		return s.model.Generate(ctx, buildBookInfoPrompt(bookName), core.GenerateOptions{
			Temperature: infoTemperature,
			MaxTokens:   infoMaxTokens,
		})
	})
	if err != nil {
		return core.BookRecord{}, err
	}

	s.archiveRecord(ctx, bookName, rec)
	return rec, nil
}

// AnswerQuestion answers a one-shot question about a book, without any
// conversation memory.
func (s *Service) AnswerQuestion(ctx context.Context, bookName, question string) (string, error) {
	return s.AnswerWithContext(ctx, bookName, question, "")
}

// AnswerWithContext answers a question given an already rendered
// transcript. An empty transcript is valid.
func (s *Service) AnswerWithContext(ctx context.Context, bookName, question, transcript string) (string, error) {
	if err := core.ValidateBookName(bookName); err != nil {
		return "", err
	}
	if err := core.ValidateQuestion(question); err != nil {
		return "", err
	}

	var prompt string
	if transcript == "" {
		prompt = buildQAPrompt(bookName, question)
	} else {
		prompt = buildQAPromptWithContext(bookName, question, transcript)
	}

	answer, err := s.model.Generate(ctx, prompt, core.GenerateOptions{
		Temperature: answerTemperature,
		MaxTokens:   answerMaxTokens,
	})
	if err != nil {
		return "", err
	}

	return conv.MarkdownToPlainText(answer), nil
}

// AskInSession answers a question inside a session: the recent transcript
// becomes model context, both the question and the answer are appended to
// the session's log, and the session's book info is refreshed with the
// resolved name. Reports false when the session does not exist.
func (s *Service) AskInSession(ctx context.Context, sessionID, bookName, question string) (string, bool, error) {
	session, ok := s.sessions.GetSession(sessionID)
	if !ok {
		return "", false, nil
	}
	if bookName == "" {
		bookName = session.BookName
	}

	transcript := s.builder.Build(ctx, sessionID, s.cfg.ContextWindowSize)

	answer, err := s.AnswerWithContext(ctx, bookName, question, transcript)
	if err != nil {
		return "", true, err
	}

	// The resolved name sticks to the session; a cached record rides along.
	if rec, cached, _ := s.cache.Get(bookName); cached {
		s.sessions.SetBookInfo(sessionID, bookName, rec)
	} else if bookName != session.BookName {
		s.sessions.UpdateSession(sessionID, core.SessionUpdate{BookName: &bookName})
	}

	if msg, ok := s.sessions.AppendMessage(sessionID, question, core.TypeQuestion, nil); ok {
		s.archiveMessage(ctx, msg)
	}
	if msg, ok := s.sessions.AppendMessage(sessionID, answer, core.TypeAnswer, nil); ok {
		s.archiveMessage(ctx, msg)
	}

	return answer, true, nil
}

// GenerateReport produces a long-form plain text report on a book.
func (s *Service) GenerateReport(ctx context.Context, bookName, author string) (string, error) {
	if err := core.ValidateBookName(bookName); err != nil {
		return "", err
	}

	report, err := s.model.Generate(ctx, buildReportPrompt(bookName, author), core.GenerateOptions{
		Temperature: reportTemperature,
		MaxTokens:   reportMaxTokens,
	})
	if err != nil {
		return "", err
	}
	return conv.MarkdownToPlainText(report), nil
}

func (s *Service) CacheStats() core.CacheStats {
	return s.cache.Stats()
}

func (s *Service) ClearCache() {
	s.cache.Clear()
}

func (s *Service) archiveRecord(ctx context.Context, bookName string, rec core.BookRecord) {
	if s.archive == nil {
		return
	}
	key := core.NormalizeBookKey(bookName)
	if err := s.archive.SaveRecord(ctx, key, rec); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("key", key).Msg("failed to archive record")
	}
}

func (s *Service) archiveMessage(ctx context.Context, msg core.Message) {
	if s.archive == nil {
		return
	}
	if err := s.archive.AppendMessage(ctx, msg); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("session_id", msg.SessionID).Msg("failed to archive message")
	}
}
