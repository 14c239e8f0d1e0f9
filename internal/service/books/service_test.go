package books

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shelfmate/shelfmate/internal/config"
	"github.com/shelfmate/shelfmate/internal/core"
	"github.com/shelfmate/shelfmate/internal/service/chat"
	"github.com/shelfmate/shelfmate/internal/store"
)

// fakeModel returns canned responses and records the prompts it saw.
type fakeModel struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeModel) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func newTestService(model core.TextModel) (*Service, *store.ConversationStore) {
	sessions := store.NewConversationStore()
	return NewService(
		&config.AppConfig{ContextWindowSize: 10},
		model,
		store.NewRecordCache(),
		sessions,
		chat.NewContextBuilder(sessions),
		nil,
	), sessions
}

func TestGetBookInfo(t *testing.T) {
	model := &fakeModel{response: `{"title": "Dune", "author": "Frank Herbert", "is_found": true}`}
	svc, _ := newTestService(model)

	rec, err := svc.GetBookInfo(context.Background(), "Dune")
	if err != nil {
		t.Fatalf("GetBookInfo() error = %v", err)
	}
	if rec.Title != "Dune" || rec.Author != "Frank Herbert" || !rec.IsFound {
		t.Errorf("unexpected record %+v", rec)
	}

	// Second lookup served from cache.
	if _, err := svc.GetBookInfo(context.Background(), "dune"); err != nil {
		t.Fatal(err)
	}
	if len(model.prompts) != 1 {
		t.Errorf("model called %d times, want 1", len(model.prompts))
	}
}

func TestGetBookInfoInvalidName(t *testing.T) {
	svc, _ := newTestService(&fakeModel{})

	_, err := svc.GetBookInfo(context.Background(), "A")
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestGetBookInfoUpstreamFailure(t *testing.T) {
	model := &fakeModel{err: errors.New("boom")}
	svc, _ := newTestService(model)

	rec, err := svc.GetBookInfo(context.Background(), "Dune")
	if err != nil {
		t.Fatalf("upstream failure must not propagate, got %v", err)
	}
	if rec.IsFound || rec.NotFoundReason == "" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestAnswerQuestion(t *testing.T) {
	model := &fakeModel{response: "Paul Atreides is the **protagonist**."}
	svc, _ := newTestService(model)

	answer, err := svc.AnswerQuestion(context.Background(), "Dune", "Who is Paul?")
	if err != nil {
		t.Fatalf("AnswerQuestion() error = %v", err)
	}
	if strings.Contains(answer, "**") {
		t.Errorf("answer %q should be plain text", answer)
	}
	if !strings.Contains(answer, "protagonist") {
		t.Errorf("answer %q lost content", answer)
	}

	if len(model.prompts) != 1 || !strings.Contains(model.prompts[0], "Who is Paul?") {
		t.Errorf("prompt did not carry the question: %v", model.prompts)
	}
}

func TestAnswerQuestionValidation(t *testing.T) {
	svc, _ := newTestService(&fakeModel{response: "x"})

	if _, err := svc.AnswerQuestion(context.Background(), "Dune", "   "); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("empty question: error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.AnswerQuestion(context.Background(), "", "Who?"); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("empty book: error = %v, want ErrInvalidInput", err)
	}
}

func TestAskInSession(t *testing.T) {
	model := &fakeModel{response: "He is the protagonist."}
	svc, sessions := newTestService(model)

	session := sessions.CreateSession("chat", "Dune")
	sessions.AppendMessage(session.ID, "Tell me about Dune.", core.TypeQuestion, nil)
	sessions.AppendMessage(session.ID, "Dune is a science fiction novel.", core.TypeAnswer, nil)

	answer, ok, err := svc.AskInSession(context.Background(), session.ID, "", "Who is Paul?")
	if err != nil || !ok {
		t.Fatalf("AskInSession() = %v, %v", ok, err)
	}
	if answer != "He is the protagonist." {
		t.Errorf("answer = %q", answer)
	}

	// Prior transcript went into the prompt.
	prompt := model.prompts[0]
	if !strings.Contains(prompt, "Dune is a science fiction novel.") {
		t.Errorf("prompt missing history: %q", prompt)
	}
	// Book name fell back to the session's book.
	if !strings.Contains(prompt, "Dune") {
		t.Errorf("prompt missing book name: %q", prompt)
	}

	// Exactly one question and one answer appended.
	msgs := sessions.GetMessages(session.ID, 0, 0)
	if len(msgs) != 4 {
		t.Fatalf("message count = %d, want 4", len(msgs))
	}
	if msgs[2].Type != core.TypeQuestion || msgs[2].Content != "Who is Paul?" {
		t.Errorf("unexpected question message %+v", msgs[2])
	}
	if msgs[3].Type != core.TypeAnswer || msgs[3].Content != "He is the protagonist." {
		t.Errorf("unexpected answer message %+v", msgs[3])
	}
}

func TestAskInSessionRefreshesBookName(t *testing.T) {
	model := &fakeModel{response: "Paul is the protagonist."}
	svc, sessions := newTestService(model)

	session := sessions.CreateSession("chat", "")
	if _, ok, err := svc.AskInSession(context.Background(), session.ID, "Dune", "Who is Paul?"); err != nil || !ok {
		t.Fatalf("AskInSession() = %v, %v", ok, err)
	}

	got, _ := sessions.GetSession(session.ID)
	if got.BookName != "Dune" {
		t.Errorf("session book name = %q, want %q", got.BookName, "Dune")
	}
	// No cached record yet, so no record snapshot either.
	if got.BookInfo != nil {
		t.Errorf("book info = %+v, want nil", got.BookInfo)
	}
}

func TestAskInSessionAttachesCachedRecord(t *testing.T) {
	model := &fakeModel{response: `{"title": "Dune", "author": "Frank Herbert", "is_found": true}`}
	svc, sessions := newTestService(model)

	if _, err := svc.GetBookInfo(context.Background(), "Dune"); err != nil {
		t.Fatal(err)
	}

	session := sessions.CreateSession("chat", "Dune")
	if _, ok, err := svc.AskInSession(context.Background(), session.ID, "", "Who is Paul?"); err != nil || !ok {
		t.Fatalf("AskInSession() = %v, %v", ok, err)
	}

	got, _ := sessions.GetSession(session.ID)
	if got.BookInfo == nil || got.BookInfo.Title != "Dune" || got.BookInfo.Author != "Frank Herbert" {
		t.Errorf("book info = %+v, want the cached record", got.BookInfo)
	}
}

func TestAskInSessionMissingSession(t *testing.T) {
	svc, _ := newTestService(&fakeModel{response: "x"})

	_, ok, err := svc.AskInSession(context.Background(), "missing", "Dune", "Who?")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if ok {
		t.Error("missing session should report absent, not answer")
	}
}

func TestAskInSessionFailureAppendsNothing(t *testing.T) {
	model := &fakeModel{err: errors.New("model down")}
	svc, sessions := newTestService(model)

	session := sessions.CreateSession("chat", "Dune")

	_, ok, err := svc.AskInSession(context.Background(), session.ID, "", "Who?")
	if !ok || err == nil {
		t.Fatalf("AskInSession() = %v, %v", ok, err)
	}
	if msgs := sessions.GetMessages(session.ID, 0, 0); len(msgs) != 0 {
		t.Errorf("failed ask appended %d messages, want 0", len(msgs))
	}
}

func TestGenerateReport(t *testing.T) {
	model := &fakeModel{response: "# Report\nA classic."}
	svc, _ := newTestService(model)

	report, err := svc.GenerateReport(context.Background(), "Dune", "Frank Herbert")
	if err != nil {
		t.Fatalf("GenerateReport() error = %v", err)
	}
	if strings.Contains(report, "#") {
		t.Errorf("report %q should be plain text", report)
	}
	if !strings.Contains(model.prompts[0], "Frank Herbert") {
		t.Errorf("prompt missing author: %q", model.prompts[0])
	}
}
