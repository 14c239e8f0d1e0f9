package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shelfmate/shelfmate/internal/core"
)

// ConversationStore owns all sessions and their message logs. A single
// RWMutex guards the whole store; per-session locking was not worth the
// complexity at the expected session counts. Sessions and messages handed
// out are copies, callers cannot mutate store state through them.
type ConversationStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
	messages map[string][]core.Message
	order    []string // session IDs in creation order
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		sessions: make(map[string]*core.Session),
		messages: make(map[string][]core.Message),
	}
}

func (s *ConversationStore) CreateSession(title, bookName string) core.Session {
	now := time.Now()
	session := &core.Session{
		ID:        uuid.NewString(),
		Title:     title,
		BookName:  bookName,
		CreatedAt: now,
		UpdatedAt: now,
		IsActive:  true,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.messages[session.ID] = nil
	s.order = append(s.order, session.ID)
	s.mu.Unlock()

	return *session
}

func (s *ConversationStore) GetSession(id string) (core.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return core.Session{}, false
	}
	return snapshot(session), true
}

// snapshot deep-copies a session so the BookInfo pointer never escapes.
func snapshot(session *core.Session) core.Session {
	out := *session
	if session.BookInfo != nil {
		info := *session.BookInfo
		out.BookInfo = &info
	}
	return out
}

// ListSessions returns every session in creation order.
func (s *ConversationStore) ListSessions() []core.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, snapshot(s.sessions[id]))
	}
	return out
}

func (s *ConversationStore) ListActiveSessions() []core.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Session
	for _, id := range s.order {
		if s.sessions[id].IsActive {
			out = append(out, snapshot(s.sessions[id]))
		}
	}
	return out
}

// UpdateSession applies the non-nil fields of upd and refreshes the
// update timestamp. Missing sessions are not created implicitly.
func (s *ConversationStore) UpdateSession(id string, upd core.SessionUpdate) (core.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return core.Session{}, false
	}

	if upd.Title != nil {
		session.Title = *upd.Title
	}
	if upd.BookName != nil {
		session.BookName = *upd.BookName
	}
	if upd.BookInfo != nil {
		info := *upd.BookInfo
		session.BookInfo = &info
	}
	if upd.IsActive != nil {
		session.IsActive = *upd.IsActive
	}
	session.UpdatedAt = time.Now()

	return snapshot(session), true
}

// DeleteSession removes the session and its entire message log. Reports
// whether a session existed.
func (s *ConversationStore) DeleteSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	delete(s.messages, id)
	for i, sid := range s.order {
		if sid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// AppendMessage is the only mutator of a session's message log.
func (s *ConversationStore) AppendMessage(sessionID, content string, msgType core.MessageType, metadata map[string]any) (core.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return core.Message{}, false
	}

	msg := core.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Content:   content,
		Type:      msgType,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}

	s.messages[sessionID] = append(s.messages[sessionID], msg)
	session.MessageCount++
	session.UpdatedAt = msg.Timestamp

	return msg, true
}

// GetMessages returns the session's messages sorted by timestamp
// ascending, sliced by offset first and limit second. Non-positive
// offset/limit mean "from the start" and "no cap". A missing session
// yields an empty slice, absence is not an error here.
func (s *ConversationStore) GetMessages(sessionID string, limit, offset int) []core.Message {
	s.mu.RLock()
	msgs := make([]core.Message, len(s.messages[sessionID]))
	copy(msgs, s.messages[sessionID])
	s.mu.RUnlock()

	// Appends are serialized, so this is normally already sorted; keep the
	// sort anyway so the contract does not depend on insertion behavior.
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})

	if offset > 0 {
		if offset >= len(msgs) {
			return nil
		}
		msgs = msgs[offset:]
	}
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[:limit]
	}
	return msgs
}

// SetBookInfo snapshots the resolved book record onto the session. No-op
// if the session does not exist.
func (s *ConversationStore) SetBookInfo(sessionID, bookName string, rec core.BookRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	session.BookName = bookName
	session.BookInfo = &rec
	session.UpdatedAt = time.Now()
}

func (s *ConversationStore) Stats() core.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := core.StoreStats{
		TotalSessions:   len(s.sessions),
		SessionsPerBook: make(map[string]int),
	}
	for _, session := range s.sessions {
		if session.IsActive {
			stats.ActiveSessions++
		}
		if session.BookName != "" {
			stats.SessionsPerBook[session.BookName]++
		}
	}
	for _, msgs := range s.messages {
		stats.TotalMessages += len(msgs)
	}
	return stats
}

// ClearAll wipes every session and message. Intended for tests and
// explicit resets.
func (s *ConversationStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]*core.Session)
	s.messages = make(map[string][]core.Message)
	s.order = nil
}
