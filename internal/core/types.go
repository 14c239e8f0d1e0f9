package core

import "time"

const (
	AppName    = "Shelfmate"
	AppVersion = "0.1.0"
	UserAgent  = "Shelfmate-Backend/0.1"
)

// BookRecord is the normalized result of parsing raw model output.
// All numeric-looking fields are kept as text because the upstream model
// returns them inconsistently (ints, floats, strings).
type BookRecord struct {
	Title          string `json:"title"`
	Author         string `json:"author,omitempty"`
	Publisher      string `json:"publisher,omitempty"`
	Year           string `json:"year,omitempty"`
	ISBN           string `json:"isbn,omitempty"`
	Description    string `json:"description,omitempty"`
	Summary        string `json:"summary,omitempty"`
	Genre          string `json:"genre,omitempty"`
	Pages          string `json:"pages,omitempty"`
	Language       string `json:"language,omitempty"`
	Rating         string `json:"rating,omitempty"`
	Awards         string `json:"awards,omitempty"`
	IsFound        bool   `json:"is_found"`
	NotFoundReason string `json:"not_found_reason,omitempty"`
}

type MessageType string

const (
	TypeQuestion MessageType = "question"
	TypeAnswer   MessageType = "answer"
	TypeBookInfo MessageType = "book_info"
)

type Message struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Content   string         `json:"content"`
	Type      MessageType    `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type Session struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	BookName     string      `json:"book_name,omitempty"`
	BookInfo     *BookRecord `json:"book_info,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	MessageCount int         `json:"message_count"`
	IsActive     bool        `json:"is_active"`
}

// SessionUpdate carries a partial session update. Nil fields are left
// untouched.
type SessionUpdate struct {
	Title    *string     `json:"title,omitempty"`
	BookName *string     `json:"book_name,omitempty"`
	BookInfo *BookRecord `json:"book_info,omitempty"`
	IsActive *bool       `json:"is_active,omitempty"`
}

type CacheStats struct {
	Count int      `json:"total_cached_books"`
	Keys  []string `json:"cache_keys"`
}

type StoreStats struct {
	TotalSessions   int            `json:"total_sessions"`
	ActiveSessions  int            `json:"active_sessions"`
	TotalMessages   int            `json:"total_messages"`
	SessionsPerBook map[string]int `json:"sessions_per_book"`
}
