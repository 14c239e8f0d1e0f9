package http

import "github.com/shelfmate/shelfmate/internal/core"

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

func successResponse(data any, message string) APIResponse {
	return APIResponse{Success: true, Data: data, Message: message}
}

func errorResponse(err, message string) APIResponse {
	return APIResponse{Success: false, Error: err, Message: message}
}

type BookInfoRequest struct {
	BookName string `json:"book_name" binding:"required"`
}

type QARequest struct {
	BookName string `json:"book_name" binding:"required"`
	Question string `json:"question" binding:"required"`
}

type ReportRequest struct {
	BookName string `json:"book_name" binding:"required"`
	Author   string `json:"author"`
}

// ChatTurn is one entry of a caller-provided stateless history.
type ChatTurn struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type ChatRequest struct {
	BookName string     `json:"book_name" binding:"required"`
	Messages []ChatTurn `json:"messages"`
	Question string     `json:"question" binding:"required"`
}

type SessionCreateRequest struct {
	Title    string `json:"title" binding:"required"`
	BookName string `json:"book_name"`
}

type SessionUpdateRequest struct {
	Title    *string          `json:"title"`
	BookName *string          `json:"book_name"`
	BookInfo *core.BookRecord `json:"book_info"`
	IsActive *bool            `json:"is_active"`
}

type SessionAskRequest struct {
	Question string `json:"question" binding:"required"`
	BookName string `json:"book_name"`
}

type SessionListResponse struct {
	Sessions []core.Session `json:"sessions"`
	Total    int            `json:"total"`
}

type MessageHistoryResponse struct {
	Messages  []core.Message `json:"messages"`
	Total     int            `json:"total"`
	SessionID string         `json:"session_id"`
}
