package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shelfmate/shelfmate/internal/core"
	"github.com/shelfmate/shelfmate/pkg/log"
)

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")
	{
		api.POST("/book/info", s.handleBookInfo)
		api.POST("/book/qa", s.handleBookQA)
		api.POST("/book/report", s.handleBookReport)
		api.POST("/chat/ask", s.handleChatAsk)

		api.GET("/cache/stats", s.handleCacheStats)
		api.POST("/cache/clear", s.handleCacheClear)
		api.GET("/stats", s.handleStats)

		api.POST("/sessions", s.handleSessionCreate)
		api.GET("/sessions", s.handleSessionList)
		api.GET("/sessions/:id", s.handleSessionGet)
		api.PATCH("/sessions/:id", s.handleSessionUpdate)
		api.DELETE("/sessions/:id", s.handleSessionDelete)
		api.GET("/sessions/:id/messages", s.handleSessionMessages)
		api.GET("/sessions/:id/context", s.handleSessionContext)
		api.POST("/sessions/:id/ask", s.handleSessionAsk)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(gin.H{
		"status":  "healthy",
		"service": core.AppName,
		"model":   s.modelName,
	}, "Service is running normally"))
}

func (s *Server) handleBookInfo(c *gin.Context) {
	var req BookInfoRequest
	if !bindJSON(c, &req) {
		return
	}

	rec, err := s.books.GetBookInfo(c.Request.Context(), req.BookName)
	if err != nil {
		respondError(c, err, "Unable to retrieve book information")
		return
	}
	c.JSON(http.StatusOK, successResponse(rec, "Book information retrieved successfully"))
}

func (s *Server) handleBookQA(c *gin.Context) {
	var req QARequest
	if !bindJSON(c, &req) {
		return
	}

	answer, err := s.books.AnswerQuestion(c.Request.Context(), req.BookName, req.Question)
	if err != nil {
		respondError(c, err, "Failed to answer question")
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"answer": answer}, "Question answered successfully"))
}

func (s *Server) handleBookReport(c *gin.Context) {
	var req ReportRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := s.books.GenerateReport(c.Request.Context(), req.BookName, req.Author)
	if err != nil {
		respondError(c, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"report": report}, "Report generated successfully"))
}

// handleChatAsk answers with a caller-supplied history, no session state.
func (s *Server) handleChatAsk(c *gin.Context) {
	var req ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	lines := make([]string, 0, len(req.Messages))
	for _, turn := range req.Messages {
		switch turn.Role {
		case "user":
			lines = append(lines, "User: "+turn.Content)
		case "assistant":
			lines = append(lines, "Assistant: "+turn.Content)
		}
	}

	answer, err := s.books.AnswerWithContext(c.Request.Context(), req.BookName, req.Question, strings.Join(lines, "\n"))
	if err != nil {
		respondError(c, err, "Failed to answer question")
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"answer": answer}, "Question answered successfully"))
}

func (s *Server) handleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(s.books.CacheStats(), "Cache statistics retrieved successfully"))
}

func (s *Server) handleCacheClear(c *gin.Context) {
	s.books.ClearCache()
	log.FromCtx(c.Request.Context()).Info().Msg("record cache cleared")
	c.JSON(http.StatusOK, successResponse(nil, "Cache cleared successfully"))
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(s.sessions.Stats(), "Session statistics retrieved successfully"))
}

func (s *Server) handleSessionCreate(c *gin.Context) {
	var req SessionCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	session := s.sessions.CreateSession(req.Title, req.BookName)
	c.JSON(http.StatusCreated, successResponse(session, "Session created successfully"))
}

func (s *Server) handleSessionList(c *gin.Context) {
	var list []core.Session
	if c.Query("active") == "true" {
		list = s.sessions.ListActiveSessions()
	} else {
		list = s.sessions.ListSessions()
	}
	c.JSON(http.StatusOK, successResponse(SessionListResponse{Sessions: list, Total: len(list)}, "Sessions retrieved successfully"))
}

func (s *Server) handleSessionGet(c *gin.Context) {
	session, ok := s.sessions.GetSession(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse("Session not found", "No session with that id"))
		return
	}
	c.JSON(http.StatusOK, successResponse(session, "Session retrieved successfully"))
}

func (s *Server) handleSessionUpdate(c *gin.Context) {
	var req SessionUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	session, ok := s.sessions.UpdateSession(c.Param("id"), core.SessionUpdate{
		Title:    req.Title,
		BookName: req.BookName,
		BookInfo: req.BookInfo,
		IsActive: req.IsActive,
	})
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse("Session not found", "No session with that id"))
		return
	}
	c.JSON(http.StatusOK, successResponse(session, "Session updated successfully"))
}

func (s *Server) handleSessionDelete(c *gin.Context) {
	if !s.sessions.DeleteSession(c.Param("id")) {
		c.JSON(http.StatusNotFound, errorResponse("Session not found", "No session with that id"))
		return
	}
	c.JSON(http.StatusOK, successResponse(nil, "Session deleted successfully"))
}

func (s *Server) handleSessionMessages(c *gin.Context) {
	id := c.Param("id")
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)

	msgs := s.sessions.GetMessages(id, limit, offset)
	c.JSON(http.StatusOK, successResponse(MessageHistoryResponse{
		Messages:  msgs,
		Total:     len(msgs),
		SessionID: id,
	}, "Messages retrieved successfully"))
}

func (s *Server) handleSessionContext(c *gin.Context) {
	maxMessages := intQuery(c, "max", s.cfg.ContextWindowSize)
	transcript := s.builder.Build(c.Request.Context(), c.Param("id"), maxMessages)
	c.JSON(http.StatusOK, successResponse(gin.H{"context": transcript}, "Context built successfully"))
}

func (s *Server) handleSessionAsk(c *gin.Context) {
	var req SessionAskRequest
	if !bindJSON(c, &req) {
		return
	}

	answer, ok, err := s.books.AskInSession(c.Request.Context(), c.Param("id"), req.BookName, req.Question)
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse("Session not found", "No session with that id"))
		return
	}
	if err != nil {
		respondError(c, err, "Failed to answer question")
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"answer": answer}, "Question answered successfully"))
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error(), "Invalid request body"))
		return false
	}
	return true
}

// respondError maps domain errors onto the envelope. Validation failures
// are the caller's fault; everything else is reported as internal.
func respondError(c *gin.Context, err error, message string) {
	if errors.Is(err, core.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error(), "Invalid input"))
		return
	}
	log.FromCtx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, errorResponse("Internal server error", message))
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
