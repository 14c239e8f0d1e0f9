package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shelfmate/shelfmate/internal/config"
	"github.com/shelfmate/shelfmate/internal/service/books"
	"github.com/shelfmate/shelfmate/internal/service/chat"
	"github.com/shelfmate/shelfmate/internal/store"
	"github.com/shelfmate/shelfmate/pkg/log"
)

// Server is the routing collaborator: it validates request shapes and
// hands typed requests to the services. It owns no domain state.
type Server struct {
	cfg       *config.AppConfig
	books     *books.Service
	sessions  *store.ConversationStore
	builder   *chat.ContextBuilder
	modelName string

	engine *gin.Engine
	srv    *http.Server
}

func NewServer(
	cfg *config.AppConfig,
	booksSvc *books.Service,
	sessions *store.ConversationStore,
	builder *chat.ContextBuilder,
	modelName string,
	debug bool,
) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:       cfg,
		books:     booksSvc,
		sessions:  sessions,
		builder:   builder,
		modelName: modelName,
		engine:    engine,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.HTTPHost, s.cfg.HTTPPort)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.FromCtx(ctx).Info().Str("addr", addr).Msg("starting http server")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
