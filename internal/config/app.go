package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/shelfmate/shelfmate/pkg/log"
)

type AppConfig struct {
	HTTPHost string `env:"SHELFMATE_HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort int    `env:"SHELFMATE_HTTP_PORT" envDefault:"8000"`

	// Context Management
	ContextWindowSize int `env:"CONTEXT_WINDOW_SIZE" envDefault:"10"`

	// CacheTTL is read for deployment compatibility but the record cache
	// performs no expiry; entries live until an explicit clear.
	CacheTTL int `env:"CACHE_TTL" envDefault:"3600"`

	// Optional write-only archive of records and messages.
	ArchiveEnabled bool   `env:"ARCHIVE_ENABLED" envDefault:"false"`
	ArchivePath    string `env:"ARCHIVE_PATH"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}
