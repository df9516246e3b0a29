package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-web/internal/session"
	"github.com/oggyb/muzz-web/internal/storage"
)

// AppContext holds shared dependencies (DB, sessions, uploads, logger).
// It is built once in main and handed to every service; nothing reaches for globals.
type AppContext struct {
	DB       *gorm.DB
	Sessions *session.Store
	Uploads  *storage.Uploads
	Logger   *slog.Logger
}

// New creates a new AppContext
func New(db *gorm.DB, sessions *session.Store, uploads *storage.Uploads, logger *slog.Logger) *AppContext {
	return &AppContext{
		DB:       db,
		Sessions: sessions,
		Uploads:  uploads,
		Logger:   logger,
	}
}
