// Package testutil wires in-memory sqlite and miniredis for package tests.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/muzz-web/internal/app"
	"github.com/oggyb/muzz-web/internal/cache"
	"github.com/oggyb/muzz-web/internal/config"
	"github.com/oggyb/muzz-web/internal/db"
	"github.com/oggyb/muzz-web/internal/session"
	"github.com/oggyb/muzz-web/internal/storage"
)

// NewDB opens a migrated in-memory sqlite DB private to the calling test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	// one connection keeps the shared in-memory DB alive and avoids table locks
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

// NewCache starts a miniredis and returns a RedisCache pointed at it.
func NewCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.Password = ""
	cfg.Redis.DB = 0

	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

// NewAppContext wires a fresh DB, Redis, upload dir and a silent logger.
func NewAppContext(t *testing.T) (*app.AppContext, *miniredis.Miniredis) {
	t.Helper()

	rc, mr := NewCache(t)
	uploads, err := storage.NewUploads(t.TempDir(), 1<<20)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests
	return app.New(NewDB(t), session.NewStore(rc, time.Hour), uploads, log), mr
}

// CreateUser inserts a user row directly; the password hash is a placeholder.
func CreateUser(t *testing.T, gdb *gorm.DB, username, gender, bio string) db.User {
	t.Helper()
	u := db.User{
		Username:       username,
		PasswordHash:   "x",
		Gender:         gender,
		Bio:            bio,
		ProfilePicture: db.DefaultProfilePicture,
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}
