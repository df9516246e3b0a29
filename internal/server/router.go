package server

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oggyb/muzz-web/internal/app"
	"github.com/oggyb/muzz-web/internal/config"
	"github.com/oggyb/muzz-web/internal/service/account"
	"github.com/oggyb/muzz-web/internal/service/explore"
	"github.com/oggyb/muzz-web/internal/service/messaging"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler holds the services behind the HTTP routes.
type Handler struct {
	cfg      *config.Config
	appCtx   *app.AppContext
	accounts *account.Service
	explore  *explore.Service
	messages *messaging.Service
}

func NewHandler(appCtx *app.AppContext, cfg *config.Config) *Handler {
	return &Handler{
		cfg:      cfg,
		appCtx:   appCtx,
		accounts: account.NewAccountService(appCtx),
		explore:  explore.NewExploreService(appCtx),
		messages: messaging.NewMessagingService(appCtx),
	}
}

// NewRouter builds the gin engine with middleware, templates and every route.
func NewRouter(appCtx *app.AppContext, cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	h := NewHandler(appCtx, cfg)

	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxBytes + 1<<20
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
	}))
	r.Use(RequestID())
	r.Use(StructuredLogger(appCtx.Logger))
	r.Use(gin.Recovery())

	r.NoRoute(func(c *gin.Context) { h.fail(c, http.StatusNotFound, nil) })

	r.GET("/healthz", h.Health)
	r.GET("/uploads/:filename", h.ServeUpload)

	pages := r.Group("/")
	pages.Use(h.LoadUser())
	{
		pages.GET("/", h.Index)
		pages.GET("/register", h.RegisterPage)
		pages.POST("/register", h.Register)
		pages.GET("/login", h.LoginPage)
		pages.POST("/login", h.Login)
	}

	protected := pages.Group("/")
	protected.Use(h.RequireUser())
	{
		protected.GET("/logout", h.Logout)

		protected.GET("/profile", h.Profile)
		protected.POST("/profile", h.UpdateProfile)

		protected.GET("/users", h.Users)
		protected.GET("/like/:user_id", h.Like)
		protected.GET("/unlike/:user_id", h.Unlike)
		protected.GET("/matches", h.Matches)

		protected.GET("/messages", h.Messages)
		protected.GET("/messages/:recipient_id", h.Messages)
		protected.POST("/messages/:recipient_id", h.SendMessage)
	}

	return r
}
