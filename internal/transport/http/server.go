package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/shinehub-server/internal/auth"
	"github.com/vovakirdan/shinehub-server/internal/config"
	"github.com/vovakirdan/shinehub-server/internal/core"
	"github.com/vovakirdan/shinehub-server/internal/service/moderation"
	"github.com/vovakirdan/shinehub-server/internal/service/notices"
	"github.com/vovakirdan/shinehub-server/internal/service/social"
	"github.com/vovakirdan/shinehub-server/internal/store"
	"github.com/vovakirdan/shinehub-server/internal/upload"
)

// Services bundles the application services exposed over HTTP.
type Services struct {
	Auth       *auth.Service
	Users      store.UserStore
	Social     *social.Service
	Notices    *notices.Service
	Moderation *moderation.Service
	Uploads    *upload.Storage
}

// NewRouter builds the gin engine with the REST API and static uploads.
func NewRouter(svc Services, cfg *config.Config, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})
	router.Static("/uploads", svc.Uploads.Dir())

	apiHandlers := NewAPIHandlers(svc.Auth, logger)
	userHandlers := NewUserHandlers(svc.Users, svc.Social, logger)
	messageHandlers := NewMessageHandlers(svc.Social, svc.Uploads, cfg.MaxUploadBytes, logger)
	groupHandlers := NewGroupHandlers(svc.Social, logger)
	noticeHandlers := NewNoticeHandlers(svc.Notices, logger)
	moderationHandlers := NewModerationHandlers(svc.Moderation, logger)

	api := router.Group("/api")
	api.POST("/auth/register", apiHandlers.Register)
	api.POST("/auth/login", apiHandlers.Login)

	authed := api.Group("")
	authed.Use(AuthMiddleware(svc.Auth, logger))
	{
		authed.GET("/users/me", userHandlers.Me)
		authed.GET("/users/suggested", userHandlers.Suggested)
		authed.GET("/users/friends", userHandlers.Friends)
		authed.POST("/users/follow/:id", userHandlers.Follow)
		authed.POST("/users/unfollow/:id", userHandlers.Unfollow)

		authed.GET("/messages/private/:otherId", messageHandlers.PrivateHistory)
		authed.GET("/messages/group/:groupId", messageHandlers.GroupHistory)
		authed.POST("/messages/upload", messageHandlers.Upload)

		authed.GET("/groups", groupHandlers.ListGroups)
		authed.POST("/groups", groupHandlers.CreateGroup)

		authed.POST("/reports", moderationHandlers.Report)

		authed.GET("/notices", noticeHandlers.List)
		authed.POST("/notices", AdminMiddleware(logger), noticeHandlers.Post)
		authed.GET("/notices/:id/comments", noticeHandlers.Comments)
		authed.POST("/notices/:id/comments", noticeHandlers.AddComment)
	}

	admin := authed.Group("/admin")
	admin.Use(AdminMiddleware(logger))
	{
		admin.GET("/users", moderationHandlers.Users)
		admin.DELETE("/users/:id", moderationHandlers.Delete)
		admin.POST("/ban/:id", moderationHandlers.Ban)
		admin.GET("/reports", moderationHandlers.Reports)
	}

	return router
}

// NewHandler serves /ws directly and everything else through NewRouter.
// /ws stays outside gin so the upgrade can hijack the raw ResponseWriter.
func NewHandler(hub *core.Hub, svc Services, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, cfg.MaxMessageBytes, cfg.MessageRateLimit, logger))
	mux.Handle("/", NewRouter(svc, cfg, logger))
	return mux
}

// NewServer builds the HTTP server around NewHandler.
func NewServer(hub *core.Hub, svc Services, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewHandler(hub, svc, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
