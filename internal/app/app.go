package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/videotube/internal/config"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/internal/handler"
	"github.com/prperemyshlev/videotube/internal/repository"
	"github.com/prperemyshlev/videotube/internal/service"
	"github.com/prperemyshlev/videotube/internal/utils"
	"github.com/prperemyshlev/videotube/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

type handlers struct {
	user         *handler.UserHandler
	video        *handler.VideoHandler
	comment      *handler.CommentHandler
	tweet        *handler.TweetHandler
	like         *handler.LikeHandler
	subscription *handler.SubscriptionHandler
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		repos.User,
		repos.Subscription,
		jwtManager,
		infra.Storage(),
		infra.AuthMetrics(),
		cfg.Security.BCryptCost,
	)

	h := handlers{
		user: handler.NewUserHandler(authService, handler.CookieOptions{
			Secure:        cfg.Cookie.Secure,
			Domain:        cfg.Cookie.Domain,
			AccessMaxAge:  cfg.JWT.AccessTokenExpiry.Duration,
			RefreshMaxAge: cfg.JWT.RefreshTokenExpiry.Duration,
		}),
		video:        handler.NewVideoHandler(service.NewVideoService(repos.Video, infra.Storage())),
		comment:      handler.NewCommentHandler(service.NewCommentService(repos.Comment, repos.Video)),
		tweet:        handler.NewTweetHandler(service.NewTweetService(repos.Tweet, repos.User)),
		like:         handler.NewLikeHandler(service.NewLikeService(repos.Like, repos.Video, repos.Comment, repos.Tweet)),
		subscription: handler.NewSubscriptionHandler(service.NewSubscriptionService(repos.Subscription, repos.User)),
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, h, authService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	h handlers,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	rateLimit := handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.RouteIPKey)
	uploadLimit := handler.BodyLimit(cfg.Server.MaxUploadSize)
	requireAuth := handler.AuthMiddleware(authService)

	api := router.Group("/api/v1")

	users := api.Group("/users")
	{
		users.POST("/register", rateLimit, uploadLimit, h.user.Register)
		users.POST("/login", rateLimit, h.user.Login)
		users.POST("/refresh-token", h.user.Refresh)

		account := users.Group("", requireAuth)
		account.POST("/logout", h.user.Logout)
		account.POST("/change-password", h.user.ChangePassword)
		account.GET("/current-user", h.user.CurrentUser)
		account.PATCH("/update-account", h.user.UpdateAccount)
		account.PATCH("/avatar", uploadLimit, h.user.UpdateAvatar)
		account.PATCH("/cover-image", uploadLimit, h.user.UpdateCoverImage)
		account.GET("/channel/:username", h.user.ChannelProfile)
	}

	videos := api.Group("/videos", requireAuth)
	{
		videos.GET("", h.video.List)
		videos.POST("", uploadLimit, h.video.Publish)
		videos.GET("/:videoId", h.video.Get)
		videos.PATCH("/:videoId", h.video.Update)
		videos.DELETE("/:videoId", h.video.Delete)
		videos.PATCH("/:videoId/thumbnail", uploadLimit, h.video.UpdateThumbnail)
		videos.PATCH("/toggle/publish/:videoId", h.video.TogglePublish)
	}

	comments := api.Group("/comments", requireAuth)
	{
		comments.GET("/:videoId", h.comment.List)
		comments.POST("/:videoId", h.comment.Add)
		comments.PATCH("/c/:commentId", h.comment.Update)
		comments.DELETE("/c/:commentId", h.comment.Delete)
	}

	tweets := api.Group("/tweets", requireAuth)
	{
		tweets.POST("", h.tweet.Create)
		tweets.GET("/user/:userId", h.tweet.ListByUser)
		tweets.PATCH("/:tweetId", h.tweet.Update)
		tweets.DELETE("/:tweetId", h.tweet.Delete)
	}

	likes := api.Group("/likes", requireAuth)
	{
		likes.POST("/toggle/v/:videoId", h.like.Toggle(domain.LikeVideo, "videoId"))
		likes.POST("/toggle/c/:commentId", h.like.Toggle(domain.LikeComment, "commentId"))
		likes.POST("/toggle/t/:tweetId", h.like.Toggle(domain.LikeTweet, "tweetId"))
		likes.GET("/videos", h.like.LikedVideos)
	}

	subscriptions := api.Group("/subscriptions", requireAuth)
	{
		subscriptions.POST("/c/:channelId", h.subscription.Toggle)
		subscriptions.GET("/c/:channelId", h.subscription.Subscribers)
		subscriptions.GET("/u/:subscriberId", h.subscription.SubscribedChannels)
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Drain in-flight requests before closing the stores they use.
	if err := a.server.Shutdown(ctx); err != nil {
		a.infra.Logger().Error("Server shutdown failed", zap.Error(err))
		return errors.Join(err, a.infra.Shutdown(ctx))
	}

	if err := a.infra.Shutdown(ctx); err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
