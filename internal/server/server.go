// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	_ "travelog/docs" // swagger docs
	"travelog/internal/cache"
	"travelog/internal/config"
	"travelog/internal/featureflags"
	"travelog/internal/middleware"
	"travelog/internal/models"
	"travelog/internal/notifications"
	"travelog/internal/observability"
	"travelog/internal/repository"
	"travelog/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "travelog-api"
	tokenAudience = "travelog-client"

	// AccessTokenHeader carries the session JWT on every authenticated request.
	AccessTokenHeader = "accessToken"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	startedAt      time.Time

	notifier     *notifications.Notifier
	hub          *notifications.Hub
	featureFlags *featureflags.Manager
	feedWired    atomic.Bool

	postService     *service.PostService
	reactionService *service.ReactionService
	commentService  *service.CommentService
	userService     *service.UserService
	uploadService   *service.UploadService
}

// NewServerWithDeps wires repositories and services around an existing database and Redis client.
// rdb may be nil; caching, revocation, Redis rate limits and cross-instance fan-out are then disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Server {
	flags := featureflags.NewManager(cfg.FeatureFlags)

	postRepo := repository.NewPostRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)

	s := &Server{
		config:          cfg,
		db:              db,
		redis:           rdb,
		startedAt:       time.Now(),
		notifier:        notifications.NewNotifier(rdb),
		hub:             notifications.NewHub(),
		featureFlags:    flags,
		postService:     service.NewPostService(postRepo, flags),
		reactionService: service.NewReactionService(reactionRepo, postRepo),
		commentService:  service.NewCommentService(commentRepo, postRepo),
		userService:     service.NewUserService(userRepo),
		uploadService:   service.NewUploadService(cfg.UploadDir, cfg.UploadMaxSizeMB, flags),
	}
	s.shutdownCtx, s.shutdownFn = context.WithCancel(context.Background())
	s.promMiddleware = middleware.InitMetrics(observability.ServiceName)
	models.HideErrorDetails = cfg.IsProduction()

	return s
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	app.Use(helmet.New(helmet.Config{
		// uploaded images are embedded by the web client on another origin
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.StructuredLogger())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.ClientURL,
		AllowHeaders:     "Origin, Content-Type, Accept, " + AccessTokenHeader,
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: s.config.ClientURL != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        s.config.RateLimitMax,
		Expiration: time.Duration(s.config.RateLimitWindowMinutes) * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.RateLimitMax <= 0
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests from this IP, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.HealthCheck)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	s.promMiddleware.RegisterAt(app, "/metrics")

	app.Static(service.UploadURLPrefix, s.uploadService.Dir())

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{Title: "travelog metrics"}))
	api.Get("/swagger/*", swagger.HandlerDefault)
	api.Get("/feature-flags", s.optionalAuth(), s.GetFeatureFlags)
	api.Get("/ws/feed", s.optionalAuth(), s.FeedUpgrade, s.FeedWebSocket())

	protected := s.AuthRequired()

	// Users
	users := api.Group("/users")
	users.Post("/", s.routeLimit(middleware.RouteLimit{Name: "register", Limit: 10, Window: 10 * time.Minute}), s.Register)
	users.Post("/login", s.routeLimit(middleware.RouteLimit{Name: "login", Limit: 10, Window: 5 * time.Minute}), s.Login)
	users.Get("/authCheck", protected, s.AuthCheck)
	users.Post("/logout", protected, s.Logout)
	users.Get("/info/:id", s.GetUserInfo)

	// Posts
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/byId/:id", s.GetPost)
	posts.Get("/similar/:id", s.GetSimilarPosts)
	posts.Get("/byUserId/:id", s.GetUserPosts)
	posts.Get("/reacts", protected, s.GetUserReactions)
	posts.Post("/", protected, s.routeLimit(middleware.RouteLimit{Name: "create_post", Limit: 20, Window: time.Minute}), s.CreatePost)
	posts.Put("/title", protected, s.RenamePost)
	posts.Put("/postText", protected, s.ReplacePostText)
	posts.Put("/:id", protected, s.UpdatePost)
	posts.Delete("/:postId", protected, s.DeletePost)

	// Reactions
	api.Post("/likes", protected, s.ToggleLike)
	api.Post("/dislikes", protected, s.ToggleDislike)

	// Comments
	comments := api.Group("/comments")
	comments.Get("/:postId", s.GetComments)
	comments.Post("/", protected, s.routeLimit(middleware.RouteLimit{Name: "create_comment", Limit: 30, Window: time.Minute}), s.CreateComment)
	comments.Delete("/:commentId", protected, s.DeleteComment)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}

// routeLimit applies a Redis-backed per-route limit outside development and test.
func (s *Server) routeLimit(rl middleware.RouteLimit) fiber.Handler {
	if s.config.Env == "development" || s.config.Env == "test" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return middleware.RateLimit(s.redis, rl)
}

// HealthCheck handles GET /health
// @Summary Health check
// @Description Process status, current time and uptime in seconds
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string,uptime=number}
// @Router /health [get]
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Seconds(),
	})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles readiness probe requests by checking dependencies
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	status := "up"
	checks := fiber.Map{}

	if s.db == nil {
		checks["database"] = "down"
		status = "down"
	} else if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "down"
		status = "down"
	} else {
		checks["database"] = "up"
	}

	switch {
	case s.redis == nil:
		checks["redis"] = "disabled"
	case s.redis.Ping(ctx).Err() != nil:
		checks["redis"] = "down"
		status = "down"
	default:
		checks["redis"] = "up"
	}

	code := fiber.StatusOK
	if status != "up" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
	})
}

// tokenClaims is the verified identity carried by an access token.
type tokenClaims struct {
	UserID    uint
	Username  string
	JTI       string
	ExpiresAt time.Time
}

// parseToken verifies signature, issuer, audience and revocation.
func (s *Server) parseToken(ctx context.Context, raw string) (*tokenClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, errors.New("invalid token subject")
	}
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || userID == 0 {
		return nil, errors.New("invalid user ID in token")
	}

	out := &tokenClaims{UserID: uint(userID)}
	out.Username, _ = claims["username"].(string)
	out.JTI, _ = claims["jti"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}

	if out.JTI != "" && s.redis != nil {
		revoked, err := s.redis.Exists(ctx, cache.RevokedTokenKey(out.JTI)).Result()
		if err != nil {
			middleware.Logger.WarnContext(ctx, "token revocation check failed", slog.String("error", err.Error()))
		} else if revoked > 0 {
			return nil, errors.New("token has been revoked")
		}
	}

	return out, nil
}

// AuthRequired rejects requests without a valid accessToken header and
// stores the caller's identity in the request locals.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(AccessTokenHeader)
		if raw == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("User not logged in!"))
		}

		claims, err := s.parseToken(c.UserContext(), raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(err.Error()))
		}

		setIdentity(c, claims)
		return c.Next()
	}
}

// optionalAuth records the caller's identity when a valid token is present and never rejects.
func (s *Server) optionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw := c.Get(AccessTokenHeader); raw != "" {
			if claims, err := s.parseToken(c.UserContext(), raw); err == nil {
				setIdentity(c, claims)
			}
		}
		return c.Next()
	}
}

func setIdentity(c *fiber.Ctx, claims *tokenClaims) {
	middleware.WithUserID(c, claims.UserID)
	c.Locals("username", claims.Username)
	c.Locals("claims", claims)
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:   "travelog",
		BodyLimit: int(s.uploadService.MaxBytes()) + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := models.StatusFor(err)
			if status >= fiber.StatusInternalServerError {
				middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
				var fiberErr *fiber.Error
				if !errors.As(err, &fiberErr) {
					err = models.NewInternalError(err)
				}
			}
			return models.RespondWithError(c, status, err)
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	app := s.App()

	go func() {
		if err := s.startFeedWiring(s.shutdownCtx); err != nil {
			middleware.Logger.Error("failed to start live feed wiring, delivering feed events locally",
				slog.String("error", err.Error()))
		}
	}()

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the server, the live feed and the connections it owns.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	var errs []error
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
		}
	}
	if err := s.hub.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("hub shutdown: %w", err))
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("database close: %w", err))
			}
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}

	return errors.Join(errs...)
}
