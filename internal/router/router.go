package router

import (
	"fmt"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"movierating/internal/auth"
	"movierating/internal/config"
	apperrors "movierating/internal/errors"
	"movierating/internal/handler"
	"movierating/internal/metrics"
	"movierating/internal/service"
)

// multipartOverhead leaves room for form framing on top of the file size limit.
const multipartOverhead = 1 << 20

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Auth   *handler.AuthHandler
	Movie  *handler.MovieHandler
	Rating *handler.RatingHandler
	Media  *handler.MediaHandler
	Health *handler.HealthHandler
}

// Dependencies are the non-handler collaborators the router wires in.
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	JWTService *auth.JWTService
	Guard      *service.Guard
}

// Register wires routes and middleware.
func Register(e *echo.Echo, deps Dependencies, h Handlers) {
	cfg := deps.Config

	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(deps.Logger)

	e.Use(middleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(middleware.Recover())
	e.Use(deps.Metrics.Middleware())

	e.GET("/healthz", h.Health.Healthz)
	e.GET("/check_db", h.Health.CheckDB)
	e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Verified token, then a live, non-revoked identity.
	authn := []echo.MiddlewareFunc{
		jwtMiddleware(deps.JWTService),
		handler.RequireIdentity(deps.Guard),
	}

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login, loginRateLimiter(cfg.LoginRateLimit, cfg.LoginBurst)...)
	api.GET("/movies", h.Movie.ListMovies)
	api.GET("/movies/:id", h.Movie.GetMovie)
	api.GET("/ratings", h.Rating.ListRatings)
	api.POST("/media", h.Media.Upload, middleware.BodyLimit(bodyLimit(cfg.Media.MaxSize)))

	// Secured routes
	api.POST("/auth/logout", h.Auth.Logout, authn...)
	api.GET("/me", h.Auth.Me, authn...)
	api.POST("/movies", h.Movie.AddMovie, authn...)
	api.POST("/ratings", h.Rating.SubmitRating, authn...)
	api.PUT("/ratings/:id", h.Rating.UpdateRating, authn...)
	api.DELETE("/ratings/:id", h.Rating.DeleteRating, authn...)

	admin := api.Group("/admin", authn...)
	admin.DELETE("/ratings/:id", h.Rating.AdminDeleteRating)
}

func jwtMiddleware(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: handler.ClaimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: "missing or invalid token",
				Code:  "UNAUTHORIZED",
			}).SetInternal(err)
		},
	})
}

// loginRateLimiter throttles login attempts per client IP. A non-positive
// limit disables throttling.
func loginRateLimiter(limit float64, burst int) []echo.MiddlewareFunc {
	if limit <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return []echo.MiddlewareFunc{
		middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(limit),
				Burst:     burst,
				ExpiresIn: 3 * time.Minute,
			}),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
					Error: "unable to identify client",
					Code:  "FORBIDDEN",
				}).SetInternal(err)
			},
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
					Error: "too many login attempts",
					Code:  "RATE_LIMITED",
				})
			},
		}),
	}
}

func bodyLimit(maxSize int64) string {
	if maxSize <= 0 {
		maxSize = 10 << 20
	}
	return fmt.Sprintf("%dK", (maxSize+multipartOverhead)/1024)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
