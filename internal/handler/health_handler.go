package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "movierating/internal/errors"
	"movierating/internal/repository"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by the cache client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and database reachability.
type HealthHandler struct {
	store repository.Store
	cache Pinger
}

// NewHealthHandler creates a health handler. cache may be nil.
func NewHealthHandler(store repository.Store, cache Pinger) *HealthHandler {
	return &HealthHandler{store: store, cache: cache}
}

// Healthz godoc
// @Summary Liveness probe
// @Tags health
// @Produce plain
// @Success 200 {string} string "ok"
// @Router /healthz [get]
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// CheckDB godoc
// @Summary Database connectivity check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} errors.ErrorResponse
// @Router /check_db [get]
func (h *HealthHandler) CheckDB(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		return httpError(apperrors.Internal(err))
	}

	resp := map[string]string{"database": "ok"}
	if h.cache != nil {
		// Redis is optional; report it without failing the check.
		if err := h.cache.Ping(ctx); err != nil {
			resp["cache"] = "unavailable"
		} else {
			resp["cache"] = "ok"
		}
	}
	return c.JSON(http.StatusOK, resp)
}
