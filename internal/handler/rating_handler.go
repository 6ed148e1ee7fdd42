package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"movierating/internal/metrics"
	"movierating/internal/service"
)

// RatingHandler handles rating submission and owner-scoped mutations.
type RatingHandler struct {
	ratingService service.RatingService
	metrics       *metrics.Metrics
}

// NewRatingHandler creates a rating handler.
func NewRatingHandler(ratingService service.RatingService, m *metrics.Metrics) *RatingHandler {
	return &RatingHandler{ratingService: ratingService, metrics: m}
}

// SubmitRatingRequest represents a new rating.
type SubmitRatingRequest struct {
	MovieTitle string `json:"movie_title" validate:"required"`
	Rating     int    `json:"rating"`
}

// UpdateRatingRequest carries the new score.
type UpdateRatingRequest struct {
	Rating *int `json:"rating"`
}

// RatingResponse is returned after a rating write.
type RatingResponse struct {
	Message  string `json:"message"`
	RatingID uint   `json:"rating_id"`
	Rating   int    `json:"rating,omitempty"`
}

// SubmitRating godoc
// @Summary Rate a movie
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitRatingRequest true "Rating"
// @Success 201 {object} RatingResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /ratings [post]
func (h *RatingHandler) SubmitRating(c echo.Context) error {
	identity := identityFrom(c)
	if err := service.RequireRegular(identity); err != nil {
		return httpError(err)
	}

	var req SubmitRatingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	rating, err := h.ratingService.SubmitRating(c.Request().Context(), identity, req.MovieTitle, req.Rating)
	if err != nil {
		return httpError(err)
	}
	h.metrics.RecordRatingMutation("create")

	return c.JSON(http.StatusCreated, RatingResponse{
		Message:  "rating submitted successfully",
		RatingID: rating.ID,
		Rating:   rating.Score,
	})
}

// UpdateRating godoc
// @Summary Change the score of your rating
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rating ID"
// @Param request body UpdateRatingRequest true "New score"
// @Success 200 {object} RatingResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /ratings/{id} [put]
func (h *RatingHandler) UpdateRating(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req UpdateRatingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	rating, err := h.ratingService.UpdateRating(c.Request().Context(), identityFrom(c), id, req.Rating)
	if err != nil {
		return httpError(err)
	}
	h.metrics.RecordRatingMutation("update")

	return c.JSON(http.StatusOK, RatingResponse{
		Message:  "rating updated successfully",
		RatingID: rating.ID,
		Rating:   rating.Score,
	})
}

// DeleteRating godoc
// @Summary Delete your rating
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rating ID"
// @Success 200 {object} RatingResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /ratings/{id} [delete]
func (h *RatingHandler) DeleteRating(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.ratingService.DeleteRatingAsOwner(c.Request().Context(), identityFrom(c), id); err != nil {
		return httpError(err)
	}
	h.metrics.RecordRatingMutation("delete")

	return c.JSON(http.StatusOK, RatingResponse{Message: "rating deleted successfully", RatingID: id})
}

// AdminDeleteRating godoc
// @Summary Delete any rating
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rating ID"
// @Success 200 {object} RatingResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/ratings/{id} [delete]
func (h *RatingHandler) AdminDeleteRating(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.ratingService.DeleteRatingAsAdmin(c.Request().Context(), identityFrom(c), id); err != nil {
		return httpError(err)
	}
	h.metrics.RecordRatingMutation("admin_delete")

	return c.JSON(http.StatusOK, RatingResponse{Message: "rating deleted successfully", RatingID: id})
}

// ListRatings godoc
// @Summary List every rating with movie title and username
// @Tags ratings
// @Produce json
// @Success 200 {array} service.RatingView
// @Failure 404 {object} errors.ErrorResponse
// @Router /ratings [get]
func (h *RatingHandler) ListRatings(c echo.Context) error {
	views, err := h.ratingService.ListAllRatings(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}
