package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"movierating/internal/service"
)

// MovieHandler serves the catalog.
type MovieHandler struct {
	movieService service.MovieService
}

// NewMovieHandler creates a movie handler.
func NewMovieHandler(movieService service.MovieService) *MovieHandler {
	return &MovieHandler{movieService: movieService}
}

// AddMovieRequest represents a new catalog entry.
type AddMovieRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	ReleaseYear *int   `json:"release_year" validate:"required"`
}

// AddMovieResponse is returned after a movie is created.
type AddMovieResponse struct {
	Message string `json:"message"`
	MovieID uint   `json:"movie_id"`
}

// AddMovie godoc
// @Summary Add a movie
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddMovieRequest true "Movie"
// @Success 201 {object} AddMovieResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /movies [post]
func (h *MovieHandler) AddMovie(c echo.Context) error {
	identity := identityFrom(c)
	// Non-admins are refused before the body is looked at.
	if err := service.RequireAdmin(identity); err != nil {
		return httpError(err)
	}

	var req AddMovieRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	movie, err := h.movieService.AddMovie(c.Request().Context(), identity, req.Title, req.ReleaseYear)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, AddMovieResponse{
		Message: "movie added successfully",
		MovieID: movie.ID,
	})
}

// GetMovie godoc
// @Summary Movie detail with ratings
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} service.MovieDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovie(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	detail, err := h.movieService.GetMovie(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// ListMovies godoc
// @Summary List movies
// @Tags movies
// @Produce json
// @Success 200 {array} model.Movie
// @Router /movies [get]
func (h *MovieHandler) ListMovies(c echo.Context) error {
	movies, err := h.movieService.ListMovies(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, movies)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid id")
	}
	return uint(id), nil
}
