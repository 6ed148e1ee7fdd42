package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "movierating/internal/errors"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   apperrors.ErrorResponse
		wantLogged bool
	}{
		{
			name:       "classified error",
			err:        httpError(apperrors.New(apperrors.ErrNotFound, "rating not found")),
			wantStatus: http.StatusNotFound,
			wantBody:   apperrors.ErrorResponse{Error: "rating not found", Code: "NOT_FOUND"},
		},
		{
			name:       "internal cause is hidden and logged",
			err:        httpError(apperrors.Internal(errors.New("dial tcp 10.0.0.1:3306: refused"))),
			wantStatus: http.StatusInternalServerError,
			wantBody:   apperrors.ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"},
			wantLogged: true,
		},
		{
			name:       "bare error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   apperrors.ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"},
			wantLogged: true,
		},
		{
			name:       "echo error",
			err:        echo.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   apperrors.ErrorResponse{Error: "Not Found", Code: "NOT_FOUND"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			ErrorHandler(zap.New(core))(tt.err, c)

			require.Equal(t, tt.wantStatus, rec.Code)
			var body apperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body)
			assert.Equal(t, tt.wantLogged, logs.Len() == 1)
		})
	}
}

type sampleRequest struct {
	Username string `json:"username" validate:"required,max=5"`
	Note     string `json:"-" validate:"omitempty,email"`
}

func TestValidationMessage(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sampleRequest{})
	assert.Equal(t, "username is required", validationMessage(err))

	err = v.Validate(&sampleRequest{Username: "toolong"})
	assert.Equal(t, "username must be at most 5 characters", validationMessage(err))

	err = v.Validate(&sampleRequest{Username: "ok", Note: "nope"})
	assert.Equal(t, "Note is invalid", validationMessage(err))

	assert.NoError(t, v.Validate(&sampleRequest{Username: "ok"}))
}
