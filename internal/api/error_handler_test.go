package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cleanus/booking-api/internal/core/domain"
	"github.com/cleanus/booking-api/pkg/token"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		body string
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, `{"message":"invalid credentials"}`},
		{token.ErrInvalidToken, http.StatusUnauthorized, `{"message":"invalid token"}`},
		{domain.ErrUserExists, http.StatusConflict, `{"message":"email already registered"}`},
		{domain.ErrBookingNotFound, http.StatusNotFound, `{"message":"service not found or not authorized"}`},
		{fmt.Errorf("find booking: %w", domain.ErrBookingNotFound), http.StatusNotFound, `{"message":"service not found or not authorized"}`},
		{domain.ErrMissingDocument, http.StatusBadRequest, `{"message":"identity document is required"}`},
		{domain.ErrInvalidDocument, http.StatusBadRequest, `{"message":"identity document must be a PDF file"}`},
		{domain.ErrServiceDateNotFuture, http.StatusBadRequest, `{"message":"service date must be in the future"}`},
		{fmt.Errorf("%w: missing email", domain.ErrValidation), http.StatusBadRequest, `{"message":"validation failed: missing email"}`},
		{echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"), http.StatusUnauthorized, `{"message":"missing authorization header"}`},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, `{"message":"internal server error"}`},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		h(tc.err, c)

		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		if got := rec.Body.String(); got != tc.body+"\n" {
			t.Fatalf("%v: expected body %s, got %s", tc.err, tc.body, got)
		}
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response must not be rewritten")
	}
}
