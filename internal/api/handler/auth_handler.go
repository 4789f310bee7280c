package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cleanus/booking-api/internal/api/metrics"
	"github.com/cleanus/booking-api/internal/core/domain"
	"github.com/cleanus/booking-api/internal/core/ports"
)

const documentField = "idDocument"

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account from a multipart form.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        fullName    formData  string  true  "Full name"
// @Param        email       formData  string  true  "Email"
// @Param        phone       formData  string  true  "Phone"
// @Param        password    formData  string  true  "Password (min 6 characters)"
// @Param        street      formData  string  true  "Street"
// @Param        number      formData  string  true  "Number"
// @Param        city        formData  string  true  "City"
// @Param        zipCode     formData  string  true  "Zip code"
// @Param        idDocument  formData  file    true  "Identity document (PDF)"
// @Success      201         {object}  registerResponse
// @Failure      400         {object}  messageResponse
// @Failure      409         {object}  messageResponse
// @Failure      500         {object}  messageResponse
// @Router       /api/users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fh, err := c.FormFile(documentField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			return domain.ErrMissingDocument
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	file, err := fh.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Address: domain.Address{
			Street:  req.Street,
			Number:  req.Number,
			City:    req.City,
			ZipCode: req.ZipCode,
		},
		Document: &ports.DocumentUpload{Filename: fh.Filename, Content: file},
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registrationOutcome(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		Message: "user registered successfully",
		UserID:  user.ID,
	})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	signed, user, err := h.authService.Login(c.Request().Context(), req.LoginEmail, req.LoginPassword)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Message: "login successful",
		Token:   signed,
		User:    user,
	})
}

// Logout revokes the presented token when a denylist is configured.
//
// @Summary      Logout
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Me returns the caller's profile.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/users/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Document streams the caller's identity document.
//
// @Summary      Current user's identity document
// @Tags         users
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/users/me/document [get]
func (h *AuthHandler) Document(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	rc, err := h.authService.Document(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="identity-document.pdf"`)
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Stream(http.StatusOK, "application/pdf", rc)
}

func registrationOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return "duplicate"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrMissingDocument),
		errors.Is(err, domain.ErrInvalidDocument):
		return "invalid"
	default:
		return "error"
	}
}
