package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cleanus/booking-api/internal/api/metrics"
	"github.com/cleanus/booking-api/internal/core/domain"
	"github.com/cleanus/booking-api/internal/core/ports"
)

// BookingHandler handles HTTP requests for service bookings. Every route is
// mounted behind the Auth middleware.
type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create handles POST /api/services.
//
// @Summary      Request a cleaning service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookingRequest  true  "Service details"
// @Success      201   {object}  createBookingResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/services [post]
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.BookingOperationsTotal.WithLabelValues("create", "invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	date, err := parseDate(req.ServiceDate)
	if err != nil {
		metrics.BookingOperationsTotal.WithLabelValues("create", "invalid").Inc()
		return err
	}

	booking, err := h.service.Create(c.Request().Context(), ports.CreateBookingInput{
		UserID:        userID,
		ServiceDate:   date,
		OperatorCount: int(req.OperatorCount),
		ServiceDays:   int(req.ServiceDays),
	})
	if err != nil {
		metrics.BookingOperationsTotal.WithLabelValues("create", bookingOutcome(err)).Inc()
		return err
	}

	metrics.BookingOperationsTotal.WithLabelValues("create", "success").Inc()
	metrics.BookedOperatorDaysTotal.Add(float64(booking.OperatorCount * booking.ServiceDays))

	return c.JSON(http.StatusCreated, createBookingResponse{
		Message:   "service requested successfully",
		ServiceID: booking.ID,
		Details: bookingDetails{
			UserID:        booking.UserID,
			ServiceDate:   booking.ServiceDate.Format(domain.DateLayout),
			OperatorCount: booking.OperatorCount,
			ServiceDays:   booking.ServiceDays,
			TotalCost:     booking.TotalCost,
		},
	})
}

// List handles GET /api/services.
//
// @Summary      List the caller's services
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   bookingRecord
// @Failure      401  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/services [get]
func (h *BookingHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	bookings, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingRecords(bookings))
}

// Amend handles PUT /api/services/:id.
//
// @Summary      Change the date of a service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Service id"
// @Param        body  body      amendBookingRequest  true  "New service date"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/services/{id} [put]
func (h *BookingHandler) Amend(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	id, err := bookingID(c)
	if err != nil {
		return err
	}

	var req amendBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.BookingOperationsTotal.WithLabelValues("amend", "invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	date, err := parseDate(req.ServiceDate)
	if err != nil {
		metrics.BookingOperationsTotal.WithLabelValues("amend", "invalid").Inc()
		return err
	}

	if err := h.service.AmendDate(c.Request().Context(), ports.AmendBookingInput{
		UserID:      userID,
		BookingID:   id,
		ServiceDate: date,
	}); err != nil {
		metrics.BookingOperationsTotal.WithLabelValues("amend", bookingOutcome(err)).Inc()
		return err
	}

	metrics.BookingOperationsTotal.WithLabelValues("amend", "success").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "service updated successfully"})
}

// Cancel handles DELETE /api/services/:id.
//
// @Summary      Cancel a service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Service id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/services/{id} [delete]
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	id, err := bookingID(c)
	if err != nil {
		return err
	}

	if err := h.service.Cancel(c.Request().Context(), userID, id); err != nil {
		metrics.BookingOperationsTotal.WithLabelValues("cancel", bookingOutcome(err)).Inc()
		return err
	}

	metrics.BookingOperationsTotal.WithLabelValues("cancel", "success").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "service cancelled successfully"})
}

// bookingID parses the :id path parameter. Anything that cannot name a row
// is answered like a missing booking.
func bookingID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrBookingNotFound
	}
	return id, nil
}

func parseDate(s string) (time.Time, error) {
	date, err := domain.ParseServiceDate(s)
	if err != nil {
		if errors.Is(err, domain.ErrServiceDateRequired) {
			return time.Time{}, err
		}
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "serviceDate must be a date in YYYY-MM-DD format")
	}
	return date, nil
}

func bookingOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrBookingNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrServiceDateRequired),
		errors.Is(err, domain.ErrServiceDateNotFuture),
		errors.Is(err, domain.ErrInvalidCount):
		return "invalid"
	default:
		return "error"
	}
}
