package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gcredit/registration-api/internal/api/metrics"
	"github.com/gcredit/registration-api/internal/core/domain"
	"github.com/gcredit/registration-api/internal/core/ports"
)

// RegistrationHandler handles account sign-up.
type RegistrationHandler struct {
	service ports.RegistrationService
}

func NewRegistrationHandler(service ports.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *RegistrationHandler) Register(c echo.Context) error {
	start := time.Now()

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		observe("invalid", start)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	})
	observe(outcome(err), start)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, view)
}

func outcome(err error) string {
	var verr *domain.ValidationError
	switch {
	case err == nil:
		return "created"
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, domain.ErrEmailTaken):
		return "conflict"
	default:
		return "error"
	}
}

func observe(outcome string, start time.Time) {
	metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
	metrics.RegistrationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
