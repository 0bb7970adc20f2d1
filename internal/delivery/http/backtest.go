package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/engine"
	"golang-backtest/internal/model"
	"golang-backtest/internal/provider"
)

func (h *HttpAPIHandler) SetupBacktest(base *echo.Group) {
	backtestGroup := base.Group("/backtest")
	backtestGroup.POST("", h.runBacktest)
}

func (h *HttpAPIHandler) SetupStrategies(base *echo.Group) {
	strategiesGroup := base.Group("/strategies")
	strategiesGroup.GET("", h.listStrategies)
	strategiesGroup.POST("", h.registerStrategy)
}

func (h *HttpAPIHandler) runBacktest(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.BacktestRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.service.BacktestService.RunBacktest(ctx, *req)
	if err != nil {
		return c.JSON(statusForError(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) listStrategies(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Registry.List())
}

func (h *HttpAPIHandler) registerStrategy(c echo.Context) error {
	strategy := new(model.StrategyDefinition)
	if err := c.Bind(strategy); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.service.Registry.Register(strategy); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, strategy)
}

// statusForError maps the engine error kinds onto HTTP statuses: client
// mistakes are 400s, everything else is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, provider.ErrInvalidRange),
		errors.Is(err, engine.ErrInvalidStrategy),
		errors.Is(err, engine.ErrInsufficientFunds),
		errors.Is(err, engine.ErrInsufficientPosition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
