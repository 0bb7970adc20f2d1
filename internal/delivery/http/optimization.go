package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-backtest/internal/dto"
)

func (h *HttpAPIHandler) SetupOptimization(base *echo.Group) {
	optGroup := base.Group("/optimization")
	optGroup.POST("/walk-forward", h.walkForward)
	optGroup.POST("/monte-carlo", h.monteCarlo)
	optGroup.POST("/search", h.parameterSearch)
	optGroup.POST("/robustness", h.robustness)
}

func (h *HttpAPIHandler) walkForward(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.WalkForwardRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	results, err := h.service.OptimizationService.WalkForward(ctx, *req)
	if err != nil {
		return c.JSON(statusForError(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, results)
}

func (h *HttpAPIHandler) monteCarlo(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.MonteCarloRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	results, err := h.service.OptimizationService.MonteCarlo(ctx, *req)
	if err != nil {
		return c.JSON(statusForError(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, results)
}

func (h *HttpAPIHandler) parameterSearch(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.ParameterSearchRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.service.OptimizationService.ParameterSearch(ctx, *req)
	if err != nil {
		return c.JSON(statusForError(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) robustness(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.RobustnessRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.service.OptimizationService.Robustness(ctx, *req)
	if err != nil {
		return c.JSON(statusForError(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}
