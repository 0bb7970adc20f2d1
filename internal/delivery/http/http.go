package http

import (
	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"golang-backtest/internal/service"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	h.SetupBacktest(base)
	h.SetupOptimization(base)
	h.SetupStrategies(base)
}
