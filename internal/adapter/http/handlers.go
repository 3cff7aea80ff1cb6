package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	env string
}

func NewHandler(env string) *Handler { return &Handler{env: env} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "oya-backend",
		"env":     h.env,
		"time":    time.Now().UTC().Format(time.RFC3339Nano),
	})
}
