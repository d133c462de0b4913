// Package routers
package routers

import (
	"errors"
	"net/http"

	"chat-api/internal/inference"
	"chat-api/internal/metrics"
	"chat-api/internal/setup"
	"chat-api/internal/shared"

	"github.com/labstack/echo/v4"
)

type ChatRouter struct {
	gen inference.Generator
}

func RegisterChatRoutes(e *echo.Group, gen inference.Generator) error {
	if gen == nil {
		return errors.New("generator is required")
	}

	chatRouter := &ChatRouter{gen: gen}

	e.GET("/", chatRouter.Health)
	e.POST("/api/chat", chatRouter.Chat)
	return nil
}

// Health backs the orchestration liveness and readiness probes. It must never
// touch the inference client, a degraded upstream is not a dead process.
func (cr *ChatRouter) Health(cc echo.Context) error {
	return cc.JSON(http.StatusOK, shared.HealthResponse{
		Status:  "ok",
		Message: "chat api is operational",
	})
}

func (cr *ChatRouter) Chat(cc echo.Context) error {
	c := cc.(*setup.Context)

	var req shared.ChatRequest
	if err := c.Bind(&req); err != nil {
		c.Log.Warnw("Failed to bind chat request", "error", err.Error())
		metrics.RequestCount.WithLabelValues(c.Path(), "invalid").Inc()
		return c.JSON(shared.ErrInvalidRequest.StatusCode, shared.ErrorResponse{
			Detail: shared.ErrInvalidRequest.Err.Error(),
		})
	}
	if req.Message == "" {
		metrics.RequestCount.WithLabelValues(c.Path(), "invalid").Inc()
		return c.JSON(shared.ErrEmptyMessage.StatusCode, shared.ErrorResponse{
			Detail: shared.ErrEmptyMessage.Err.Error(),
		})
	}

	reply, err := cr.gen.Generate(c.Request().Context(), req.Message)
	if err != nil {
		// Full cause is for operators only. The browser gets the fixed detail
		// string no matter what went wrong upstream.
		c.Log.Errorw("Inference failed", "error", err.Error())
		metrics.RequestCount.WithLabelValues(c.Path(), "error").Inc()
		return c.JSON(shared.ErrInternalServerError.StatusCode, shared.ErrorResponse{
			Detail: shared.InternalErrorDetail,
		})
	}

	metrics.RequestCount.WithLabelValues(c.Path(), "success").Inc()
	return c.JSON(http.StatusOK, shared.ChatResponse{Reply: reply})
}
