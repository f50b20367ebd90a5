// Package actionserver exposes custom actions to the chat framework over HTTP.
package actionserver

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Action is a custom action the chat framework can invoke by name.
type Action interface {
	Name() string
	Run(ctx context.Context, req Request) (Response, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter wires the webhook and health endpoints.
// Public: /health, /ready, /actions
// Framework: POST /webhook
func NewRouter(log *zap.Logger, db Pinger, actions ...Action) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	registry := make(map[string]Action, len(actions))
	for _, a := range actions {
		registry[a.Name()] = a
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/actions", func(c *gin.Context) {
		names := make([]gin.H, 0, len(registry))
		for name := range registry {
			names = append(names, gin.H{"name": name})
		}
		sort.Slice(names, func(i, j int) bool { return names[i]["name"].(string) < names[j]["name"].(string) })
		c.JSON(http.StatusOK, names)
	})

	r.POST("/webhook", func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		action, ok := registry[req.NextAction]
		if !ok {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:      fmt.Sprintf("No registered action found for name '%s'.", req.NextAction),
				ActionName: req.NextAction,
			})
			return
		}

		resp, err := action.Run(c.Request.Context(), req)
		if err != nil {
			log.Error("action failed",
				zap.String("action", req.NextAction),
				zap.String("sender_id", req.SenderID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), ActionName: req.NextAction})
			return
		}
		c.JSON(http.StatusOK, resp)
	})

	return r
}

// requestLogger logs one line per request.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
