package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todoapi/internal/bootstrap"
)

type HealthHandler struct {
	app *bootstrap.App
}

type componentStatus struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{
		"mysql":    h.mysqlStatus(ctx),
		"redis":    h.redisStatus(ctx),
		"rabbitmq": h.rabbitmqStatus(),
	}

	statusCode := http.StatusOK
	for _, check := range checks {
		if !check.(componentStatus).Healthy {
			statusCode = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(statusCode, gin.H{
		"service":        h.app.Config.App.Name,
		"env":            h.app.Config.App.Env,
		"uptime_seconds": int(time.Since(h.app.StartedAt).Seconds()),
		"checks":         checks,
	})
}

func (h *HealthHandler) mysqlStatus(ctx context.Context) componentStatus {
	sqlDB, err := h.app.MySQL.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return componentStatus{Healthy: false, Error: err.Error()}
	}
	return componentStatus{Healthy: true}
}

func (h *HealthHandler) redisStatus(ctx context.Context) componentStatus {
	if err := h.app.Redis.Ping(ctx).Err(); err != nil {
		return componentStatus{Healthy: false, Error: err.Error()}
	}
	return componentStatus{Healthy: true}
}

func (h *HealthHandler) rabbitmqStatus() componentStatus {
	if h.app.MQConn == nil || h.app.MQConn.IsClosed() {
		return componentStatus{Healthy: false, Error: "connection closed"}
	}
	return componentStatus{Healthy: true}
}
