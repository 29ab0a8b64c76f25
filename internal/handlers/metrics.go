package handlers

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/services"
	"gorm.io/gorm"
)

var startTime = time.Now()

type MetricsHandler struct {
	db    *gorm.DB
	queue services.TaskQueue
	hub   *services.SSEHub
}

func NewMetricsHandler(db *gorm.DB, queue services.TaskQueue, hub *services.SSEHub) *MetricsHandler {
	return &MetricsHandler{db: db, queue: queue, hub: hub}
}

// Metrics returns Prometheus-compatible text format metrics.
// GET /metrics
func (h *MetricsHandler) Metrics(c *gin.Context) {
	var b strings.Builder

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	writeGauge(&b, "codebook_uptime_seconds", "Time since server start in seconds", time.Since(startTime).Seconds())
	writeGauge(&b, "codebook_goroutines", "Number of active goroutines", float64(runtime.NumGoroutine()))
	writeGauge(&b, "codebook_memory_alloc_bytes", "Current heap allocation in bytes", float64(m.Alloc))
	writeGauge(&b, "codebook_gc_runs_total", "Total number of GC runs", float64(m.NumGC))

	if h.hub != nil {
		writeGauge(&b, "codebook_sse_active_clients", "Number of active SSE connections", float64(h.hub.ClientCount()))
	}

	queueAsync := 0.0
	if h.queue != nil && h.queue.IsAsync() {
		queueAsync = 1.0
	}
	writeGauge(&b, "codebook_queue_async_enabled", "Whether async queue (Redis) is enabled (1=yes, 0=no)", queueAsync)

	if h.db != nil {
		if sqlDB, err := h.db.DB(); err == nil {
			stats := sqlDB.Stats()
			writeGauge(&b, "codebook_db_open_connections", "Number of open DB connections", float64(stats.OpenConnections))
			writeGauge(&b, "codebook_db_in_use_connections", "Number of in-use DB connections", float64(stats.InUse))
		}

		ctx := c.Request.Context()
		counts := []struct {
			name, help string
			model      interface{}
			where      string
		}{
			{"codebook_users_active", "Number of active users", &models.User{}, "is_active = ?"},
			{"codebook_profiles_total", "Total number of profiles", &models.Profile{}, ""},
			{"codebook_projects_total", "Total number of projects", &models.Project{}, ""},
			{"codebook_skills_total", "Total number of skills", &models.Skill{}, ""},
			{"codebook_reviews_total", "Total number of reviews", &models.Review{}, ""},
		}
		for _, cnt := range counts {
			var n int64
			q := h.db.WithContext(ctx).Model(cnt.model)
			if cnt.where != "" {
				q = q.Where(cnt.where, true)
			}
			q.Count(&n)
			writeGauge(&b, cnt.name, cnt.help, float64(n))
		}

		var upVotes int64
		h.db.WithContext(ctx).Model(&models.Review{}).Where("vote = ?", models.VoteUp).Count(&upVotes)
		writeGauge(&b, "codebook_reviews_up_total", "Number of Up votes", float64(upVotes))
	}

	c.Data(200, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
}

func writeGauge(b *strings.Builder, name, help string, value float64) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s gauge\n", name)
	fmt.Fprintf(b, "%s %g\n", name, value)
}
