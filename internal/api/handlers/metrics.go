package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"walkforward-ensemble/internal/api/models"
	"walkforward-ensemble/internal/metrics"
)

// ListMetrics handles GET /api/v1/metrics.
func ListMetrics(c *gin.Context) {
	names := metrics.Names()
	out := make([]models.MetricInfo, 0, len(names))
	for _, name := range names {
		m, err := metrics.Lookup(name)
		if err != nil {
			continue
		}
		out = append(out, models.MetricInfo{Name: m.Name, Ascending: m.Ascending})
	}
	c.JSON(http.StatusOK, gin.H{"metrics": out})
}
