package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bcibizz-gateway/internal/middleware"
	"bcibizz-gateway/internal/models"
	"bcibizz-gateway/internal/render"
	"bcibizz-gateway/internal/services"
)

type DashboardHandler struct {
	aggregator *services.Aggregator
	logger     *zap.Logger
	now        func() time.Time
}

func NewDashboardHandler(aggregator *services.Aggregator, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		aggregator: aggregator,
		logger:     logger,
		now:        func() time.Time { return time.Now().In(render.Lisbon) },
	}
}

// Get loads every dashboard section concurrently and renders what arrived.
// Failed sections are flagged in the view, never failing the request.
func (h *DashboardHandler) Get(c *gin.Context) {
	state := h.aggregator.LoadAll(c.Request.Context(), middleware.Client(c))
	period := render.ParsePeriod(c.Query("period"))

	respondData(c, http.StatusOK, render.Dashboard(state, period, h.now()), "")
}

// Chart re-renders only the chart for another period.
func (h *DashboardHandler) Chart(c *gin.Context) {
	state := &services.DashboardState{
		Chart: h.aggregator.LoadChart(c.Request.Context(), middleware.Client(c)),
	}
	period := render.ParsePeriod(c.Query("period"))

	respondData(c, http.StatusOK, render.DashboardChart(state, period, h.now()), "")
}

// Series returns every chart point summed per calendar period.
func (h *DashboardHandler) Series(c *gin.Context) {
	resp := middleware.Client(c).GetChartData(c.Request.Context())
	if !resp.Success {
		respondUpstream(c, resp, "Erro ao carregar dados do gráfico")
		return
	}

	var points models.List[models.ChartPoint]
	if err := resp.DecodeList(&points); err != nil {
		h.logger.Warn("chart payload unusable", zap.Error(err))
		points.Data = nil
	}

	respondData(c, http.StatusOK, render.Buckets(points.Data, render.ParsePeriod(c.Query("period"))), "")
}
