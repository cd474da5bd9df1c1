package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clubledger/internal/services"
)

// DashboardHandler handles dashboard, report, and activity feed requests.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
	activityService  services.ActivityServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer, activityService services.ActivityServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, activityService: activityService}
}

// GetStats handles the dashboard stats request.
// @Summary     Dashboard stats
// @Description Get headline totals: donations, expenses, allocation, active admins
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardStats "Dashboard stats"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// GetSummary handles the report summary request.
// @Summary     Report summary
// @Description Get balance and budget utilization figures
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.ReportSummary "Report summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboardService.GetSummary(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetRecentTransactions handles the merged transaction feed request.
// @Summary     Recent transactions
// @Description Get the merged donation/expense feed with running balance
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]services.Transaction "Recent transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/transactions/recent [get]
func (h *DashboardHandler) GetRecentTransactions(c *gin.Context) {
	transactions, err := h.dashboardService.GetRecentTransactions(20)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// GetRecentActivities handles the activity feed request.
// @Summary     Recent activities
// @Description Get the 20 most recent activity log entries
// @Tags        activities
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.Activity "Recent activities"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /activities/recent [get]
func (h *DashboardHandler) GetRecentActivities(c *gin.Context) {
	activities, err := h.activityService.GetRecent(20)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities})
}
