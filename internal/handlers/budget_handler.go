package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/pagination"
	"clubledger/internal/services"
)

// BudgetHandler handles budget category requests.
type BudgetHandler struct {
	budgetService   services.BudgetServicer
	activityService services.ActivityServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, activityService services.ActivityServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, activityService: activityService}
}

// CreateBudgetRequest represents the request payload for creating a budget category.
type CreateBudgetRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=100"`
	Category    string          `json:"category" binding:"required,min=1,max=100"`
	Allocated   decimal.Decimal `json:"allocated" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	Description string          `json:"description" binding:"omitempty,max=500"`
}

// UpdateBudgetRequest represents the request payload for updating a budget category.
type UpdateBudgetRequest struct {
	Name        string           `json:"name" binding:"omitempty,min=1,max=100"`
	Category    string           `json:"category" binding:"omitempty,min=1,max=100"`
	Allocated   *decimal.Decimal `json:"allocated"`
	Date        *time.Time       `json:"date"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
}

// CreateBudget handles the creation of a new budget category.
// @Summary     Create a budget category
// @Description Create a budget allocation for a new expense category
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     409 {object} ErrorResponse "Duplicate category"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(req.Name, req.Category, req.Allocated, req.Date, req.Description, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "budget_created", fmt.Sprintf("created budget %s (%s)", budget.Name, budget.Category))

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets handles listing budget categories.
// @Summary     Get budgets
// @Description Get a paginated list of budget categories
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	budgets, err := h.budgetService.GetBudgets(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, budgets)
}

// GetCategories handles listing category names for the expense form.
// @Summary     Get budget categories
// @Description Get all budget category names
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]string "Category names"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budgets/categories [get]
func (h *BudgetHandler) GetCategories(c *gin.Context) {
	categories, err := h.budgetService.GetCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// UpdateBudget handles editing a budget category.
// @Summary     Update a budget category
// @Description Update a budget's name, category, allocation, date, or description
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Fields to update"
// @Success     200 {object} models.Budget "Budget updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Duplicate category"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateBudget(budgetID, req.Name, req.Category, req.Allocated, req.Date, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "budget_updated", fmt.Sprintf("updated budget %s (%s)", budget.Name, budget.Category))

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget category.
// @Summary     Delete a budget category
// @Description Delete a budget category that has no approved expenses
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} map[string]string "Budget deleted"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Category in use"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "budget_deleted", fmt.Sprintf("deleted budget #%d", budgetID))

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted"})
}

func (h *BudgetHandler) logActivity(c *gin.Context, activityType, details string) {
	if idCardNo, err := getIDCardNo(c); err == nil {
		h.activityService.Log(activityType, idCardNo, details)
	}
}
