package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/models"
	"clubledger/internal/pagination"
	"clubledger/internal/services"
)

// ExpenseHandler handles expense lifecycle requests.
type ExpenseHandler struct {
	expenseService  services.ExpenseServicer
	activityService services.ActivityServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, activityService services.ActivityServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, activityService: activityService}
}

// CreateExpenseRequest represents the request payload for creating an expense.
type CreateExpenseRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Category    string          `json:"category" binding:"required,min=1,max=100"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	Vendor      string          `json:"vendor" binding:"omitempty,max=200"`
	Description string          `json:"description" binding:"omitempty,max=500"`
}

// UpdateExpenseRequest represents the request payload for editing an expense.
type UpdateExpenseRequest struct {
	Name        string           `json:"name" binding:"omitempty,min=1,max=200"`
	Category    string           `json:"category" binding:"omitempty,min=1,max=100"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        *time.Time       `json:"date"`
	Vendor      *string          `json:"vendor" binding:"omitempty,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
}

// CreateExpense handles recording a new expense.
// @Summary     Create an expense
// @Description Record an expense; superadmins auto-approve and charge the budget
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input, unknown category, or insufficient budget"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	role, err := getRole(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(req.Name, req.Category, req.Amount, req.Date, req.Vendor, req.Description, userID, role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "expense_created", fmt.Sprintf("created expense %s (%s, %s)", expense.Name, expense.Category, expense.Status))

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing expenses with optional filters.
// @Summary     Get expenses
// @Description Get a paginated, filtered list of expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       category  query string false "Filter by category"
// @Param       status    query string false "Filter by status (pending/approved/rejected)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	var filter services.ExpenseFilter
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := c.Query("status"); v != "" {
		status := models.ExpenseStatus(v)
		switch status {
		case models.ExpenseStatusPending, models.ExpenseStatusApproved, models.ExpenseStatusRejected:
			filter.Status = &status
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid status filter"))
			return
		}
	}

	expenses, err := h.expenseService.GetExpenses(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// GetExpenseCategories handles listing distinct expense categories.
// @Summary     Get expense categories
// @Description Get distinct category names used by expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]string "Category names"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses/categories [get]
func (h *ExpenseHandler) GetExpenseCategories(c *gin.Context) {
	categories, err := h.expenseService.GetExpenseCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// UpdateExpense handles editing an expense.
// @Summary     Update an expense
// @Description Edit an expense; approved expenses reverse and re-apply their budget charge
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to update"
// @Success     200 {object} models.Expense "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(expenseID, req.Name, req.Category, req.Amount, req.Date, req.Vendor, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "expense_updated", fmt.Sprintf("updated expense %s (%s)", expense.Name, expense.Category))

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// ApproveExpense handles approving a pending expense.
// @Summary     Approve an expense
// @Description Approve a pending expense and charge its category's budget
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} models.Expense "Expense approved"
// @Failure     400 {object} ErrorResponse "Already approved, unknown category, or insufficient budget"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id}/approve [put]
func (h *ExpenseHandler) ApproveExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.ApproveExpense(expenseID, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "expense_approved", fmt.Sprintf("approved expense %s (%s)", expense.Name, expense.Category))

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// RejectExpense handles rejecting a pending expense.
// @Summary     Reject an expense
// @Description Reject a pending expense; no budget effect
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} models.Expense "Expense rejected"
// @Failure     400 {object} ErrorResponse "Expense is approved"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id}/reject [put]
func (h *ExpenseHandler) RejectExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.RejectExpense(expenseID, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "expense_rejected", fmt.Sprintf("rejected expense %s (%s)", expense.Name, expense.Category))

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete an expense
// @Description Delete an expense; an approved expense's charge is reversed first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} map[string]string "Expense deleted"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "expense_deleted", fmt.Sprintf("deleted expense #%d", expenseID))

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

func (h *ExpenseHandler) logActivity(c *gin.Context, activityType, details string) {
	if idCardNo, err := getIDCardNo(c); err == nil {
		h.activityService.Log(activityType, idCardNo, details)
	}
}
