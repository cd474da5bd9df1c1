package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/models"
	"clubledger/internal/services"
)

const maxImportSize = 5 << 20 // 5 MiB

// SheetHandler handles the planning sheet and xlsx import/export.
type SheetHandler struct {
	sheetService    services.SheetServicer
	activityService services.ActivityServicer
}

// NewSheetHandler creates a new SheetHandler.
func NewSheetHandler(sheetService services.SheetServicer, activityService services.ActivityServicer) *SheetHandler {
	return &SheetHandler{sheetService: sheetService, activityService: activityService}
}

// SaveSheetRequest represents the replace-all sheet payload.
type SaveSheetRequest struct {
	Items []models.SheetItem `json:"items" binding:"required"`
}

// GetItems handles listing the sheet rows.
// @Summary     Get sheet items
// @Description Get every row of the shared planning sheet
// @Tags        sheets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.SheetItem "Sheet items"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /sheet-items [get]
func (h *SheetHandler) GetItems(c *gin.Context) {
	items, err := h.sheetService.GetItems()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// SaveItems handles replacing the whole sheet.
// @Summary     Save sheet items
// @Description Replace the entire planning sheet with the submitted rows
// @Tags        sheets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SaveSheetRequest true "Sheet rows"
// @Success     200 {object} map[string][]models.SheetItem "Saved items"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /sheet-items [post]
func (h *SheetHandler) SaveItems(c *gin.Context) {
	var req SaveSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	items, err := h.sheetService.ReplaceItems(req.Items)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "sheet_saved", fmt.Sprintf("saved sheet with %d items", len(items)))

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ClearItems handles clearing the sheet.
// @Summary     Clear sheet
// @Description Delete every row of the planning sheet
// @Tags        sheets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Sheet cleared"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /sheet-items [delete]
func (h *SheetHandler) ClearItems(c *gin.Context) {
	if err := h.sheetService.ClearItems(); err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "sheet_cleared", "cleared the planning sheet")

	c.JSON(http.StatusOK, gin.H{"message": "Sheet cleared"})
}

// ImportItems handles an xlsx sheet upload.
// @Summary     Import sheet from xlsx
// @Description Replace the planning sheet with rows parsed from an uploaded workbook
// @Tags        sheets
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file formData file true "xlsx workbook"
// @Success     200 {object} map[string][]models.SheetItem "Imported items"
// @Failure     400 {object} ErrorResponse "Invalid file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /sheet-items/import [post]
func (h *SheetHandler) ImportItems(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "Missing file upload"))
		return
	}
	if file.Size > maxImportSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "File too large"))
		return
	}

	f, err := file.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	items, err := h.sheetService.ImportXLSX(data)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "sheet_imported", fmt.Sprintf("imported %d items from %s", len(items), file.Filename))

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Export handles xlsx downloads of the ledger tables.
// @Summary     Export data as xlsx
// @Description Download donations, expenses, budgets, or admins as a workbook
// @Tags        exports
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       type path string true "Export type (donations/expenses/budgets/admins)"
// @Success     200 {file} binary "Workbook"
// @Failure     400 {object} ErrorResponse "Invalid export type"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /exports/{type} [get]
func (h *SheetHandler) Export(c *gin.Context) {
	data, filename, err := h.sheetService.Export(c.Param("type"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *SheetHandler) logActivity(c *gin.Context, activityType, details string) {
	if idCardNo, err := getIDCardNo(c); err == nil {
		h.activityService.Log(activityType, idCardNo, details)
	}
}
