package services

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/models"
)

// sheetService manages the shared planning sheet and xlsx import/export.
// The dashboard saves the whole sheet at once, so writes replace every row.
type sheetService struct {
	db *gorm.DB
}

// NewSheetService creates a new SheetServicer.
func NewSheetService(db *gorm.DB) SheetServicer {
	return &sheetService{db: db}
}

// GetItems returns every sheet row in insertion order.
func (s *sheetService) GetItems() ([]models.SheetItem, error) {
	var items []models.SheetItem
	if err := s.db.Order("id").Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return items, nil
}

// ReplaceItems swaps the entire sheet for the given rows in one
// transaction. Rows without an item name are dropped.
func (s *sheetService) ReplaceItems(items []models.SheetItem) ([]models.SheetItem, error) {
	kept := make([]models.SheetItem, 0, len(items))
	for _, item := range items {
		item.Base = models.Base{}
		item.ItemName = strings.TrimSpace(item.ItemName)
		if item.ItemName == "" {
			continue
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		if item.Status == "" {
			item.Status = "pending"
		}
		kept = append(kept, item)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.SheetItem{}).Error; err != nil {
			return err
		}
		if len(kept) == 0 {
			return nil
		}
		return tx.Create(&kept).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return kept, nil
}

// ClearItems deletes every sheet row.
func (s *sheetService) ClearItems() error {
	if err := s.db.Unscoped().Where("1 = 1").Delete(&models.SheetItem{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ImportXLSX parses an uploaded workbook and replaces the sheet with its
// rows. Expected columns: item name, category, quantity, unit price,
// vendor, status. The first row is treated as a header.
func (s *sheetService) ImportXLSX(data []byte) ([]models.SheetItem, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "File is not a valid xlsx workbook")
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var items []models.SheetItem
	for i, row := range rows {
		if i == 0 {
			continue
		}
		item := models.SheetItem{
			ItemName: cell(row, 0),
			Category: cell(row, 1),
			Quantity: 1,
			Vendor:   cell(row, 4),
			Status:   cell(row, 5),
		}
		if qty, err := strconv.Atoi(cell(row, 2)); err == nil && qty > 0 {
			item.Quantity = qty
		}
		if price, err := decimal.NewFromString(cell(row, 3)); err == nil {
			item.UnitPrice = price
		}
		items = append(items, item)
	}

	return s.ReplaceItems(items)
}

// Export renders the requested data set as an xlsx workbook and returns
// the file bytes with a suggested filename.
func (s *sheetService) Export(exportType string) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	switch exportType {
	case "donations":
		var donations []models.Donation
		if err := s.db.Order("date DESC").Find(&donations).Error; err != nil {
			return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		writeHeader(f, sheet, []string{"Donor", "Amount", "Date", "Payment Method", "Status", "Note"})
		for i, d := range donations {
			writeRow(f, sheet, i+2, []interface{}{
				d.DonorName, d.Amount.InexactFloat64(), d.Date.Format("2006-01-02"),
				string(d.PaymentMethod), string(d.Status), d.Note,
			})
		}
	case "expenses":
		var expenses []models.Expense
		if err := s.db.Order("date DESC").Find(&expenses).Error; err != nil {
			return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		writeHeader(f, sheet, []string{"Name", "Category", "Amount", "Date", "Vendor", "Status"})
		for i, e := range expenses {
			writeRow(f, sheet, i+2, []interface{}{
				e.Name, e.Category, e.Amount.InexactFloat64(), e.Date.Format("2006-01-02"),
				e.Vendor, string(e.Status),
			})
		}
	case "budgets":
		var budgets []models.Budget
		if err := s.db.Order("category").Find(&budgets).Error; err != nil {
			return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		writeHeader(f, sheet, []string{"Name", "Category", "Allocated", "Spent", "Remaining", "Date"})
		for i, b := range budgets {
			writeRow(f, sheet, i+2, []interface{}{
				b.Name, b.Category, b.Allocated.InexactFloat64(), b.Spent.InexactFloat64(),
				b.Remaining.InexactFloat64(), b.Date.Format("2006-01-02"),
			})
		}
	case "admins":
		var admins []models.Admin
		if err := s.db.Order("added_date DESC").Find(&admins).Error; err != nil {
			return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		writeHeader(f, sheet, []string{"ID Card No", "Name", "Mobile", "Role", "Added", "Status"})
		for i, a := range admins {
			writeRow(f, sheet, i+2, []interface{}{
				a.IDCardNo, a.Name, a.Mobile, string(a.Role),
				a.AddedDate.Format("2006-01-02"), string(a.Status),
			})
		}
	default:
		return nil, "", apperrors.ErrInvalidExportType
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	filename := fmt.Sprintf("%s-%s.xlsx", exportType, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func writeHeader(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		col, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, col, h)
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for i, v := range values {
		col, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, col, v)
	}
}
