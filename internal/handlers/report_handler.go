package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"bai-backend/config"
	"bai-backend/models"
)

// SettlementRow compares one budget line item against the sum of its
// recorded transactions.
type SettlementRow struct {
	ItemID     uint    `json:"itemId"`
	Code       string  `json:"code"`
	Source     string  `json:"source"`
	Category   string  `json:"category"`
	Project    string  `json:"project,omitempty"`
	Content    string  `json:"content"`
	Budget     int64   `json:"budget"`
	Settlement int64   `json:"settlement"`
	Ratio      float64 `json:"ratio"`
}

// SettlementTotal sums a settlement table.
type SettlementTotal struct {
	Budget     int64   `json:"budget"`
	Settlement int64   `json:"settlement"`
	Ratio      float64 `json:"ratio"`
}

// settlementRatio is executed/budgeted, 0 when nothing was budgeted.
func settlementRatio(budget, settlement int64) float64 {
	if budget == 0 {
		return 0
	}
	return float64(settlement) / float64(budget)
}

// settlementTotal folds the rows of one table.
func settlementTotal(rows []SettlementRow) SettlementTotal {
	var total SettlementTotal
	for _, row := range rows {
		total.Budget += row.Budget
		total.Settlement += row.Settlement
	}
	total.Ratio = settlementRatio(total.Budget, total.Settlement)
	return total
}

type settlementReport struct {
	Incomes      []SettlementRow `json:"incomes"`
	IncomeTotal  SettlementTotal `json:"incomeTotal"`
	Expenses     []SettlementRow `json:"expenses"`
	ExpenseTotal SettlementTotal `json:"expenseTotal"`
}

func loadSettlementReport(c *gin.Context) (*settlementReport, *models.Budget, bool) {
	var query struct {
		OrganizationID uint   `form:"organization_id" binding:"required"`
		Year           int    `form:"year" binding:"required"`
		Half           string `form:"half" binding:"required,oneof=spring fall"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	if !canAccessOrganization(c, query.OrganizationID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No access to this organization"})
		return nil, nil, false
	}

	var budget models.Budget
	err := config.DB.Where("organization_id = ? AND year = ? AND half = ?",
		query.OrganizationID, query.Year, query.Half).First(&budget).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found for this period"})
		return nil, nil, false
	}

	var incomeRows []SettlementRow
	err = config.DB.Table("incomes").
		Select("incomes.id as item_id, incomes.code, incomes.source, incomes.category, incomes.content, incomes.amount as budget, COALESCE(SUM(transactions.amount), 0) as settlement").
		Joins("LEFT JOIN transactions ON transactions.income_id = incomes.id AND transactions.deleted_at IS NULL").
		Where("incomes.budget_id = ? AND incomes.deleted_at IS NULL", budget.ID).
		Group("incomes.id").
		Order("incomes.code asc").
		Scan(&incomeRows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not aggregate income settlement"})
		return nil, nil, false
	}

	var expenseRows []SettlementRow
	err = config.DB.Table("expenses").
		Select("expenses.id as item_id, expenses.code, expenses.source, expenses.category, expenses.project, expenses.content, expenses.amount as budget, COALESCE(SUM(transactions.amount), 0) as settlement").
		Joins("LEFT JOIN transactions ON transactions.expense_id = expenses.id AND transactions.deleted_at IS NULL").
		Where("expenses.budget_id = ? AND expenses.deleted_at IS NULL", budget.ID).
		Group("expenses.id").
		Order("expenses.code asc").
		Scan(&expenseRows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not aggregate expense settlement"})
		return nil, nil, false
	}

	if incomeRows == nil {
		incomeRows = make([]SettlementRow, 0)
	}
	if expenseRows == nil {
		expenseRows = make([]SettlementRow, 0)
	}
	for i := range incomeRows {
		incomeRows[i].Ratio = settlementRatio(incomeRows[i].Budget, incomeRows[i].Settlement)
	}
	for i := range expenseRows {
		expenseRows[i].Ratio = settlementRatio(expenseRows[i].Budget, expenseRows[i].Settlement)
	}

	report := &settlementReport{
		Incomes:      incomeRows,
		IncomeTotal:  settlementTotal(incomeRows),
		Expenses:     expenseRows,
		ExpenseTotal: settlementTotal(expenseRows),
	}
	return report, &budget, true
}

// GetSettlementReportHandler returns the budgeted-vs-executed tables for one
// organization's audit period.
func GetSettlementReportHandler(c *gin.Context) {
	report, _, ok := loadSettlementReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportSettlementReportHandler streams the settlement report as an xlsx
// workbook with one sheet per table.
func ExportSettlementReportHandler(c *gin.Context) {
	report, budget, ok := loadSettlementReport(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	writeSettlementSheet(f, "Income", report.Incomes, report.IncomeTotal, false)
	writeSettlementSheet(f, "Expense", report.Expenses, report.ExpenseTotal, true)
	f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("settlement_%d_%s_%s.xlsx", budget.Year, budget.Half, time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not write report file"})
	}
}

func writeSettlementSheet(f *excelize.File, sheetName string, rows []SettlementRow, total SettlementTotal, withProject bool) {
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)

	headers := []string{"Code", "Source", "Category", "Content", "Budgeted", "Executed", "Ratio"}
	if withProject {
		headers = []string{"Code", "Source", "Category", "Project", "Content", "Budgeted", "Executed", "Ratio"}
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, row := range rows {
		values := []interface{}{row.Code, row.Source, row.Category, row.Content, row.Budget, row.Settlement, row.Ratio}
		if withProject {
			values = []interface{}{row.Code, row.Source, row.Category, row.Project, row.Content, row.Budget, row.Settlement, row.Ratio}
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	totalRow := len(rows) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalRow), "Total")
	offset := 5
	if withProject {
		offset = 6
	}
	for j, v := range []interface{}{total.Budget, total.Settlement, total.Ratio} {
		cell, _ := excelize.CoordinatesToCellName(offset+j, totalRow)
		f.SetCellValue(sheetName, cell, v)
	}
}
