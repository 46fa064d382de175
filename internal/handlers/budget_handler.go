package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bai-backend/config"
	"bai-backend/models"
)

// BudgetInput defines the payload for opening a budget for an audit period.
type BudgetInput struct {
	OrganizationID uint   `json:"organizationId" binding:"required"`
	Year           int    `json:"year" binding:"required"`
	Half           string `json:"half" binding:"required,oneof=spring fall"`
	Manager        string `json:"manager"`
}

// CreateBudgetHandler opens an organization's budget for a year/half.
func CreateBudgetHandler(c *gin.Context) {
	var input BudgetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !canAccessOrganization(c, input.OrganizationID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No access to this organization"})
		return
	}
	if !ensureAuditPeriod(c, input.Year, input.Half) {
		return
	}

	budget := models.Budget{
		OrganizationID: input.OrganizationID,
		Year:           input.Year,
		Half:           input.Half,
		Manager:        input.Manager,
	}
	if err := config.DB.Create(&budget).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A budget for this organization and period already exists"})
		return
	}
	c.JSON(http.StatusCreated, budget)
}

// ListBudgetsHandler returns budgets filtered by organization/year/half.
// Non-admin users only see their own organization.
func ListBudgetsHandler(c *gin.Context) {
	query := config.DB.Model(&models.Budget{}).Order("year desc, half asc")

	if orgID := c.Query("organization_id"); orgID != "" {
		query = query.Where("organization_id = ?", orgID)
	} else if currentRole(c) != models.RoleAdmin {
		orgID, exists := c.Get("organization_id")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "No organization bound to this account"})
			return
		}
		query = query.Where("organization_id = ?", orgID)
	}
	if year := c.Query("year"); year != "" {
		query = query.Where("year = ?", year)
	}
	if half := c.Query("half"); half != "" {
		query = query.Where("half = ?", half)
	}

	var budgets []models.Budget
	if err := query.Find(&budgets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch budgets"})
		return
	}
	for _, b := range budgets {
		if !canAccessOrganization(c, b.OrganizationID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "No access to this organization"})
			return
		}
	}
	c.JSON(http.StatusOK, budgets)
}

// GetBudgetHandler returns one budget with its income and expense items.
func GetBudgetHandler(c *gin.Context) {
	var budget models.Budget
	if err := config.DB.Preload("Incomes").Preload("Expenses").First(&budget, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return
	}
	if !canAccessOrganization(c, budget.OrganizationID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No access to this organization"})
		return
	}
	c.JSON(http.StatusOK, budget)
}

// DeleteBudgetHandler removes a budget with no recorded transactions.
func DeleteBudgetHandler(c *gin.Context) {
	var budget models.Budget
	if err := config.DB.First(&budget, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return
	}
	if !canAccessOrganization(c, budget.OrganizationID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No access to this organization"})
		return
	}
	if !ensureAuditPeriod(c, budget.Year, budget.Half) {
		return
	}

	var count int64
	err := config.DB.Model(&models.Transaction{}).
		Joins("LEFT JOIN incomes ON incomes.id = transactions.income_id").
		Joins("LEFT JOIN expenses ON expenses.id = transactions.expense_id").
		Where("incomes.budget_id = ? OR expenses.budget_id = ?", budget.ID, budget.ID).
		Count(&count).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not check related transactions"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Budget has recorded transactions and cannot be deleted"})
		return
	}

	config.DB.Where("budget_id = ?", budget.ID).Delete(&models.Income{})
	config.DB.Where("budget_id = ?", budget.ID).Delete(&models.Expense{})
	if err := config.DB.Delete(&budget).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete budget"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted"})
}

// LineItemInput defines the payload for a budgeted income or expense item.
type LineItemInput struct {
	Code     string `json:"code" binding:"required"`
	Source   string `json:"source" binding:"required"`
	Category string `json:"category" binding:"required"`
	Project  string `json:"project"`
	Content  string `json:"content" binding:"required"`
	Amount   *int64 `json:"amount" binding:"required,gte=0"`
	Note     string `json:"note"`
}

// loadBudgetForWrite fetches the budget and runs the access and audit-period
// checks shared by every line-item mutation.
func loadBudgetForWrite(c *gin.Context, budgetID any) (*models.Budget, bool) {
	var budget models.Budget
	if err := config.DB.First(&budget, budgetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return nil, false
	}
	if !canAccessOrganization(c, budget.OrganizationID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No access to this organization"})
		return nil, false
	}
	if !ensureAuditPeriod(c, budget.Year, budget.Half) {
		return nil, false
	}
	return &budget, true
}

// CreateIncomeHandler adds an income line item to a budget.
func CreateIncomeHandler(c *gin.Context) {
	var input LineItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	budget, ok := loadBudgetForWrite(c, c.Param("id"))
	if !ok {
		return
	}

	income := models.Income{
		BudgetID: budget.ID,
		Code:     input.Code,
		Source:   input.Source,
		Category: input.Category,
		Content:  input.Content,
		Amount:   *input.Amount,
		Note:     input.Note,
	}
	if err := config.DB.Create(&income).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create income item"})
		return
	}
	c.JSON(http.StatusCreated, income)
}

// CreateExpenseHandler adds an expense line item to a budget.
func CreateExpenseHandler(c *gin.Context) {
	var input LineItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	budget, ok := loadBudgetForWrite(c, c.Param("id"))
	if !ok {
		return
	}

	expense := models.Expense{
		BudgetID: budget.ID,
		Code:     input.Code,
		Source:   input.Source,
		Category: input.Category,
		Project:  input.Project,
		Content:  input.Content,
		Amount:   *input.Amount,
		Note:     input.Note,
	}
	if err := config.DB.Create(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create expense item"})
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// UpdateIncomeHandler updates an income line item.
func UpdateIncomeHandler(c *gin.Context) {
	var income models.Income
	if err := config.DB.First(&income, c.Param("itemId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Income item not found"})
		return
	}
	if _, ok := loadBudgetForWrite(c, income.BudgetID); !ok {
		return
	}

	var input LineItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	income.Code = input.Code
	income.Source = input.Source
	income.Category = input.Category
	income.Content = input.Content
	income.Amount = *input.Amount
	income.Note = input.Note
	if err := config.DB.Save(&income).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update income item"})
		return
	}
	c.JSON(http.StatusOK, income)
}

// UpdateExpenseHandler updates an expense line item.
func UpdateExpenseHandler(c *gin.Context) {
	var expense models.Expense
	if err := config.DB.First(&expense, c.Param("itemId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense item not found"})
		return
	}
	if _, ok := loadBudgetForWrite(c, expense.BudgetID); !ok {
		return
	}

	var input LineItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	expense.Code = input.Code
	expense.Source = input.Source
	expense.Category = input.Category
	expense.Project = input.Project
	expense.Content = input.Content
	expense.Amount = *input.Amount
	expense.Note = input.Note
	if err := config.DB.Save(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update expense item"})
		return
	}
	c.JSON(http.StatusOK, expense)
}

// DeleteIncomeHandler removes an income line item with no transactions.
func DeleteIncomeHandler(c *gin.Context) {
	var income models.Income
	if err := config.DB.First(&income, c.Param("itemId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Income item not found"})
		return
	}
	if _, ok := loadBudgetForWrite(c, income.BudgetID); !ok {
		return
	}

	var count int64
	if err := config.DB.Model(&models.Transaction{}).Where("income_id = ?", income.ID).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not check related transactions"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Income item has recorded transactions and cannot be deleted"})
		return
	}

	if err := config.DB.Delete(&income).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete income item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Income item deleted"})
}

// DeleteExpenseHandler removes an expense line item with no transactions.
func DeleteExpenseHandler(c *gin.Context) {
	var expense models.Expense
	if err := config.DB.First(&expense, c.Param("itemId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense item not found"})
		return
	}
	if _, ok := loadBudgetForWrite(c, expense.BudgetID); !ok {
		return
	}

	var count int64
	if err := config.DB.Model(&models.Transaction{}).Where("expense_id = ?", expense.ID).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not check related transactions"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Expense item has recorded transactions and cannot be deleted"})
		return
	}

	if err := config.DB.Delete(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete expense item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense item deleted"})
}
