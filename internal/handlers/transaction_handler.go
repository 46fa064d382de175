package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bai-backend/config"
	"bai-backend/internal/ledger"
	"bai-backend/models"
)

// TransactionInput defines the payload for recording a movement on an
// organization's bank account. Exactly one of incomeId/expenseId must be set.
type TransactionInput struct {
	Amount        *int64     `json:"amount" binding:"required,gte=0"`
	TransactionAt time.Time  `json:"transactionAt" binding:"required"`
	ProjectAt     *time.Time `json:"projectAt"`

	AccountNumber string `json:"accountNumber" binding:"required"`
	AccountBank   string `json:"accountBank"`
	AccountOwner  string `json:"accountOwner"`

	ReceivingAccountNumber string `json:"receivingAccountNumber"`
	ReceivingAccountBank   string `json:"receivingAccountBank"`
	ReceivingAccountOwner  string `json:"receivingAccountOwner"`

	IncomeID  *uint `json:"incomeId"`
	ExpenseID *uint `json:"expenseId"`

	Manager string `json:"manager"`
	Content string `json:"content"`
	Note    string `json:"note"`
	HasBill bool   `json:"hasBill"`
}

// budgetOfLink resolves the income/expense reference to its budget for the
// access and audit-period checks. The ledger re-resolves the scope itself;
// this is only the authorization view of the same walk.
func budgetOfLink(incomeID, expenseID *uint) (*models.Budget, bool) {
	var budgetID uint
	if incomeID != nil {
		var income models.Income
		if err := config.DB.First(&income, *incomeID).Error; err != nil {
			return nil, false
		}
		budgetID = income.BudgetID
	} else if expenseID != nil {
		var expense models.Expense
		if err := config.DB.First(&expense, *expenseID).Error; err != nil {
			return nil, false
		}
		budgetID = expense.BudgetID
	} else {
		return nil, false
	}

	var budget models.Budget
	if err := config.DB.First(&budget, budgetID).Error; err != nil {
		return nil, false
	}
	return &budget, true
}

// CreateTransactionHandler records a transaction through the ledger service,
// which computes its balance and shifts every later entry in the account.
func CreateTransactionHandler(c *gin.Context) {
	var input TransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if budget, ok := budgetOfLink(input.IncomeID, input.ExpenseID); ok {
		if !canAccessOrganization(c, budget.OrganizationID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "No access to this organization"})
			return
		}
		if !ensureAuditPeriod(c, budget.Year, budget.Half) {
			return
		}
	}
	// An unresolvable or missing link falls through: the ledger reports it
	// as NotFound / BadRequest with the precise reason.

	draft := &models.Transaction{
		Amount:                 *input.Amount,
		TransactionAt:          input.TransactionAt,
		ProjectAt:              input.ProjectAt,
		AccountNumber:          input.AccountNumber,
		AccountBank:            input.AccountBank,
		AccountOwner:           input.AccountOwner,
		ReceivingAccountNumber: input.ReceivingAccountNumber,
		ReceivingAccountBank:   input.ReceivingAccountBank,
		ReceivingAccountOwner:  input.ReceivingAccountOwner,
		IncomeID:               input.IncomeID,
		ExpenseID:              input.ExpenseID,
		Manager:                input.Manager,
		Content:                input.Content,
		Note:                   input.Note,
		HasBill:                input.HasBill,
	}

	created, err := Ledger.Create(c.Request.Context(), draft)
	if err != nil {
		ledgerErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// accountGroup is one bank account's history within the requested period.
type accountGroup struct {
	AccountNumber string               `json:"accountNumber"`
	AccountBank   string               `json:"accountBank"`
	AccountOwner  string               `json:"accountOwner"`
	Balance       int64                `json:"balance"`
	Transactions  []models.Transaction `json:"transactions"`
}

// ListTransactionsHandler returns the period's transactions grouped per
// account, ordered by transaction date (most recently updated first among
// same-date entries).
func ListTransactionsHandler(c *gin.Context) {
	var query struct {
		OrganizationID uint   `form:"organization_id" binding:"required"`
		Year           int    `form:"year" binding:"required"`
		Half           string `form:"half" binding:"required,oneof=spring fall"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !canAccessOrganization(c, query.OrganizationID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No access to this organization"})
		return
	}

	var txs []models.Transaction
	err := config.DB.
		Joins("LEFT JOIN incomes ON incomes.id = transactions.income_id").
		Joins("LEFT JOIN expenses ON expenses.id = transactions.expense_id").
		Joins("JOIN budgets ON budgets.id = COALESCE(incomes.budget_id, expenses.budget_id)").
		Where("budgets.organization_id = ? AND budgets.year = ? AND budgets.half = ?",
			query.OrganizationID, query.Year, query.Half).
		Order("transactions.transaction_at asc, transactions.updated_at desc").
		Preload("Receipts").
		Find(&txs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch transactions"})
		return
	}

	groups := make([]*accountGroup, 0)
	byAccount := make(map[string]*accountGroup)
	for _, tx := range txs {
		group, ok := byAccount[tx.AccountNumber]
		if !ok {
			group = &accountGroup{
				AccountNumber: tx.AccountNumber,
				AccountBank:   tx.AccountBank,
				AccountOwner:  tx.AccountOwner,
			}
			byAccount[tx.AccountNumber] = group
			groups = append(groups, group)
		}
		group.Transactions = append(group.Transactions, tx)
		group.Balance = tx.Balance
	}

	c.JSON(http.StatusOK, gin.H{"accounts": groups})
}

// TransactionPatchInput defines the partial-update payload. Absent fields are
// left untouched.
type TransactionPatchInput struct {
	Amount        *int64     `json:"amount" binding:"omitempty,gte=0"`
	TransactionAt *time.Time `json:"transactionAt"`
	ProjectAt     *time.Time `json:"projectAt"`

	AccountNumber *string `json:"accountNumber"`
	AccountBank   *string `json:"accountBank"`
	AccountOwner  *string `json:"accountOwner"`

	ReceivingAccountNumber *string `json:"receivingAccountNumber"`
	ReceivingAccountBank   *string `json:"receivingAccountBank"`
	ReceivingAccountOwner  *string `json:"receivingAccountOwner"`

	IncomeID  *uint `json:"incomeId"`
	ExpenseID *uint `json:"expenseId"`

	Manager *string `json:"manager"`
	Content *string `json:"content"`
	Note    *string `json:"note"`
	HasBill *bool   `json:"hasBill"`
}

func (in *TransactionPatchInput) toPatch() *ledger.Patch {
	return &ledger.Patch{
		Amount:                 in.Amount,
		TransactionAt:          in.TransactionAt,
		ProjectAt:              in.ProjectAt,
		IncomeID:               in.IncomeID,
		ExpenseID:              in.ExpenseID,
		AccountNumber:          in.AccountNumber,
		AccountBank:            in.AccountBank,
		AccountOwner:           in.AccountOwner,
		ReceivingAccountNumber: in.ReceivingAccountNumber,
		ReceivingAccountBank:   in.ReceivingAccountBank,
		ReceivingAccountOwner:  in.ReceivingAccountOwner,
		Manager:                in.Manager,
		Content:                in.Content,
		Note:                   in.Note,
		HasBill:                in.HasBill,
	}
}

// loadTransactionForWrite fetches the transaction and runs the access and
// audit-period checks against the budget it currently belongs to.
func loadTransactionForWrite(c *gin.Context) (*models.Transaction, bool) {
	var tx models.Transaction
	if err := config.DB.First(&tx, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return nil, false
	}

	budget, ok := budgetOfLink(tx.IncomeID, tx.ExpenseID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Referenced budget item not found"})
		return nil, false
	}
	if !canAccessOrganization(c, budget.OrganizationID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No access to this organization"})
		return nil, false
	}
	if !ensureAuditPeriod(c, budget.Year, budget.Half) {
		return nil, false
	}
	return &tx, true
}

// UpdateTransactionHandler patches a transaction through the ledger service.
func UpdateTransactionHandler(c *gin.Context) {
	var input TransactionPatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, ok := loadTransactionForWrite(c)
	if !ok {
		return
	}

	if err := Ledger.Update(c.Request.Context(), tx.ID, input.toPatch()); err != nil {
		ledgerErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction updated"})
}

// DeleteTransactionHandler deletes a transaction; the ledger shifts every
// later balance in the account so the chain stays consistent.
func DeleteTransactionHandler(c *gin.Context) {
	tx, ok := loadTransactionForWrite(c)
	if !ok {
		return
	}

	if err := Ledger.Delete(c.Request.Context(), tx.ID); err != nil {
		ledgerErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}
