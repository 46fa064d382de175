package ledger

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bai-backend/models"
)

// TransactionStore is the persistence surface the ledger needs. The gorm
// implementation below is the real one; tests use an in-memory fake.
type TransactionStore interface {
	// WithinTx runs fn inside one atomic store transaction so a failed
	// recomputation never leaves a half-updated chain behind.
	WithinTx(ctx context.Context, fn func(TransactionStore) error) error

	FindByID(ctx context.Context, id uint) (*models.Transaction, error)
	// FindByAccountScope returns every transaction of the scope ordered by
	// transaction date ascending, ties broken by creation order.
	FindByAccountScope(ctx context.Context, scope Scope) ([]models.Transaction, error)
	// ResolveBudgetScope follows the link through its budget to the owning
	// organization/year/half.
	ResolveBudgetScope(ctx context.Context, link Link) (BudgetScope, error)
	UpdateBalance(ctx context.Context, id uint, balance int64) error
	Create(ctx context.Context, tx *models.Transaction) error
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

// GormStore implements TransactionStore on a gorm connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) WithinTx(ctx context.Context, fn func(TransactionStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) FindByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (s *GormStore) FindByAccountScope(ctx context.Context, scope Scope) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.WithContext(ctx).
		Joins("LEFT JOIN incomes ON incomes.id = transactions.income_id").
		Joins("LEFT JOIN expenses ON expenses.id = transactions.expense_id").
		Joins("JOIN budgets ON budgets.id = COALESCE(incomes.budget_id, expenses.budget_id)").
		Where("budgets.organization_id = ? AND budgets.year = ? AND budgets.half = ?",
			scope.OrganizationID, scope.Year, scope.Half).
		Where("transactions.account_number = ?", scope.AccountNumber).
		Order("transactions.transaction_at asc, transactions.id asc").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *GormStore) ResolveBudgetScope(ctx context.Context, link Link) (BudgetScope, error) {
	var budgetID uint
	if link.IsIncome() {
		var income models.Income
		if err := s.db.WithContext(ctx).First(&income, link.ID()).Error; err != nil {
			return BudgetScope{}, notFoundOr(err)
		}
		budgetID = income.BudgetID
	} else {
		var expense models.Expense
		if err := s.db.WithContext(ctx).First(&expense, link.ID()).Error; err != nil {
			return BudgetScope{}, notFoundOr(err)
		}
		budgetID = expense.BudgetID
	}

	var budget models.Budget
	if err := s.db.WithContext(ctx).First(&budget, budgetID).Error; err != nil {
		return BudgetScope{}, notFoundOr(err)
	}
	return BudgetScope{
		OrganizationID: budget.OrganizationID,
		Year:           budget.Year,
		Half:           budget.Half,
	}, nil
}

func (s *GormStore) UpdateBalance(ctx context.Context, id uint, balance int64) error {
	return s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("balance", balance).Error
}

func (s *GormStore) Create(ctx context.Context, tx *models.Transaction) error {
	return s.db.WithContext(ctx).Create(tx).Error
}

func (s *GormStore) Update(ctx context.Context, id uint, fields map[string]any) error {
	return s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (s *GormStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Transaction{}, id).Error
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
