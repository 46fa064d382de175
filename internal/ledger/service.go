package ledger

import (
	"context"
	"time"

	"bai-backend/models"
)

// Service maintains the running-balance invariant of every account scope:
// ordered by transaction date (creation order among same-date entries), each
// stored balance equals the previous balance plus the entry's signed amount.
// Every mutation runs under a per-scope lock and inside one store
// transaction.
type Service struct {
	store  TransactionStore
	locker ScopeLocker
}

func NewService(store TransactionStore, locker ScopeLocker) *Service {
	return &Service{store: store, locker: locker}
}

// Create inserts a new transaction, computes its balance from the latest
// strictly-earlier entry in the same account scope and shifts every
// strictly-later balance by the new signed amount.
func (s *Service) Create(ctx context.Context, draft *models.Transaction) (*models.Transaction, error) {
	link, err := LinkFromIDs(draft.IncomeID, draft.ExpenseID)
	if err != nil {
		return nil, err
	}

	budgetScope, err := s.store.ResolveBudgetScope(ctx, link)
	if err != nil {
		return nil, err
	}
	scope := Scope{BudgetScope: budgetScope, AccountNumber: draft.AccountNumber}

	release, err := s.locker.Lock(ctx, scope.LockKey())
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.store.WithinTx(ctx, func(store TransactionStore) error {
		history, err := store.FindByAccountScope(ctx, scope)
		if err != nil {
			return err
		}

		signed := link.Sign() * draft.Amount
		draft.Balance = priorBalance(history, draft.TransactionAt) + signed

		for i := range history {
			if history[i].TransactionAt.After(draft.TransactionAt) {
				if err := store.UpdateBalance(ctx, history[i].ID, history[i].Balance+signed); err != nil {
					return err
				}
			}
		}
		return store.Create(ctx, draft)
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// Update applies a patch to an existing transaction. Patches that touch none
// of amount/date/link are written directly; otherwise the old contribution is
// undone, the new balance is computed against the adjusted chain and the new
// contribution is propagated to every later entry.
func (s *Service) Update(ctx context.Context, id uint, patch *Patch) error {
	if patch.IncomeID != nil && patch.ExpenseID != nil {
		return ErrLinkConflict
	}

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !patch.touchesBalance() {
		return s.store.Update(ctx, id, patch.fields())
	}

	oldLink, err := LinkFromIDs(existing.IncomeID, existing.ExpenseID)
	if err != nil {
		return err
	}
	newLink := oldLink
	if patch.IncomeID != nil {
		newLink = IncomeLink(*patch.IncomeID)
	} else if patch.ExpenseID != nil {
		newLink = ExpenseLink(*patch.ExpenseID)
	}

	budgetScope, err := s.store.ResolveBudgetScope(ctx, newLink)
	if err != nil {
		return err
	}
	accountNumber := existing.AccountNumber
	if patch.AccountNumber != nil {
		accountNumber = *patch.AccountNumber
	}
	scope := Scope{BudgetScope: budgetScope, AccountNumber: accountNumber}

	release, err := s.locker.Lock(ctx, scope.LockKey())
	if err != nil {
		return err
	}
	defer release()

	oldSigned := oldLink.Sign() * existing.Amount
	newAmount := existing.Amount
	if patch.Amount != nil {
		newAmount = *patch.Amount
	}
	newSigned := newLink.Sign() * newAmount
	newAt := existing.TransactionAt
	if patch.TransactionAt != nil {
		newAt = *patch.TransactionAt
	}

	return s.store.WithinTx(ctx, func(store TransactionStore) error {
		fetched, err := store.FindByAccountScope(ctx, scope)
		if err != nil {
			return err
		}
		history := make([]models.Transaction, 0, len(fetched))
		origBalances := make([]int64, 0, len(fetched))
		for _, t := range fetched {
			if t.ID != id {
				history = append(history, t)
				origBalances = append(origBalances, t.Balance)
			}
		}

		// Undo the old contribution, then inject the new one. Balances are
		// adjusted in memory first so the prior balance for the new date is
		// read from the already-corrected chain.
		for i := range history {
			if history[i].TransactionAt.After(existing.TransactionAt) {
				history[i].Balance -= oldSigned
			}
		}
		newBalance := priorBalance(history, newAt) + newSigned
		for i := range history {
			if history[i].TransactionAt.After(newAt) {
				history[i].Balance += newSigned
			}
		}

		for i := range history {
			if history[i].Balance != origBalances[i] {
				if err := store.UpdateBalance(ctx, history[i].ID, history[i].Balance); err != nil {
					return err
				}
			}
		}

		fields := patch.fields()
		fields["balance"] = newBalance
		return store.Update(ctx, id, fields)
	})
}

// Delete removes a transaction and subtracts its signed amount from every
// strictly-later balance in the scope, keeping the chain consistent.
func (s *Service) Delete(ctx context.Context, id uint) error {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	link, err := LinkFromIDs(existing.IncomeID, existing.ExpenseID)
	if err != nil {
		return err
	}

	budgetScope, err := s.store.ResolveBudgetScope(ctx, link)
	if err != nil {
		return err
	}
	scope := Scope{BudgetScope: budgetScope, AccountNumber: existing.AccountNumber}

	release, err := s.locker.Lock(ctx, scope.LockKey())
	if err != nil {
		return err
	}
	defer release()

	signed := link.Sign() * existing.Amount
	return s.store.WithinTx(ctx, func(store TransactionStore) error {
		history, err := store.FindByAccountScope(ctx, scope)
		if err != nil {
			return err
		}
		for i := range history {
			if history[i].ID == id {
				continue
			}
			if history[i].TransactionAt.After(existing.TransactionAt) {
				if err := store.UpdateBalance(ctx, history[i].ID, history[i].Balance-signed); err != nil {
					return err
				}
			}
		}
		return store.Delete(ctx, id)
	})
}

// priorBalance returns the balance of the latest entry dated strictly before
// t, or 0 for the earliest entry of a scope. history must be ordered by
// transaction date ascending with ties in creation order; among equal dates
// the last fetched entry wins.
func priorBalance(history []models.Transaction, t time.Time) int64 {
	var balance int64
	for i := range history {
		if history[i].TransactionAt.Before(t) {
			balance = history[i].Balance
		}
	}
	return balance
}

// Patch is a partial update of a transaction. Nil fields are untouched.
type Patch struct {
	Amount        *int64
	TransactionAt *time.Time
	ProjectAt     *time.Time
	IncomeID      *uint
	ExpenseID     *uint

	AccountNumber *string
	AccountBank   *string
	AccountOwner  *string

	ReceivingAccountNumber *string
	ReceivingAccountBank   *string
	ReceivingAccountOwner  *string

	Manager *string
	Content *string
	Note    *string
	HasBill *bool
}

// touchesBalance reports whether the patch can invalidate the balance chain.
func (p *Patch) touchesBalance() bool {
	return p.Amount != nil || p.TransactionAt != nil || p.IncomeID != nil || p.ExpenseID != nil
}

// fields builds the column map persisted by the store. Re-linking to an
// income clears the expense reference and vice versa.
func (p *Patch) fields() map[string]any {
	fields := make(map[string]any)
	if p.Amount != nil {
		fields["amount"] = *p.Amount
	}
	if p.TransactionAt != nil {
		fields["transaction_at"] = *p.TransactionAt
	}
	if p.ProjectAt != nil {
		fields["project_at"] = *p.ProjectAt
	}
	if p.IncomeID != nil {
		fields["income_id"] = *p.IncomeID
		fields["expense_id"] = nil
	}
	if p.ExpenseID != nil {
		fields["expense_id"] = *p.ExpenseID
		fields["income_id"] = nil
	}
	if p.AccountNumber != nil {
		fields["account_number"] = *p.AccountNumber
	}
	if p.AccountBank != nil {
		fields["account_bank"] = *p.AccountBank
	}
	if p.AccountOwner != nil {
		fields["account_owner"] = *p.AccountOwner
	}
	if p.ReceivingAccountNumber != nil {
		fields["receiving_account_number"] = *p.ReceivingAccountNumber
	}
	if p.ReceivingAccountBank != nil {
		fields["receiving_account_bank"] = *p.ReceivingAccountBank
	}
	if p.ReceivingAccountOwner != nil {
		fields["receiving_account_owner"] = *p.ReceivingAccountOwner
	}
	if p.Manager != nil {
		fields["manager"] = *p.Manager
	}
	if p.Content != nil {
		fields["content"] = *p.Content
	}
	if p.Note != nil {
		fields["note"] = *p.Note
	}
	if p.HasBill != nil {
		fields["has_bill"] = *p.HasBill
	}
	return fields
}
