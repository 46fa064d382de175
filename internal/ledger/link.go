package ledger

import "fmt"

type linkKind int

const (
	linkIncome linkKind = iota + 1
	linkExpense
)

// Link ties a transaction to exactly one budget line item, either an income
// or an expense. The kind decides the sign of the transaction's contribution
// to the account balance. Constructing a Link through LinkFromIDs enforces
// the mutual-exclusion rule.
type Link struct {
	kind linkKind
	id   uint
}

func IncomeLink(id uint) Link  { return Link{kind: linkIncome, id: id} }
func ExpenseLink(id uint) Link { return Link{kind: linkExpense, id: id} }

// LinkFromIDs validates the raw nullable foreign keys as they arrive from a
// request or a stored row.
func LinkFromIDs(incomeID, expenseID *uint) (Link, error) {
	switch {
	case incomeID != nil && expenseID != nil:
		return Link{}, ErrLinkConflict
	case incomeID != nil:
		return IncomeLink(*incomeID), nil
	case expenseID != nil:
		return ExpenseLink(*expenseID), nil
	default:
		return Link{}, ErrLinkMissing
	}
}

// Sign is +1 for income links and -1 for expense links.
func (l Link) Sign() int64 {
	if l.kind == linkIncome {
		return 1
	}
	return -1
}

func (l Link) IsIncome() bool { return l.kind == linkIncome }
func (l Link) ID() uint       { return l.id }

// BudgetScope is the audit-period scope a budget line item belongs to.
type BudgetScope struct {
	OrganizationID uint
	Year           int
	Half           string
}

// Scope identifies one bank account's ledger: all transactions of an
// organization's audit period that share an account number.
type Scope struct {
	BudgetScope
	AccountNumber string
}

// LockKey is the Redis lock key serializing recomputation for this account.
func (s Scope) LockKey() string {
	return fmt.Sprintf("ledger:%d:%d:%s:%s", s.OrganizationID, s.Year, s.Half, s.AccountNumber)
}
