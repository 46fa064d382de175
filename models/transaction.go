package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction is one movement on an organization's bank account, linked to
// exactly one budgeted income or expense item. Amount is the unsigned
// magnitude as entered; Balance is the stored running balance of the account
// (cumulative signed sum up to and including this entry), maintained by the
// ledger service.
type Transaction struct {
	gorm.Model
	Amount        int64     `json:"amount" gorm:"not null"`
	Balance       int64     `json:"balance" gorm:"not null"`
	TransactionAt time.Time `json:"transactionAt" gorm:"not null;index"`
	ProjectAt     *time.Time `json:"projectAt"`

	AccountNumber string `json:"accountNumber" gorm:"not null;index"`
	AccountBank   string `json:"accountBank"`
	AccountOwner  string `json:"accountOwner"`

	ReceivingAccountNumber string `json:"receivingAccountNumber"`
	ReceivingAccountBank   string `json:"receivingAccountBank"`
	ReceivingAccountOwner  string `json:"receivingAccountOwner"`

	Manager string `json:"manager"`
	Content string `json:"content"`
	Note    string `json:"note"`
	HasBill bool   `json:"hasBill"`

	// Exactly one of IncomeID/ExpenseID is set; the link determines the sign
	// of the contribution (+amount for income, -amount for expense).
	IncomeID  *uint    `json:"incomeId" gorm:"index"`
	Income    *Income  `json:"income,omitempty" gorm:"foreignKey:IncomeID"`
	ExpenseID *uint    `json:"expenseId" gorm:"index"`
	Expense   *Expense `json:"expense,omitempty" gorm:"foreignKey:ExpenseID"`

	Receipts []Receipt `json:"receipts,omitempty" gorm:"foreignKey:TransactionID"`
}

// SignedAmount is +Amount for income-linked entries and -Amount for
// expense-linked ones.
func (t *Transaction) SignedAmount() int64 {
	if t.IncomeID != nil {
		return t.Amount
	}
	return -t.Amount
}
