package models

import "gorm.io/gorm"

const (
	HalfSpring = "spring"
	HalfFall   = "fall"
)

// Budget is one organization's budget for an audit period (year + half).
type Budget struct {
	gorm.Model
	OrganizationID uint         `json:"organizationId" gorm:"not null;uniqueIndex:idx_budget_scope"`
	Organization   Organization `json:"-" gorm:"foreignKey:OrganizationID"`
	Year           int          `json:"year" gorm:"not null;uniqueIndex:idx_budget_scope"`
	Half           string       `json:"half" gorm:"not null;uniqueIndex:idx_budget_scope"`
	Manager        string       `json:"manager"`
	Incomes        []Income     `json:"incomes,omitempty" gorm:"foreignKey:BudgetID"`
	Expenses       []Expense    `json:"expenses,omitempty" gorm:"foreignKey:BudgetID"`
}

// Income is a budgeted income line item (membership fees, grants, carryover).
type Income struct {
	gorm.Model
	BudgetID uint   `json:"budgetId" gorm:"not null;index"`
	Budget   Budget `json:"-" gorm:"foreignKey:BudgetID"`
	Code     string `json:"code"`
	Source   string `json:"source"`
	Category string `json:"category"`
	Content  string `json:"content"`
	Amount   int64  `json:"amount" gorm:"not null"`
	Note     string `json:"note"`
}

// Expense is a budgeted expense line item.
type Expense struct {
	gorm.Model
	BudgetID uint   `json:"budgetId" gorm:"not null;index"`
	Budget   Budget `json:"-" gorm:"foreignKey:BudgetID"`
	Code     string `json:"code"`
	Source   string `json:"source"`
	Category string `json:"category"`
	Project  string `json:"project"`
	Content  string `json:"content"`
	Amount   int64  `json:"amount" gorm:"not null"`
	Note     string `json:"note"`
}
