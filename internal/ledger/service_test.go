package ledger

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"bai-backend/models"
)

// fakeStore is an in-memory TransactionStore. Budgets and line items are
// seeded up front; transactions behave like rows with auto-assigned IDs.
type fakeStore struct {
	budgets  map[uint]BudgetScope // budget id -> scope
	incomes  map[uint]uint        // income id -> budget id
	expenses map[uint]uint        // expense id -> budget id

	txs    map[uint]*models.Transaction
	nextID uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		budgets:  make(map[uint]BudgetScope),
		incomes:  make(map[uint]uint),
		expenses: make(map[uint]uint),
		txs:      make(map[uint]*models.Transaction),
		nextID:   1,
	}
}

func (s *fakeStore) WithinTx(ctx context.Context, fn func(TransactionStore) error) error {
	return fn(s)
}

func (s *fakeStore) FindByID(ctx context.Context, id uint) (*models.Transaction, error) {
	tx, ok := s.txs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (s *fakeStore) FindByAccountScope(ctx context.Context, scope Scope) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range s.txs {
		link, err := LinkFromIDs(tx.IncomeID, tx.ExpenseID)
		if err != nil {
			return nil, err
		}
		bs, err := s.ResolveBudgetScope(ctx, link)
		if err != nil {
			return nil, err
		}
		if bs == scope.BudgetScope && tx.AccountNumber == scope.AccountNumber {
			out = append(out, *tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TransactionAt.Equal(out[j].TransactionAt) {
			return out[i].TransactionAt.Before(out[j].TransactionAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *fakeStore) ResolveBudgetScope(ctx context.Context, link Link) (BudgetScope, error) {
	var budgetID uint
	var ok bool
	if link.IsIncome() {
		budgetID, ok = s.incomes[link.ID()]
	} else {
		budgetID, ok = s.expenses[link.ID()]
	}
	if !ok {
		return BudgetScope{}, ErrNotFound
	}
	bs, ok := s.budgets[budgetID]
	if !ok {
		return BudgetScope{}, ErrNotFound
	}
	return bs, nil
}

func (s *fakeStore) UpdateBalance(ctx context.Context, id uint, balance int64) error {
	tx, ok := s.txs[id]
	if !ok {
		return ErrNotFound
	}
	tx.Balance = balance
	return nil
}

func (s *fakeStore) Create(ctx context.Context, tx *models.Transaction) error {
	tx.ID = s.nextID
	s.nextID++
	cp := *tx
	s.txs[tx.ID] = &cp
	return nil
}

func (s *fakeStore) Update(ctx context.Context, id uint, fields map[string]any) error {
	tx, ok := s.txs[id]
	if !ok {
		return ErrNotFound
	}
	for col, v := range fields {
		switch col {
		case "balance":
			tx.Balance = v.(int64)
		case "amount":
			tx.Amount = v.(int64)
		case "transaction_at":
			tx.TransactionAt = v.(time.Time)
		case "income_id":
			if v == nil {
				tx.IncomeID = nil
			} else {
				id := v.(uint)
				tx.IncomeID = &id
			}
		case "expense_id":
			if v == nil {
				tx.ExpenseID = nil
			} else {
				id := v.(uint)
				tx.ExpenseID = &id
			}
		case "account_number":
			tx.AccountNumber = v.(string)
		case "note":
			tx.Note = v.(string)
		case "content":
			tx.Content = v.(string)
		case "manager":
			tx.Manager = v.(string)
		case "has_bill":
			tx.HasBill = v.(bool)
		}
	}
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id uint) error {
	if _, ok := s.txs[id]; !ok {
		return ErrNotFound
	}
	delete(s.txs, id)
	return nil
}

const (
	testBudgetID  = uint(1)
	testIncomeID  = uint(10)
	testExpenseID = uint(20)
	testAccount   = "110-123-456789"
)

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	store.budgets[testBudgetID] = BudgetScope{OrganizationID: 1, Year: 2023, Half: models.HalfSpring}
	store.incomes[testIncomeID] = testBudgetID
	store.expenses[testExpenseID] = testBudgetID
	return NewService(store, NoopLocker{}), store
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func uintPtr(v uint) *uint    { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func incomeDraft(amount int64, at string) *models.Transaction {
	return &models.Transaction{
		Amount:        amount,
		TransactionAt: date(at),
		AccountNumber: testAccount,
		IncomeID:      uintPtr(testIncomeID),
	}
}

func expenseDraft(amount int64, at string) *models.Transaction {
	return &models.Transaction{
		Amount:        amount,
		TransactionAt: date(at),
		AccountNumber: testAccount,
		ExpenseID:     uintPtr(testExpenseID),
	}
}

func mustCreate(t *testing.T, svc *Service, draft *models.Transaction) *models.Transaction {
	t.Helper()
	created, err := svc.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

func balanceOf(t *testing.T, store *fakeStore, id uint) int64 {
	t.Helper()
	tx, ok := store.txs[id]
	if !ok {
		t.Fatalf("transaction %d not found", id)
	}
	return tx.Balance
}

// checkChain verifies the invariant: walking the scope in ledger order, each
// stored balance equals the running cumulative signed sum.
func checkChain(t *testing.T, store *fakeStore) {
	t.Helper()
	scope := Scope{
		BudgetScope:   BudgetScope{OrganizationID: 1, Year: 2023, Half: models.HalfSpring},
		AccountNumber: testAccount,
	}
	history, err := store.FindByAccountScope(context.Background(), scope)
	if err != nil {
		t.Fatalf("FindByAccountScope: %v", err)
	}
	var running int64
	for i, tx := range history {
		running += tx.SignedAmount()
		if tx.Balance != running {
			t.Errorf("chain broken at position %d (id %d): balance %d, cumulative sum %d",
				i, tx.ID, tx.Balance, running)
		}
	}
}

func TestCreateFirstTransaction(t *testing.T) {
	svc, store := newTestService()

	t1 := mustCreate(t, svc, incomeDraft(180000, "2023-03-01"))

	if t1.Balance != 180000 {
		t.Errorf("T1 balance = %d, want 180000", t1.Balance)
	}
	checkChain(t, store)
}

func TestCreateAppendsAfterHistory(t *testing.T) {
	svc, store := newTestService()

	t1 := mustCreate(t, svc, incomeDraft(180000, "2023-03-01"))
	t2 := mustCreate(t, svc, expenseDraft(50000, "2023-03-15"))

	if t2.Balance != 130000 {
		t.Errorf("T2 balance = %d, want 130000", t2.Balance)
	}
	if got := balanceOf(t, store, t1.ID); got != 180000 {
		t.Errorf("T1 balance changed to %d, want 180000", got)
	}
	checkChain(t, store)
}

func TestCreateInMiddleOfHistory(t *testing.T) {
	svc, store := newTestService()

	mustCreate(t, svc, incomeDraft(180000, "2023-03-01"))
	t2 := mustCreate(t, svc, expenseDraft(50000, "2023-03-15"))

	t3 := mustCreate(t, svc, incomeDraft(20000, "2023-03-10"))

	if t3.Balance != 200000 {
		t.Errorf("T3 balance = %d, want 200000", t3.Balance)
	}
	if got := balanceOf(t, store, t2.ID); got != 150000 {
		t.Errorf("T2 balance = %d, want 150000", got)
	}
	checkChain(t, store)
}

func TestUpdateAmount(t *testing.T) {
	svc, store := newTestService()

	t1 := mustCreate(t, svc, incomeDraft(180000, "2023-03-01"))
	t2 := mustCreate(t, svc, expenseDraft(50000, "2023-03-15"))
	t3 := mustCreate(t, svc, incomeDraft(20000, "2023-03-10"))
	t4 := mustCreate(t, svc, expenseDraft(10000, "2023-03-20"))

	if err := svc.Update(context.Background(), t2.ID, &Patch{Amount: int64Ptr(70000)}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := balanceOf(t, store, t2.ID); got != 130000 {
		t.Errorf("T2 balance = %d, want 130000", got)
	}
	if got := balanceOf(t, store, t1.ID); got != 180000 {
		t.Errorf("T1 balance = %d, want 180000", got)
	}
	if got := balanceOf(t, store, t3.ID); got != 200000 {
		t.Errorf("T3 balance = %d, want 200000", got)
	}
	// entries after T2 shift by -20000
	if got := balanceOf(t, store, t4.ID); got != 120000 {
		t.Errorf("T4 balance = %d, want 120000", got)
	}
	checkChain(t, store)
}

func TestUpdateMetadataOnlyLeavesBalancesAlone(t *testing.T) {
	svc, store := newTestService()

	t1 := mustCreate(t, svc, incomeDraft(180000, "2023-03-01"))
	t2 := mustCreate(t, svc, expenseDraft(50000, "2023-03-15"))

	patch := &Patch{Note: strPtr("settled with office"), Manager: strPtr("treasurer")}
	if err := svc.Update(context.Background(), t2.ID, patch); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := balanceOf(t, store, t1.ID); got != 180000 {
		t.Errorf("T1 balance = %d, want 180000", got)
	}
	if got := balanceOf(t, store, t2.ID); got != 130000 {
		t.Errorf("T2 balance = %d, want 130000", got)
	}
	if store.txs[t2.ID].Note != "settled with office" {
		t.Errorf("note not applied: %q", store.txs[t2.ID].Note)
	}
}

func TestUpdateDateMovesEntry(t *testing.T) {
	svc, store := newTestService()

	mustCreate(t, svc, incomeDraft(100000, "2023-03-01"))
	t2 := mustCreate(t, svc, expenseDraft(30000, "2023-03-05"))
	mustCreate(t, svc, incomeDraft(50000, "2023-03-10"))

	// Move T2 after the last entry.
	moved := date("2023-03-20")
	if err := svc.Update(context.Background(), t2.ID, &Patch{TransactionAt: &moved}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	checkChain(t, store)
	if got := balanceOf(t, store, t2.ID); got != 120000 {
		t.Errorf("T2 balance after move = %d, want 120000", got)
	}
}

func TestUpdateSignFlip(t *testing.T) {
	svc, store := newTestService()

	mustCreate(t, svc, incomeDraft(100000, "2023-03-01"))
	t2 := mustCreate(t, svc, expenseDraft(30000, "2023-03-05"))
	t3 := mustCreate(t, svc, expenseDraft(10000, "2023-03-10"))

	// Re-link T2 from an expense to an income: contribution flips from
	// -30000 to +30000.
	if err := svc.Update(context.Background(), t2.ID, &Patch{IncomeID: uintPtr(testIncomeID)}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := balanceOf(t, store, t2.ID); got != 130000 {
		t.Errorf("T2 balance = %d, want 130000", got)
	}
	if got := balanceOf(t, store, t3.ID); got != 120000 {
		t.Errorf("T3 balance = %d, want 120000", got)
	}
	if store.txs[t2.ID].ExpenseID != nil {
		t.Error("expense link not cleared after re-linking to an income")
	}
	checkChain(t, store)
}

func TestDeleteRecomputesLaterBalances(t *testing.T) {
	svc, store := newTestService()

	mustCreate(t, svc, incomeDraft(100000, "2023-03-01"))
	t2 := mustCreate(t, svc, expenseDraft(30000, "2023-03-05"))
	t3 := mustCreate(t, svc, incomeDraft(50000, "2023-03-10"))

	if err := svc.Delete(context.Background(), t2.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := store.txs[t2.ID]; ok {
		t.Fatal("transaction not deleted")
	}
	if got := balanceOf(t, store, t3.ID); got != 150000 {
		t.Errorf("T3 balance = %d, want 150000", got)
	}
	checkChain(t, store)
}

func TestSameDateTieBreakIsCreationOrder(t *testing.T) {
	svc, store := newTestService()

	t1 := mustCreate(t, svc, incomeDraft(100000, "2023-03-01"))
	t2 := mustCreate(t, svc, expenseDraft(30000, "2023-03-01"))

	// The second entry does not see the first as a prior (strictly earlier
	// dates only), so both balances are computed against a zero prior.
	if got := balanceOf(t, store, t1.ID); got != 100000 {
		t.Errorf("T1 balance = %d, want 100000", got)
	}
	if got := balanceOf(t, store, t2.ID); got != -30000 {
		t.Errorf("T2 balance = %d, want -30000", got)
	}

	// The fetch order among equal dates must be stable across reads.
	scope := Scope{
		BudgetScope:   BudgetScope{OrganizationID: 1, Year: 2023, Half: models.HalfSpring},
		AccountNumber: testAccount,
	}
	for i := 0; i < 5; i++ {
		history, err := store.FindByAccountScope(context.Background(), scope)
		if err != nil {
			t.Fatalf("FindByAccountScope: %v", err)
		}
		if history[0].ID != t1.ID || history[1].ID != t2.ID {
			t.Fatalf("unstable order on read %d: got [%d %d]", i, history[0].ID, history[1].ID)
		}
	}
}

func TestCreateSignCorrectness(t *testing.T) {
	svc, _ := newTestService()

	income := mustCreate(t, svc, incomeDraft(5000, "2023-04-01"))
	if income.Balance != 5000 {
		t.Errorf("income contribution = %d, want +5000", income.Balance)
	}

	expense := mustCreate(t, svc, expenseDraft(2000, "2023-04-02"))
	if expense.Balance != 3000 {
		t.Errorf("balance after expense = %d, want 3000", expense.Balance)
	}
}

func TestCreateRejectsBadLinks(t *testing.T) {
	svc, _ := newTestService()

	draft := incomeDraft(1000, "2023-03-01")
	draft.ExpenseID = uintPtr(testExpenseID)
	if _, err := svc.Create(context.Background(), draft); !errors.Is(err, ErrLinkConflict) {
		t.Errorf("both links: err = %v, want ErrLinkConflict", err)
	}

	draft = &models.Transaction{Amount: 1000, TransactionAt: date("2023-03-01"), AccountNumber: testAccount}
	if _, err := svc.Create(context.Background(), draft); !errors.Is(err, ErrLinkMissing) {
		t.Errorf("no links: err = %v, want ErrLinkMissing", err)
	}
}

func TestCreateUnknownLineItemIsNotFound(t *testing.T) {
	svc, _ := newTestService()

	draft := incomeDraft(1000, "2023-03-01")
	draft.IncomeID = uintPtr(9999)
	if _, err := svc.Create(context.Background(), draft); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateUnknownTransactionIsNotFound(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Update(context.Background(), 42, &Patch{Amount: int64Ptr(100)})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateRejectsConflictingLinks(t *testing.T) {
	svc, _ := newTestService()

	t1 := mustCreate(t, svc, incomeDraft(1000, "2023-03-01"))
	err := svc.Update(context.Background(), t1.ID, &Patch{
		IncomeID:  uintPtr(testIncomeID),
		ExpenseID: uintPtr(testExpenseID),
	})
	if !errors.Is(err, ErrLinkConflict) {
		t.Errorf("err = %v, want ErrLinkConflict", err)
	}
}

func TestChainInvariantAfterMixedSequence(t *testing.T) {
	svc, store := newTestService()

	mustCreate(t, svc, incomeDraft(300000, "2023-03-02"))
	t2 := mustCreate(t, svc, expenseDraft(45000, "2023-03-20"))
	mustCreate(t, svc, expenseDraft(12000, "2023-03-08"))
	t4 := mustCreate(t, svc, incomeDraft(80000, "2023-03-09"))
	mustCreate(t, svc, expenseDraft(7000, "2023-04-01"))

	if err := svc.Update(context.Background(), t2.ID, &Patch{Amount: int64Ptr(60000)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	newAt := date("2023-03-25")
	if err := svc.Update(context.Background(), t4.ID, &Patch{TransactionAt: &newAt}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	checkChain(t, store)
}
