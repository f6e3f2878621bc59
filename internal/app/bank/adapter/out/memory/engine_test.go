package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

// runningEngine 小工具：回傳一個已啟動的引擎
func runningEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine()
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return e
}

// TestLifecycle 驗證引擎的狀態機：
// 未啟動時所有操作回 ErrServiceNotRunning、重複啟動報錯、
// Dispose 之後回到未啟動狀態且帳戶全部清空。
func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	e := NewEngine()

	if _, err := e.CreateAccount(ctx, "Alice", "root"); !errors.Is(err, domain.ErrServiceNotRunning) {
		t.Fatalf("want ErrServiceNotRunning, got %v", err)
	}
	if _, err := e.GetBalance(ctx, 1); !errors.Is(err, domain.ErrServiceNotRunning) {
		t.Fatalf("want ErrServiceNotRunning, got %v", err)
	}

	if err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := e.Start(ctx); !errors.Is(err, domain.ErrServiceAlreadyRunning) {
		t.Fatalf("want ErrServiceAlreadyRunning, got %v", err)
	}

	if _, err := e.CreateAccount(ctx, "Alice", "root"); err != nil {
		t.Fatal(err)
	}
	if got := e.AccountCount(ctx); got != 1 {
		t.Fatalf("account count = %d, want 1", got)
	}

	e.Dispose(ctx)

	// Dispose 是破壞性操作：帳戶與紀錄都不存留
	if got := e.AccountCount(ctx); got != 0 {
		t.Fatalf("account count after dispose = %d, want 0", got)
	}
	if _, err := e.GetBalance(ctx, 1); !errors.Is(err, domain.ErrServiceNotRunning) {
		t.Fatalf("want ErrServiceNotRunning after dispose, got %v", err)
	}
}

// TestAccountScenario 走完整個帳戶生命週期：
// 建立 -> 存 100 -> 提 40 -> 超額提款失敗 -> 結清 -> 對關閉帳戶存款失敗。
func TestAccountScenario(t *testing.T) {
	ctx := context.Background()
	e := runningEngine(t)

	id, err := e.CreateAccount(ctx, "Alice", "root")
	if err != nil {
		t.Fatal(err)
	}

	balance, err := e.GetBalance(ctx, id)
	if err != nil || !balance.IsZero() {
		t.Fatalf("fresh balance = %s, err = %v; want 0, nil", balance, err)
	}
	active, err := e.IsAccountActive(ctx, id)
	if err != nil || !active {
		t.Fatalf("fresh account active = %v, err = %v; want true, nil", active, err)
	}
	owner, err := e.GetOwner(ctx, id)
	if err != nil || owner != "Alice" {
		t.Fatalf("owner = %q, err = %v; want Alice, nil", owner, err)
	}

	if balance, err = e.Deposit(ctx, id, dec(t, "100"), "teller"); err != nil || !balance.Equal(dec(t, "100")) {
		t.Fatalf("deposit: balance = %s, err = %v; want 100, nil", balance, err)
	}
	if balance, err = e.Withdraw(ctx, id, dec(t, "40"), "teller"); err != nil || !balance.Equal(dec(t, "60")) {
		t.Fatalf("withdraw: balance = %s, err = %v; want 60, nil", balance, err)
	}

	// 超額提款：失敗且餘額不動
	if _, err = e.Withdraw(ctx, id, dec(t, "1000"), "teller"); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	if balance, _ = e.GetBalance(ctx, id); !balance.Equal(dec(t, "60")) {
		t.Fatalf("balance after failed withdrawal = %s, want 60", balance)
	}

	// 結清：釋出 60，history 多一筆 -60，active 翻 false
	released, err := e.CloseAccount(ctx, id, "root")
	if err != nil || !released.Equal(dec(t, "60")) {
		t.Fatalf("close: released = %s, err = %v; want 60, nil", released, err)
	}
	if active, _ = e.IsAccountActive(ctx, id); active {
		t.Fatal("account should be inactive after close")
	}
	logs, err := e.TxHistory(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 3 || !logs[2].Amount.Equal(dec(t, "-60")) {
		t.Fatalf("history = %+v, want 3 entries ending with -60", logs)
	}

	// 已關閉帳戶不能再存款、不能再結清
	if _, err = e.Deposit(ctx, id, dec(t, "1"), "teller"); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("want ErrAccountInactive, got %v", err)
	}
	if _, err = e.CloseAccount(ctx, id, "root"); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("want ErrAccountInactive, got %v", err)
	}
}

// TestSearchAccountIDsByOwner 驗證搜尋語意：
// 不分大小寫的子字串比對、結果依建立順序、無符合時回空列表。
func TestSearchAccountIDsByOwner(t *testing.T) {
	ctx := context.Background()
	e := runningEngine(t)

	aliceID, _ := e.CreateAccount(ctx, "Alice", "root")
	bobID, _ := e.CreateAccount(ctx, "Bob", "root")
	alivioID, _ := e.CreateAccount(ctx, "ALIVIO", "root")

	ids, err := e.SearchAccountIDsByOwner(ctx, "ali")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != aliceID || ids[1] != alivioID {
		t.Fatalf("search(ali) = %v, want [%d %d]", ids, aliceID, alivioID)
	}

	ids, err = e.SearchAccountIDsByOwner(ctx, "BOB")
	if err != nil || len(ids) != 1 || ids[0] != bobID {
		t.Fatalf("search(BOB) = %v, err = %v; want [%d]", ids, err, bobID)
	}

	ids, err = e.SearchAccountIDsByOwner(ctx, "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Fatalf("search(nobody) = %v, want empty", ids)
	}
}

// TestUnknownAccount 驗證所有查詢與操作對不存在的 ID 都回 ErrAccountNotFound。
func TestUnknownAccount(t *testing.T) {
	ctx := context.Background()
	e := runningEngine(t)

	if _, err := e.GetBalance(ctx, 42); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("GetBalance: want ErrAccountNotFound, got %v", err)
	}
	if _, err := e.GetOwner(ctx, 42); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("GetOwner: want ErrAccountNotFound, got %v", err)
	}
	if _, err := e.IsAccountActive(ctx, 42); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("IsAccountActive: want ErrAccountNotFound, got %v", err)
	}
	if _, err := e.Deposit(ctx, 42, dec(t, "1"), "root"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("Deposit: want ErrAccountNotFound, got %v", err)
	}
	if _, err := e.TxHistory(ctx, 42); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("TxHistory: want ErrAccountNotFound, got %v", err)
	}
	if _, err := e.CloseAccount(ctx, 42, "root"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("CloseAccount: want ErrAccountNotFound, got %v", err)
	}
}

// TestAmountMustBePositive 引擎邊界拒絕 0 與負數金額，
// 不會產生任何交易紀錄。
func TestAmountMustBePositive(t *testing.T) {
	ctx := context.Background()
	e := runningEngine(t)
	id, _ := e.CreateAccount(ctx, "Alice", "root")

	if _, err := e.Deposit(ctx, id, decimal.Zero, "root"); !errors.Is(err, domain.ErrAmountMustBePositive) {
		t.Fatalf("deposit 0: want ErrAmountMustBePositive, got %v", err)
	}
	if _, err := e.Withdraw(ctx, id, dec(t, "-5"), "root"); !errors.Is(err, domain.ErrAmountMustBePositive) {
		t.Fatalf("withdraw -5: want ErrAmountMustBePositive, got %v", err)
	}

	logs, _ := e.TxHistory(ctx, id)
	if len(logs) != 0 {
		t.Fatalf("rejected amounts must not reach history: %+v", logs)
	}
}

// TestCreateAccountConcurrent 驗證 ID 唯一性：
// N 個併發建立產生 N 個不同的 ID，索引裡剛好 N 筆。
func TestCreateAccountConcurrent(t *testing.T) {
	const workers = 100
	ctx := context.Background()
	e := runningEngine(t)

	ids := make([]int64, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			id, err := e.CreateAccount(ctx, "owner", "root")
			if err != nil {
				t.Error(err)
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, workers)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate account id %d", id)
		}
		seen[id] = true
	}
	if got := e.AccountCount(ctx); got != workers {
		t.Fatalf("account count = %d, want %d", got, workers)
	}
}

// TestDepositConcurrent 驗證同一帳戶上併發存款的序列化正確性。
func TestDepositConcurrent(t *testing.T) {
	const workers = 200
	ctx := context.Background()
	e := runningEngine(t)
	id, _ := e.CreateAccount(ctx, "Alice", "root")
	amount := dec(t, "3")

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := e.Deposit(ctx, id, amount, "root"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	balance, err := e.GetBalance(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	want := amount.Mul(decimal.NewFromInt(workers))
	if !balance.Equal(want) {
		t.Fatalf("balance = %s, want %s", balance, want)
	}
	logs, _ := e.TxHistory(ctx, id)
	if len(logs) != workers {
		t.Fatalf("history length = %d, want %d", len(logs), workers)
	}
}

// TestCreatedByStamping 驗證 actor 有被蓋到帳戶與交易紀錄上。
func TestCreatedByStamping(t *testing.T) {
	ctx := context.Background()
	e := runningEngine(t)

	id, err := e.CreateAccount(ctx, "Alice", "root")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Deposit(ctx, id, dec(t, "10"), "teller"); err != nil {
		t.Fatal(err)
	}

	logs, err := e.TxHistory(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if logs[0].CreatedBy != "teller" {
		t.Fatalf("tx createdBy = %q, want teller", logs[0].CreatedBy)
	}
}
