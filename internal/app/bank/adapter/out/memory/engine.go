package memory

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
)

// State 引擎生命週期狀態
type State uint8

const (
	// StateStopped 尚未啟動或已停止
	StateStopped State = iota
	// StateRunning 運行中
	StateRunning
)

// Engine 單機記憶體帳本引擎
//
// 結構:
//
//	accounts: 依建立順序排列的帳戶列表
//	accountsByID: 帳戶 ID 索引，與 accounts 一對一、永遠同步
//	mu: RWMutex 保護 state 與上述兩個集合
//
// 結構性操作 (建立、清空、查找、掃描) 都在同一把鎖下完成，
// 讀者不會觀察到列表與索引不同步的狀態。鎖只涵蓋結構性操作本身，
// 拿到帳戶之後的金額變動交給帳戶自己的鎖，不同帳戶互不阻塞。
type Engine struct {
	mu           sync.RWMutex
	state        State
	nextID       int64
	accounts     []*domain.Account
	accountsByID map[int64]*domain.Account
}

// NewEngine 建立一個尚未啟動的引擎實例
func NewEngine() *Engine {
	return &Engine{
		accountsByID: make(map[int64]*domain.Account),
	}
}

// Start 啟動引擎 (Stopped -> Running)
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateRunning {
		return domain.ErrServiceAlreadyRunning
	}
	e.state = StateRunning
	log.Println("bank engine started")
	return nil
}

// Dispose 停止引擎並清空所有帳戶 (Running -> Stopped)
//
// 這是破壞性操作：沒有任何帳戶或交易紀錄會存留。和 Dispose 競爭的
// 操作之後可能收到 ErrServiceNotRunning 或 ErrAccountNotFound，
// 這是預期行為。
func (e *Engine) Dispose(ctx context.Context) {
	log.Println("stopping bank engine...")
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateStopped
	e.accounts = nil
	e.accountsByID = make(map[int64]*domain.Account)
	log.Println("bank engine stopped")
}

// resolveAccount 在讀鎖下確認引擎狀態並以 ID 取得帳戶
func (e *Engine) resolveAccount(accountID int64) (*domain.Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.state != StateRunning {
		return nil, domain.ErrServiceNotRunning
	}
	account, ok := e.accountsByID[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

// CreateAccount 建立新帳戶並回傳其 ID
//
// 帳戶在同一個臨界區內寫入列表與索引，外部不會觀察到
// 只更新了其中之一的狀態。ownerName 不要求唯一。
func (e *Engine) CreateAccount(ctx context.Context, ownerName, createdBy string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateRunning {
		return 0, domain.ErrServiceNotRunning
	}

	e.nextID++
	account := domain.NewAccount(e.nextID, ownerName, createdBy)
	e.accounts = append(e.accounts, account)
	e.accountsByID[account.ID()] = account

	log.Printf("created account %d for %q", account.ID(), ownerName)
	return account.ID(), nil
}

// SearchAccountIDsByOwner 以不分大小寫的子字串比對搜尋帳戶
//
// 掃描在讀鎖下的一致快照上進行，結果依帳戶建立順序排列；
// 沒有任何帳戶符合時回傳空列表，不是錯誤。
func (e *Engine) SearchAccountIDsByOwner(ctx context.Context, ownerName string) ([]int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.state != StateRunning {
		return nil, domain.ErrServiceNotRunning
	}

	needle := strings.ToLower(ownerName)
	ids := make([]int64, 0)
	for _, account := range e.accounts {
		if strings.Contains(strings.ToLower(account.OwnerName()), needle) {
			ids = append(ids, account.ID())
		}
	}
	return ids, nil
}

// GetOwner 取得帳戶持有人名稱
func (e *Engine) GetOwner(ctx context.Context, accountID int64) (string, error) {
	account, err := e.resolveAccount(accountID)
	if err != nil {
		return "", err
	}
	return account.OwnerName(), nil
}

// GetBalance 取得帳戶餘額
func (e *Engine) GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	account, err := e.resolveAccount(accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance(), nil
}

// IsAccountActive 取得帳戶是否仍可操作
func (e *Engine) IsAccountActive(ctx context.Context, accountID int64) (bool, error) {
	account, err := e.resolveAccount(accountID)
	if err != nil {
		return false, err
	}
	return account.IsActive(), nil
}

// Deposit 存款並回傳存款後餘額
//
// 金額必須為正數。存款不可能因餘額不足而失敗，若底層回報
// ErrInsufficientFunds 代表內部不變量被打破，會升級為
// InvariantViolationError 而不是當作一般業務錯誤傳出。
func (e *Engine) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal, createdBy string) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Zero, domain.ErrAmountMustBePositive
	}
	account, err := e.resolveAccount(accountID)
	if err != nil {
		return decimal.Zero, err
	}

	tx := domain.NewDepositTx(accountID, amount, createdBy)
	balance, err := account.Apply(tx)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return decimal.Zero, &domain.InvariantViolationError{Msg: "deposit reported insufficient funds", Err: err}
		}
		return decimal.Zero, err
	}

	log.Printf("deposited %s into account %d, new balance is %s", amount, accountID, balance)
	return balance, nil
}

// Withdraw 提款並回傳提款後餘額
//
// 金額必須為正數；餘額不足或帳戶已關閉時原樣傳出帳戶的錯誤。
func (e *Engine) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, createdBy string) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Zero, domain.ErrAmountMustBePositive
	}
	account, err := e.resolveAccount(accountID)
	if err != nil {
		return decimal.Zero, err
	}

	tx := domain.NewWithdrawalTx(accountID, amount, createdBy)
	balance, err := account.Apply(tx)
	if err != nil {
		return decimal.Zero, err
	}

	log.Printf("withdrew %s from account %d, new balance is %s", amount, accountID, balance)
	return balance, nil
}

// TxHistory 取得帳戶的交易日誌
func (e *Engine) TxHistory(ctx context.Context, accountID int64) ([]domain.TxLog, error) {
	account, err := e.resolveAccount(accountID)
	if err != nil {
		return nil, err
	}
	return account.TxLogs(), nil
}

// CloseAccount 結清並關閉帳戶，回傳釋出的金額
func (e *Engine) CloseAccount(ctx context.Context, accountID int64, createdBy string) (decimal.Decimal, error) {
	account, err := e.resolveAccount(accountID)
	if err != nil {
		return decimal.Zero, err
	}

	released, err := account.Close(createdBy)
	if err != nil {
		return decimal.Zero, err
	}

	log.Printf("closed account %d, released %s to the owner", accountID, released)
	return released, nil
}

// AccountCount 取得帳戶總數，不檢查引擎狀態
func (e *Engine) AccountCount(ctx context.Context) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.accounts)
}

var _ usecase.Bank = (*Engine)(nil)
