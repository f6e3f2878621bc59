package domain

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Account 帳戶
//
// 結構:
//
//	balance: 當前餘額，不變量: 永遠 >= 0
//	active: 是否仍可操作，關閉後不會再變回 true
//	history: 依套用順序排列的交易紀錄，只增不減
//
// 三者只能透過 Apply 與 Close 變動，由 mu 序列化同一帳戶上的
// 所有併發操作；不同帳戶各自持鎖、互不阻塞。
type Account struct {
	mu        sync.Mutex
	id        int64
	ownerName string
	createdBy string
	balance   decimal.Decimal
	active    bool
	history   []Transaction
}

// NewAccount 建立一個餘額為 0 的新帳戶
func NewAccount(id int64, ownerName, createdBy string) *Account {
	return &Account{
		id:        id,
		ownerName: ownerName,
		createdBy: createdBy,
		balance:   decimal.Zero,
		active:    true,
	}
}

func (a *Account) ID() int64 {
	return a.id
}

func (a *Account) OwnerName() string {
	return a.ownerName
}

func (a *Account) CreatedBy() string {
	return a.createdBy
}

// Balance 回傳當前餘額
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// IsActive 回傳帳戶是否仍可操作
func (a *Account) IsActive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Apply 套用一筆交易，是唯一的變動入口
//
// 餘額更新與 history 追加在同一個臨界區內完成，其他操作不會觀察到
// 只改了一半的狀態。失敗時餘額與 history 完全不變；這次呼叫即告終結，
// 呼叫端若要重試必須建立新的交易紀錄。
//
// 回傳:
//
//	decimal.Decimal: 套用後的餘額 (失敗時為套用前餘額)
//	error: ErrAccountInactive / ErrInsufficientFunds
func (a *Account) Apply(tx Transaction) (decimal.Decimal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.applyLocked(tx)
}

// applyLocked 套用邏輯本體，呼叫前必須持有 a.mu
func (a *Account) applyLocked(tx Transaction) (decimal.Decimal, error) {
	if !a.active {
		return a.balance, ErrAccountInactive
	}

	switch tx.Type {
	case TransactionTypeDeposit:
		a.balance = a.balance.Add(tx.Amount)
	case TransactionTypeWithdraw:
		if a.balance.LessThan(tx.Amount) {
			return a.balance, ErrInsufficientFunds
		}
		a.balance = a.balance.Sub(tx.Amount)
	default:
		return a.balance, fmt.Errorf("unknown transaction type: %d", tx.Type)
	}

	a.history = append(a.history, tx)
	return a.balance, nil
}

// Close 結清帳戶：提領全部餘額後停用
//
// 提款與停用在同一次持鎖內完成，不會有「餘額歸零但仍然 active、
// 還能接受存款」的空窗。結清的提款走與 Apply 相同的路徑，
// 所以「餘額 >= 0、已關閉帳戶餘額為 0」由同一份程式碼保證。
//
// 回傳:
//
//	decimal.Decimal: 結清釋出的金額
//	error: 帳戶已關閉時回傳 ErrAccountInactive
func (a *Account) Close(createdBy string) (decimal.Decimal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.active {
		return decimal.Zero, ErrAccountInactive
	}

	released := a.balance
	tx := NewWithdrawalTx(a.id, released, createdBy)
	if _, err := a.applyLocked(tx); err != nil {
		// 提款金額就是當下餘額，不可能失敗
		return decimal.Zero, &InvariantViolationError{Msg: "close-out withdrawal rejected", Err: err}
	}
	a.active = false
	return released, nil
}

// History 回傳交易紀錄的拷貝，外部拿不到內部 slice
func (a *Account) History() []Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Transaction, len(a.history))
	copy(out, a.history)
	return out
}

// TxLogs 回傳對外格式的交易日誌：存款金額為正、提款為負
func (a *Account) TxLogs() []TxLog {
	a.mu.Lock()
	defer a.mu.Unlock()
	logs := make([]TxLog, 0, len(a.history))
	for _, tx := range a.history {
		amount := tx.Amount
		if tx.Type == TransactionTypeWithdraw {
			amount = amount.Neg()
		}
		logs = append(logs, TxLog{
			CreatedAt: tx.CreatedAt,
			Amount:    amount,
			CreatedBy: tx.CreatedBy,
		})
	}
	return logs
}
