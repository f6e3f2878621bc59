package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType 交易類型
type TransactionType uint8

const (
	// 存款
	TransactionTypeDeposit TransactionType = 1
	// 提款
	TransactionTypeWithdraw TransactionType = 2
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeDeposit:
		return "deposit"
	case TransactionTypeWithdraw:
		return "withdraw"
	default:
		return "unknown"
	}
}

// Transaction 交易紀錄
// 建立後即不可變；套用成功後由目標帳戶的 history 獨佔持有，
// 不會再被外部共享或修改
type Transaction struct {
	// TransactionID: 外部追蹤號 (UUID)
	TransactionID uuid.UUID
	// AccountID: 目標帳戶 ID
	AccountID int64
	// Amount: 金額，只存正數，方向由 Type 決定
	Amount decimal.Decimal
	// CreatedAt: 交易建立時間
	CreatedAt time.Time
	// CreatedBy: 發起這筆交易的使用者
	CreatedBy string
	// Type: 交易類型
	Type TransactionType
}

// NewDepositTx 建立一筆存款交易
func NewDepositTx(accountID int64, amount decimal.Decimal, createdBy string) Transaction {
	return newTx(TransactionTypeDeposit, accountID, amount, createdBy)
}

// NewWithdrawalTx 建立一筆提款交易
func NewWithdrawalTx(accountID int64, amount decimal.Decimal, createdBy string) Transaction {
	return newTx(TransactionTypeWithdraw, accountID, amount, createdBy)
}

func newTx(txType TransactionType, accountID int64, amount decimal.Decimal, createdBy string) Transaction {
	return Transaction{
		TransactionID: uuid.New(),
		AccountID:     accountID,
		Amount:        amount,
		CreatedAt:     time.Now(),
		CreatedBy:     createdBy,
		Type:          txType,
	}
}

// TxLog 對外呈現的單筆交易日誌
// Amount 帶正負號：存款為正、提款為負
// 這只是呈現層的轉換，帳戶內保存的原始紀錄不變
type TxLog struct {
	CreatedAt time.Time       `json:"created_at"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedBy string          `json:"created_by"`
}
