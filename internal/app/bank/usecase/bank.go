package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

// Bank 是帳務引擎的介面
// createdBy 是發起操作的使用者，會被蓋在產生的交易紀錄上；
// 引擎把它當成不透明字串，身份解析由外層負責。
type Bank interface {
	// Start 啟動引擎 (Stopped -> Running)
	Start(ctx context.Context) error
	// Dispose 停止引擎並清空所有帳戶 (Running -> Stopped)
	Dispose(ctx context.Context)
	// CreateAccount 建立新帳戶，回傳帳戶 ID
	CreateAccount(ctx context.Context, ownerName, createdBy string) (int64, error)
	// SearchAccountIDsByOwner 以不分大小寫的子字串搜尋帳戶
	SearchAccountIDsByOwner(ctx context.Context, ownerName string) ([]int64, error)
	// GetOwner 取得帳戶持有人名稱
	GetOwner(ctx context.Context, accountID int64) (string, error)
	// GetBalance 取得帳戶餘額
	GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error)
	// IsAccountActive 取得帳戶是否仍可操作
	IsAccountActive(ctx context.Context, accountID int64) (bool, error)
	// Deposit 存款，回傳存款後餘額
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal, createdBy string) (decimal.Decimal, error)
	// Withdraw 提款，回傳提款後餘額
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, createdBy string) (decimal.Decimal, error)
	// TxHistory 取得帳戶的交易日誌 (存款為正、提款為負)
	TxHistory(ctx context.Context, accountID int64) ([]domain.TxLog, error)
	// CloseAccount 結清並關閉帳戶，回傳釋出的金額
	CloseAccount(ctx context.Context, accountID int64, createdBy string) (decimal.Decimal, error)
	// AccountCount 取得帳戶總數 (不檢查引擎狀態)
	AccountCount(ctx context.Context) int
}
