package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

// BankUseCase 是核心業務邏輯層
type BankUseCase struct {
	bank Bank
}

func NewBankUseCase(bank Bank) *BankUseCase {
	return &BankUseCase{
		bank: bank,
	}
}

// CreateAccount 建立新帳戶
func (c *BankUseCase) CreateAccount(ctx context.Context, ownerName, createdBy string) (int64, error) {
	return c.bank.CreateAccount(ctx, ownerName, createdBy)
}

// SearchAccountIDsByOwner 搜尋帳戶
func (c *BankUseCase) SearchAccountIDsByOwner(ctx context.Context, ownerName string) ([]int64, error) {
	return c.bank.SearchAccountIDsByOwner(ctx, ownerName)
}

// GetOwner 取得帳戶持有人名稱
func (c *BankUseCase) GetOwner(ctx context.Context, accountID int64) (string, error) {
	return c.bank.GetOwner(ctx, accountID)
}

// GetBalance 取得帳戶餘額
func (c *BankUseCase) GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	return c.bank.GetBalance(ctx, accountID)
}

// IsAccountActive 取得帳戶是否仍可操作
func (c *BankUseCase) IsAccountActive(ctx context.Context, accountID int64) (bool, error) {
	return c.bank.IsAccountActive(ctx, accountID)
}

// Deposit 存款
func (c *BankUseCase) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal, createdBy string) (decimal.Decimal, error) {
	return c.bank.Deposit(ctx, accountID, amount, createdBy)
}

// Withdraw 提款
func (c *BankUseCase) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, createdBy string) (decimal.Decimal, error) {
	return c.bank.Withdraw(ctx, accountID, amount, createdBy)
}

// TxHistory 取得帳戶的交易日誌
func (c *BankUseCase) TxHistory(ctx context.Context, accountID int64) ([]domain.TxLog, error) {
	return c.bank.TxHistory(ctx, accountID)
}

// CloseAccount 結清並關閉帳戶
func (c *BankUseCase) CloseAccount(ctx context.Context, accountID int64, createdBy string) (decimal.Decimal, error) {
	return c.bank.CloseAccount(ctx, accountID, createdBy)
}

// AccountCount 取得帳戶總數
func (c *BankUseCase) AccountCount(ctx context.Context) int {
	return c.bank.AccountCount(ctx)
}
