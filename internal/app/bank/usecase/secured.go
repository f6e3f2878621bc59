package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/pkg/authz"
)

// Secured 在每個引擎進入點外包一層權限檢查
//
// 引擎本身完全不依賴任何授權機制；呼叫者身份一律從 ctx 解析，
// 解析出的使用者名稱作為 actor 傳給引擎、蓋在交易紀錄上。
// 解析不到已驗證身份時直接回錯，不會默默退回匿名身份。
type Secured struct {
	core *BankUseCase
}

func NewSecured(core *BankUseCase) *Secured {
	return &Secured{
		core: core,
	}
}

// require 解析 Subject 並檢查是否持有指定權限
func (s *Secured) require(ctx context.Context, capability authz.Capability) (*authz.Subject, error) {
	subject, err := authz.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !subject.Can(capability) {
		return nil, fmt.Errorf("%w: %q requires %q", authz.ErrPermissionDenied, subject.Name, capability)
	}
	return subject, nil
}

// CreateAccount 建立新帳戶，需要 bank:createAccount
func (s *Secured) CreateAccount(ctx context.Context, ownerName string) (int64, error) {
	subject, err := s.require(ctx, authz.CapCreateAccount)
	if err != nil {
		return 0, err
	}
	return s.core.CreateAccount(ctx, ownerName, subject.Name)
}

// SearchAccountIDsByOwner 搜尋帳戶，需要 bank:readAccount
func (s *Secured) SearchAccountIDsByOwner(ctx context.Context, ownerName string) ([]int64, error) {
	if _, err := s.require(ctx, authz.CapReadAccount); err != nil {
		return nil, err
	}
	return s.core.SearchAccountIDsByOwner(ctx, ownerName)
}

// GetOwner 取得帳戶持有人名稱，需要 bank:readAccount
func (s *Secured) GetOwner(ctx context.Context, accountID int64) (string, error) {
	if _, err := s.require(ctx, authz.CapReadAccount); err != nil {
		return "", err
	}
	return s.core.GetOwner(ctx, accountID)
}

// GetBalance 取得帳戶餘額，需要 bank:readAccount
func (s *Secured) GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	if _, err := s.require(ctx, authz.CapReadAccount); err != nil {
		return decimal.Zero, err
	}
	return s.core.GetBalance(ctx, accountID)
}

// IsAccountActive 取得帳戶是否仍可操作，需要 bank:readAccount
func (s *Secured) IsAccountActive(ctx context.Context, accountID int64) (bool, error) {
	if _, err := s.require(ctx, authz.CapReadAccount); err != nil {
		return false, err
	}
	return s.core.IsAccountActive(ctx, accountID)
}

// Deposit 存款，需要 bank:operateAccount
func (s *Secured) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	subject, err := s.require(ctx, authz.CapOperateAccount)
	if err != nil {
		return decimal.Zero, err
	}
	return s.core.Deposit(ctx, accountID, amount, subject.Name)
}

// Withdraw 提款，需要 bank:operateAccount
func (s *Secured) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	subject, err := s.require(ctx, authz.CapOperateAccount)
	if err != nil {
		return decimal.Zero, err
	}
	return s.core.Withdraw(ctx, accountID, amount, subject.Name)
}

// TxHistory 取得帳戶的交易日誌，需要 bank:readAccount
func (s *Secured) TxHistory(ctx context.Context, accountID int64) ([]domain.TxLog, error) {
	if _, err := s.require(ctx, authz.CapReadAccount); err != nil {
		return nil, err
	}
	return s.core.TxHistory(ctx, accountID)
}

// CloseAccount 結清並關閉帳戶，需要 bank:closeAccount
func (s *Secured) CloseAccount(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	subject, err := s.require(ctx, authz.CapCloseAccount)
	if err != nil {
		return decimal.Zero, err
	}
	return s.core.CloseAccount(ctx, accountID, subject.Name)
}

// AccountCount 取得帳戶總數，不需要任何權限
func (s *Secured) AccountCount(ctx context.Context) int {
	return s.core.AccountCount(ctx)
}
