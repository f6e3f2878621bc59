package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceNotRunning 引擎尚未啟動
	ErrServiceNotRunning = errors.New("bank service is not running")

	// ErrServiceAlreadyRunning 引擎已經在運行中
	ErrServiceAlreadyRunning = errors.New("bank service is already running")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountInactive 帳戶已關閉
	ErrAccountInactive = errors.New("account is inactive")

	// ErrInsufficientFunds 餘額不足
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAmountMustBePositive 金額必須為正數
	ErrAmountMustBePositive = errors.New("amount must be positive")
)

// InvariantViolationError 代表「不應該發生」的內部不變量被打破，
// 例如存款回報餘額不足。這類錯誤是程式缺陷的訊號，
// 和一般可預期的業務錯誤 (如 ErrInsufficientFunds) 分開表達。
type InvariantViolationError struct {
	Msg string
	Err error
}

func (e *InvariantViolationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invariant violation: %s: %v", e.Msg, e.Err)
	}
	return "invariant violation: " + e.Msg
}

func (e *InvariantViolationError) Unwrap() error {
	return e.Err
}
