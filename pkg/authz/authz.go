// Package authz 提供具名權限 (Capability)、已驗證身份 (Subject)
// 與 context 傳遞工具。它不依賴任何業務邏輯，由傳輸層的驗證
// middleware 解析身份、放進 context，再由業務層的裝飾器取出檢查。
package authz

import (
	"context"
	"errors"
)

// Capability 具名權限，對應一類引擎操作
type Capability string

const (
	// CapCreateAccount 建立帳戶
	CapCreateAccount Capability = "bank:createAccount"
	// CapReadAccount 讀取帳戶 (持有人、餘額、狀態、交易日誌、搜尋)
	CapReadAccount Capability = "bank:readAccount"
	// CapOperateAccount 操作帳戶 (存款、提款)
	CapOperateAccount Capability = "bank:operateAccount"
	// CapCloseAccount 結清帳戶
	CapCloseAccount Capability = "bank:closeAccount"
)

var (
	// ErrNoAuthenticatedSubject 無法解析出已驗證的身份
	ErrNoAuthenticatedSubject = errors.New("unable to resolve an authenticated subject")

	// ErrPermissionDenied 缺少操作所需的權限
	ErrPermissionDenied = errors.New("permission denied")
)

// Subject 已驗證的呼叫者身份與其持有的權限
type Subject struct {
	Name         string
	capabilities map[Capability]struct{}
}

// NewSubject 建立一個持有指定權限的 Subject
func NewSubject(name string, caps ...Capability) *Subject {
	capSet := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		capSet[c] = struct{}{}
	}
	return &Subject{
		Name:         name,
		capabilities: capSet,
	}
}

// Can 檢查是否持有指定權限
func (s *Subject) Can(c Capability) bool {
	if s == nil {
		return false
	}
	_, ok := s.capabilities[c]
	return ok
}

type subjectKey struct{}

// WithSubject 把 Subject 放進 context
func WithSubject(ctx context.Context, subject *Subject) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// FromContext 取出目前請求的 Subject
// 沒有已驗證身份時回傳 ErrNoAuthenticatedSubject
func FromContext(ctx context.Context) (*Subject, error) {
	subject, ok := ctx.Value(subjectKey{}).(*Subject)
	if !ok || subject == nil || subject.Name == "" {
		return nil, ErrNoAuthenticatedSubject
	}
	return subject, nil
}
