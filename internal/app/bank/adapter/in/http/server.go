package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/authz"
)

// Server 是 HTTP inbound adapter，把 REST 請求轉成引擎操作
type Server struct {
	bank   *usecase.Secured
	policy *authz.Policy
}

func NewServer(bank *usecase.Secured, policy *authz.Policy) *Server {
	return &Server{
		bank:   bank,
		policy: policy,
	}
}

// Router 組出所有路由
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.resolveSubject())

	r.POST("/accounts", s.createAccount)
	r.GET("/accounts", s.searchAccounts)
	r.GET("/accounts/:id/owner", s.getOwner)
	r.GET("/accounts/:id/balance", s.getBalance)
	r.GET("/accounts/:id/active", s.isAccountActive)
	r.GET("/accounts/:id/transactions", s.txHistory)
	r.POST("/accounts/:id/deposit", s.deposit)
	r.POST("/accounts/:id/withdraw", s.withdraw)
	r.POST("/accounts/:id/close", s.closeAccount)
	r.GET("/stats", s.stats)

	return r
}

// resolveSubject 驗證 Bearer token 並把解析出的 Subject 放進 request context
// 沒帶 token 的請求會以匿名身份往下走，受保護的操作稍後自然會被擋下
func (s *Server) resolveSubject() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		subject, err := s.policy.Resolve(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Request = c.Request.WithContext(authz.WithSubject(c.Request.Context(), subject))
		c.Next()
	}
}

type createAccountRequest struct {
	OwnerName string `json:"owner_name" binding:"required"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) createAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := s.bank.CreateAccount(c.Request.Context(), req.OwnerName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"account_id": id})
}

func (s *Server) searchAccounts(c *gin.Context) {
	ids, err := s.bank.SearchAccountIDsByOwner(c.Request.Context(), c.Query("owner"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_ids": ids})
}

func (s *Server) getOwner(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	owner, err := s.bank.GetOwner(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner_name": owner})
}

func (s *Server) getBalance(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	balance, err := s.bank.GetBalance(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (s *Server) isAccountActive(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	active, err := s.bank.IsAccountActive(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": active})
}

func (s *Server) txHistory(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	logs, err := s.bank.TxHistory(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": logs})
}

func (s *Server) deposit(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance, err := s.bank.Deposit(c.Request.Context(), id, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (s *Server) withdraw(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance, err := s.bank.Withdraw(c.Request.Context(), id, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (s *Server) closeAccount(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	released, err := s.bank.CloseAccount(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"released": released})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"account_count": s.bank.AccountCount(c.Request.Context())})
}

// accountID 解析路徑中的帳戶 ID，失敗時直接回 400
func accountID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return 0, false
	}
	return id, true
}

// writeError 把 domain / authz 錯誤對應到 HTTP 狀態碼
func writeError(c *gin.Context, err error) {
	var invariant *domain.InvariantViolationError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &invariant):
		status = http.StatusInternalServerError
	case errors.Is(err, authz.ErrNoAuthenticatedSubject):
		status = http.StatusUnauthorized
	case errors.Is(err, authz.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrServiceNotRunning):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrAccountNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAccountInactive):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAmountMustBePositive):
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
