package public

import (
	"github.com/dujiao-next/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AddMoneyRequest 钱包充值请求
type AddMoneyRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// GetWallet 当前用户钱包
func (h *Handler) GetWallet(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	wallet, err := h.WalletService.Get(c.Request.Context(), uid)
	if err != nil {
		respondMappedError(c, err, orderRules, "error.wallet_fetch_failed")
		return
	}
	response.Success(c, wallet)
}

// AddMoney 钱包充值
func (h *Handler) AddMoney(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddMoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.wallet_invalid_amount", err)
		return
	}
	wallet, txn, err := h.WalletService.AddMoney(c.Request.Context(), uid, req.Amount)
	if err != nil {
		respondMappedError(c, err, orderRules, "error.wallet_fetch_failed")
		return
	}
	response.Success(c, gin.H{
		"wallet":      wallet,
		"transaction": txn,
	})
}
