package admin

import (
	"github.com/dujiao-next/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ReconcileWallet 核对钱包余额与已完成流水
func (h *Handler) ReconcileWallet(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	result, err := h.WalletService.Reconcile(userID)
	if err != nil {
		respondMappedError(c, err, adminOrderRules, "error.reconcile_failed")
		return
	}
	if !result.Consistent {
		requestLog(c).Warnw("admin_wallet_reconcile_drift",
			"user_id", userID,
			"balance", result.Balance.String(),
			"ledger_sum", result.LedgerSum.String(),
		)
	}
	response.Success(c, result)
}
