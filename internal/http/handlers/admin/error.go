package admin

import (
	handlershared "github.com/dujiao-next/storefront/internal/http/handlers/shared"
	"github.com/dujiao-next/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	adminUserRules     = handlershared.ConcatRules(handlershared.UserErrorRules, handlershared.GenericErrorRules)
	adminCatalogRules  = handlershared.ConcatRules(handlershared.CatalogErrorRules, handlershared.GenericErrorRules)
	adminOrderRules    = handlershared.ConcatRules(handlershared.OrderErrorRules, handlershared.GenericErrorRules)
	adminContentRules  = handlershared.ConcatRules(handlershared.ContentErrorRules, handlershared.GenericErrorRules)
	adminShippingRules = handlershared.ConcatRules(
		handlershared.ContentErrorRules,
		handlershared.OrderErrorRules,
		handlershared.GenericErrorRules,
	)
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondMappedError(c *gin.Context, err error, rules []handlershared.MappedError, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, response.CodeInternal, fallbackKey)
}
