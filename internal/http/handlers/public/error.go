package public

import (
	handlershared "github.com/dujiao-next/storefront/internal/http/handlers/shared"
	"github.com/dujiao-next/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	userRules    = handlershared.ConcatRules(handlershared.UserErrorRules, handlershared.GenericErrorRules)
	catalogRules = handlershared.ConcatRules(handlershared.CatalogErrorRules, handlershared.GenericErrorRules)
	orderRules   = handlershared.ConcatRules(
		handlershared.OrderErrorRules,
		handlershared.CatalogErrorRules,
		handlershared.UserErrorRules,
		handlershared.GenericErrorRules,
	)
	contentRules = handlershared.ConcatRules(
		handlershared.ContentErrorRules,
		handlershared.CatalogErrorRules,
		handlershared.GenericErrorRules,
	)
	contactRules = handlershared.ConcatRules(
		handlershared.ContentErrorRules,
		handlershared.UserErrorRules,
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

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	return handlershared.ParseUintParam(c, name)
}
