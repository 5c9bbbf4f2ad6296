package middleware

import (
	"github.com/gin-gonic/gin"
	kerrors "github.com/go-kratos/kratos/v2/errors"
)

// abortWithError 以统一错误结构终止请求
func abortWithError(c *gin.Context, err *kerrors.Error) {
	c.AbortWithStatusJSON(int(err.Code), gin.H{
		"code":    err.Code,
		"reason":  err.Reason,
		"message": err.Message,
	})
}
