package context

import (
	"errors"
	"net/http"

	"Vine/pkg/log"
	"Vine/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

type HandlerFunc func(*gin.Context) error

func Wrap(h func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {

			// 如果已经写过响应，直接返回
			if c.Writer.Written() {
				return
			}
			// 业务错误
			var be *response.BizError
			if errors.As(err, &be) {
				c.JSON(be.Status(), response.Response{
					Code: be.Code,
					Msg:  be.Msg,
				})
				return
			}
			log.L.Error("handler failed", zap.String("path", c.FullPath()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, response.Response{
				Code: http.StatusInternalServerError,
				Msg:  "internal error",
			})
		}
	}
}

func GetUserID(c *gin.Context) (string, error) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", errors.New("user_id 不存在")
	}

	uid, ok := v.(string)
	if !ok || uid == "" {
		return "", errors.New("user_id 类型错误")
	}

	return uid, nil
}

func GetEmail(c *gin.Context) string {
	return c.GetString(CtxEmail)
}

func GetRole(c *gin.Context) string {
	return c.GetString(CtxRole)
}
