package response

import (
	"errors"
	"net/http"

	"Vine/pkg/log"
	"Vine/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BizError 业务错误，Code 同时作为 HTTP 状态码
type BizError struct {
	Code int
	Msg  string
}

func (e *BizError) Error() string {
	return e.Msg
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

// Status 非法的 code 统一按 400 返回
func (e *BizError) Status() int {
	if e.Code < 400 || e.Code > 599 {
		return http.StatusBadRequest
	}
	return e.Code
}

func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.L.Error("panic recovered", zap.String("path", c.Request.URL.Path), zap.String("trace", utils.PanicTrace(r)))
				c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
					Code: http.StatusInternalServerError,
					Msg:  "internal error",
				})
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err

			var be *BizError
			if errors.As(err, &be) {
				Fail(c, be.Status(), be.Msg)
			} else {
				Fail(c, http.StatusInternalServerError, err.Error())
			}
			c.Abort()
		}
	}
}

func Abort(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
		Data: nil,
	})
}
