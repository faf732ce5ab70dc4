package handler

import (
	"errors"
	"net/http"
	"strconv"

	"Vine/pkg/response"
	"Vine/service"

	"github.com/gin-gonic/gin"
)

var errorStatus = []struct {
	target error
	status int
}{
	{service.ErrTooSoon, http.StatusConflict},
	{service.ErrCooldownActive, http.StatusConflict},
	{service.ErrAlreadyCompleted, http.StatusConflict},
	{service.ErrAlreadySubmitted, http.StatusConflict},
	{service.ErrAlreadyProcessed, http.StatusConflict},

	{service.ErrIncompleteAd, http.StatusUnprocessableEntity},
	{service.ErrBelowMinimum, http.StatusUnprocessableEntity},
	{service.ErrNoWallet, http.StatusUnprocessableEntity},
	{service.ErrInsufficientBalance, http.StatusUnprocessableEntity},
	{service.ErrReferralNotEligible, http.StatusUnprocessableEntity},
	{service.ErrVerificationRequired, http.StatusUnprocessableEntity},
	{service.ErrTaskInactive, http.StatusUnprocessableEntity},
	{service.ErrInvalidAmount, http.StatusUnprocessableEntity},
	{service.ErrInvalidDecision, http.StatusUnprocessableEntity},

	{service.ErrAccountSuspended, http.StatusForbidden},
	{service.ErrFeatureDisabled, http.StatusForbidden},

	{service.ErrAccountNotFound, http.StatusNotFound},
	{service.ErrTaskNotFound, http.StatusNotFound},
	{service.ErrNotFound, http.StatusNotFound},

	{service.ErrInvalidArgument, http.StatusBadRequest},
}

// bizError 业务错误转成带状态码的 BizError，其余按 500 处理
func bizError(err error) error {
	for _, e := range errorStatus {
		if errors.Is(err, e.target) {
			return response.NewError(e.status, err.Error())
		}
	}
	return err
}

func badRequest(err error) error {
	return response.NewError(http.StatusBadRequest, "invalid request: "+err.Error())
}

func paramID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, response.NewError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
