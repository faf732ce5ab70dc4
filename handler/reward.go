package handler

import (
	"Vine/config"
	"Vine/middleware"
	"Vine/models"
	"Vine/pkg/context"
	"Vine/pkg/ratelimit"
	"Vine/pkg/response"
	"Vine/service"
	"Vine/types"

	"github.com/gin-gonic/gin"
)

type Reward struct {
	Config             *config.Config
	Limiter            *ratelimit.Registry
	RewardService      service.IRewardService
	EligibilityService service.IEligibilityService
	AccountService     service.IAccountService
	WithdrawalService  service.IWithdrawalService
}

func (h *Reward) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))
	g := r.Group("/v1")
	g.Use(authorize)
	g.GET("/tasks", context.Wrap(h.Tasks))

	// 会改动余额的接口按用户限流
	limited := g.Group("")
	limited.Use(middleware.RateLimit(h.Limiter))
	limited.POST("/rewards/check-in", context.Wrap(h.CheckIn))
	limited.POST("/rewards/ad-watch", context.Wrap(h.WatchAd))
	limited.POST("/tasks/:id/complete", context.Wrap(h.CompleteTask))
	limited.POST("/tasks/:id/submit", context.Wrap(h.SubmitTask))
	limited.POST("/withdrawals", context.Wrap(h.RequestWithdrawal))
}

func (h *Reward) CheckIn(c *gin.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	res, err := h.RewardService.CheckIn(c.Request.Context(), userID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, res)
	return nil
}

func (h *Reward) WatchAd(c *gin.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req types.AdWatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	res, err := h.RewardService.WatchAd(c.Request.Context(), userID, models.AdType(req.AdType), req.Completed)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, res)
	return nil
}

func (h *Reward) Tasks(c *gin.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	list, err := h.AccountService.ListTasks(c.Request.Context(), userID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, list)
	return nil
}

func (h *Reward) CompleteTask(c *gin.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	taskID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.RewardService.CompleteTask(c.Request.Context(), userID, taskID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, res)
	return nil
}

func (h *Reward) SubmitTask(c *gin.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	taskID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.SubmitTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	s, err := h.EligibilityService.SubmitTask(c.Request.Context(), userID, taskID, req.SubmissionLink)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, s)
	return nil
}

func (h *Reward) RequestWithdrawal(c *gin.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req types.WithdrawalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	w, err := h.WithdrawalService.Request(c.Request.Context(), userID, req.Amount, req.WalletAddress)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, w)
	return nil
}
