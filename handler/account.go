package handler

import (
	"net/http"
	"strconv"

	"Vine/config"
	"Vine/middleware"
	"Vine/pkg/context"
	"Vine/pkg/response"
	"Vine/service"
	"Vine/types"

	"github.com/gin-gonic/gin"
)

type Account struct {
	Config         *config.Config
	AccountService service.IAccountService
}

func (a *Account) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(a.Config.Jwt.Secret))
	g := r.Group("/v1")
	g.Use(authorize)
	g.POST("/account/bootstrap", context.Wrap(a.Bootstrap))
	g.GET("/account", context.Wrap(a.Dashboard))
	g.PUT("/account", context.Wrap(a.UpdateProfile))
	g.GET("/rewards/transactions", context.Wrap(a.Transactions))
	g.GET("/referrals", context.Wrap(a.Referrals))
	g.GET("/withdrawals", context.Wrap(a.Withdrawals))
	g.GET("/leaderboard", context.Wrap(a.Leaderboard))
}

func currentUser(c *gin.Context) (string, error) {
	userID, err := context.GetUserID(c)
	if err != nil {
		return "", response.NewError(http.StatusUnauthorized, "not logged in")
	}
	return userID, nil
}

func (a *Account) Bootstrap(c *gin.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req types.BootstrapReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	email := context.GetEmail(c)
	if email == "" {
		email = req.Email
	}
	profile, err := a.AccountService.EnsureAccount(c.Request.Context(), service.Identity{
		UserID:        userID,
		Email:         email,
		Username:      req.Username,
		EmailVerified: req.EmailVerified,
	}, req.ReferralCode)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, profile)
	return nil
}

func (a *Account) Dashboard(c *gin.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	d, err := a.AccountService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, d)
	return nil
}

func (a *Account) UpdateProfile(c *gin.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req types.UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	profile, err := a.AccountService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, profile)
	return nil
}

func (a *Account) Transactions(c *gin.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req types.ListTransactionsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return badRequest(err)
	}
	resp, err := a.AccountService.ListTransactions(c.Request.Context(), userID, &req)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}

func (a *Account) Referrals(c *gin.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	list, err := a.AccountService.ListReferrals(c.Request.Context(), userID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, list)
	return nil
}

func (a *Account) Withdrawals(c *gin.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	list, err := a.AccountService.ListWithdrawals(c.Request.Context(), userID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, list)
	return nil
}

func (a *Account) Leaderboard(c *gin.Context) error {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	list, err := a.AccountService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, list)
	return nil
}
