package handler

import (
	"strconv"

	"Vine/config"
	"Vine/middleware"
	"Vine/models"
	"Vine/pkg/context"
	"Vine/pkg/response"
	"Vine/service"
	"Vine/types"

	"github.com/gin-gonic/gin"
)

// Admin 管理后台，所有接口要求 token 中 role=admin
type Admin struct {
	Config         *config.Config
	AdminService   service.IAdminService
	ContentService service.IContentService
}

func (h *Admin) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/admin")
	g.Use(middleware.Auth([]byte(h.Config.Jwt.Secret)), middleware.RequireAdmin())

	g.GET("/stats", context.Wrap(h.Stats))
	g.GET("/audit", context.Wrap(h.Audit))

	g.GET("/users", context.Wrap(h.ListUsers))
	g.POST("/users/:user_id/suspend", context.Wrap(h.Suspend))
	g.POST("/users/:user_id/adjust", context.Wrap(h.AdjustBalance))

	g.GET("/submissions", context.Wrap(h.ListSubmissions))
	g.POST("/submissions/:id/review", context.Wrap(h.ReviewSubmission))

	g.GET("/referrals", context.Wrap(h.ListReferrals))
	g.POST("/referrals/:id/process", context.Wrap(h.ProcessReferral))
	g.POST("/referrals/approve-eligible", context.Wrap(h.ApproveAllEligible))

	g.GET("/withdrawals", context.Wrap(h.ListWithdrawals))
	g.POST("/withdrawals/:id/process", context.Wrap(h.ProcessWithdrawal))

	g.GET("/settings", context.Wrap(h.ListSettings))
	g.PUT("/settings/:key", context.Wrap(h.UpdateSetting))

	g.GET("/tasks", context.Wrap(h.ListTasks))
	g.POST("/tasks", context.Wrap(h.CreateTask))
	g.PUT("/tasks/:id", context.Wrap(h.UpdateTask))
	g.DELETE("/tasks/:id", context.Wrap(h.DeleteTask))

	g.GET("/devotionals", context.Wrap(h.ListDevotionals))
	g.POST("/devotionals", context.Wrap(h.CreateDevotional))
	g.PUT("/devotionals/:id", context.Wrap(h.UpdateDevotional))
	g.DELETE("/devotionals/:id", context.Wrap(h.DeleteDevotional))

	g.GET("/announcements", context.Wrap(h.ListAnnouncements))
	g.POST("/announcements", context.Wrap(h.CreateAnnouncement))
	g.PUT("/announcements/:id", context.Wrap(h.UpdateAnnouncement))
	g.DELETE("/announcements/:id", context.Wrap(h.DeleteAnnouncement))
}

func adminID(c *gin.Context) string {
	uid, _ := context.GetUserID(c)
	return uid
}

func (h *Admin) Stats(c *gin.Context) error {
	stats, err := h.AdminService.Stats(c.Request.Context())
	if err != nil {
		return bizError(err)
	}
	response.Success(c, stats)
	return nil
}

func (h *Admin) Audit(c *gin.Context) error {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, err := h.AdminService.ListAudit(c.Request.Context(), limit)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, list)
	return nil
}

func (h *Admin) ListUsers(c *gin.Context) error {
	var req types.ListUsersReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return badRequest(err)
	}
	resp, err := h.AdminService.ListUsers(c.Request.Context(), &req)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}

func (h *Admin) Suspend(c *gin.Context) error {
	var req types.SuspendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	if err := h.AdminService.SetSuspended(c.Request.Context(), adminID(c), c.Param("user_id"), req.Suspended); err != nil {
		return bizError(err)
	}
	response.Success(c, gin.H{"suspended": req.Suspended})
	return nil
}

func (h *Admin) AdjustBalance(c *gin.Context) error {
	var req types.AdjustBalanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	acc, err := h.AdminService.AdjustBalance(c.Request.Context(), adminID(c), c.Param("user_id"), req.Amount, req.Reason)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, acc)
	return nil
}

func (h *Admin) ListSubmissions(c *gin.Context) error {
	var q types.StatusQuery
	_ = c.ShouldBindQuery(&q)
	list, err := h.AdminService.ListSubmissions(c.Request.Context(), models.SubmissionStatus(q.Status))
	if err != nil {
		return bizError(err)
	}
	response.Success(c, list)
	return nil
}

func (h *Admin) ReviewSubmission(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.DecisionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	s, err := h.AdminService.ReviewSubmission(c.Request.Context(), adminID(c), id, service.Decision(req.Decision))
	if err != nil {
		return bizError(err)
	}
	response.Success(c, s)
	return nil
}

func (h *Admin) ListReferrals(c *gin.Context) error {
	var q types.StatusQuery
	_ = c.ShouldBindQuery(&q)
	list, err := h.AdminService.ListReferrals(c.Request.Context(), models.ReferralStatus(q.Status))
	if err != nil {
		return bizError(err)
	}
	response.Success(c, list)
	return nil
}

func (h *Admin) ProcessReferral(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.DecisionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	ref, err := h.AdminService.ProcessReferral(c.Request.Context(), adminID(c), id, service.Decision(req.Decision))
	if err != nil {
		return bizError(err)
	}
	response.Success(c, ref)
	return nil
}

func (h *Admin) ApproveAllEligible(c *gin.Context) error {
	res, err := h.AdminService.ApproveAllEligible(c.Request.Context(), adminID(c))
	if err != nil {
		return bizError(err)
	}
	response.Success(c, res)
	return nil
}

func (h *Admin) ListWithdrawals(c *gin.Context) error {
	var q types.StatusQuery
	_ = c.ShouldBindQuery(&q)
	list, err := h.AdminService.ListWithdrawals(c.Request.Context(), models.WithdrawalStatus(q.Status))
	if err != nil {
		return bizError(err)
	}
	response.Success(c, list)
	return nil
}

func (h *Admin) ProcessWithdrawal(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.DecisionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	w, err := h.AdminService.ProcessWithdrawal(c.Request.Context(), adminID(c), id, service.Decision(req.Decision), req.Notes)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, w)
	return nil
}

func (h *Admin) ListSettings(c *gin.Context) error {
	raw, err := h.AdminService.ListSettings(c.Request.Context())
	if err != nil {
		return bizError(err)
	}
	response.Success(c, raw)
	return nil
}

func (h *Admin) UpdateSetting(c *gin.Context) error {
	var req types.UpdateSettingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	key := c.Param("key")
	if err := h.AdminService.UpdateSetting(c.Request.Context(), adminID(c), key, req.Value); err != nil {
		return bizError(err)
	}
	response.Success(c, gin.H{key: req.Value})
	return nil
}

func (h *Admin) ListTasks(c *gin.Context) error {
	list, err := h.ContentService.ListAllTasks(c.Request.Context())
	if err != nil {
		return bizError(err)
	}
	response.Success(c, list)
	return nil
}

func (h *Admin) CreateTask(c *gin.Context) error {
	var req types.TaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	task, err := h.ContentService.CreateTask(c.Request.Context(), &req)
	if err != nil {
		return bizError(err)
	}
	h.AdminService.Audit(c.Request.Context(), adminID(c), "create_task", strconv.FormatInt(task.ID, 10), map[string]any{"title": task.Title, "reward": task.Reward})
	response.Success(c, task)
	return nil
}

func (h *Admin) UpdateTask(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.TaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	task, err := h.ContentService.UpdateTask(c.Request.Context(), id, &req)
	if err != nil {
		return bizError(err)
	}
	h.AdminService.Audit(c.Request.Context(), adminID(c), "update_task", strconv.FormatInt(id, 10), map[string]any{"reward": task.Reward, "is_active": task.IsActive})
	response.Success(c, task)
	return nil
}

func (h *Admin) DeleteTask(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.ContentService.DeleteTask(c.Request.Context(), id); err != nil {
		return bizError(err)
	}
	h.AdminService.Audit(c.Request.Context(), adminID(c), "delete_task", strconv.FormatInt(id, 10), nil)
	response.Success(c, nil)
	return nil
}

func (h *Admin) ListDevotionals(c *gin.Context) error {
	list, err := h.ContentService.ListDevotionals(c.Request.Context())
	if err != nil {
		return bizError(err)
	}
	response.Success(c, list)
	return nil
}

func (h *Admin) CreateDevotional(c *gin.Context) error {
	var req types.DevotionalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	d, err := h.ContentService.CreateDevotional(c.Request.Context(), &req)
	if err != nil {
		return bizError(err)
	}
	h.AdminService.Audit(c.Request.Context(), adminID(c), "create_devotional", strconv.FormatInt(d.ID, 10), map[string]any{"scheduled_date": d.ScheduledDate})
	response.Success(c, d)
	return nil
}

func (h *Admin) UpdateDevotional(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.DevotionalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	d, err := h.ContentService.UpdateDevotional(c.Request.Context(), id, &req)
	if err != nil {
		return bizError(err)
	}
	h.AdminService.Audit(c.Request.Context(), adminID(c), "update_devotional", strconv.FormatInt(id, 10), nil)
	response.Success(c, d)
	return nil
}

func (h *Admin) DeleteDevotional(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.ContentService.DeleteDevotional(c.Request.Context(), id); err != nil {
		return bizError(err)
	}
	h.AdminService.Audit(c.Request.Context(), adminID(c), "delete_devotional", strconv.FormatInt(id, 10), nil)
	response.Success(c, nil)
	return nil
}

func (h *Admin) ListAnnouncements(c *gin.Context) error {
	list, err := h.ContentService.ListAnnouncements(c.Request.Context())
	if err != nil {
		return bizError(err)
	}
	response.Success(c, list)
	return nil
}

func (h *Admin) CreateAnnouncement(c *gin.Context) error {
	var req types.AnnouncementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	a, err := h.ContentService.CreateAnnouncement(c.Request.Context(), &req)
	if err != nil {
		return bizError(err)
	}
	h.AdminService.Audit(c.Request.Context(), adminID(c), "create_announcement", strconv.FormatInt(a.ID, 10), map[string]any{"title": a.Title})
	response.Success(c, a)
	return nil
}

func (h *Admin) UpdateAnnouncement(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.AnnouncementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return badRequest(err)
	}
	a, err := h.ContentService.UpdateAnnouncement(c.Request.Context(), id, &req)
	if err != nil {
		return bizError(err)
	}
	h.AdminService.Audit(c.Request.Context(), adminID(c), "update_announcement", strconv.FormatInt(id, 10), nil)
	response.Success(c, a)
	return nil
}

func (h *Admin) DeleteAnnouncement(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.ContentService.DeleteAnnouncement(c.Request.Context(), id); err != nil {
		return bizError(err)
	}
	h.AdminService.Audit(c.Request.Context(), adminID(c), "delete_announcement", strconv.FormatInt(id, 10), nil)
	response.Success(c, nil)
	return nil
}
