package service

import (
	"context"
	"fmt"

	"Vine/dao"
	"Vine/models"
	"Vine/pkg/snowflake"
	"Vine/types"

	"github.com/gosimple/slug"
)

type IContentService interface {
	ListAllTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, req *types.TaskReq) (*models.Task, error)
	UpdateTask(ctx context.Context, id int64, req *types.TaskReq) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	TodayDevotional(ctx context.Context) (*models.Devotional, error)
	ListDevotionals(ctx context.Context) ([]models.Devotional, error)
	CreateDevotional(ctx context.Context, req *types.DevotionalReq) (*models.Devotional, error)
	UpdateDevotional(ctx context.Context, id int64, req *types.DevotionalReq) (*models.Devotional, error)
	DeleteDevotional(ctx context.Context, id int64) error

	ActiveAnnouncements(ctx context.Context) ([]models.Announcement, error)
	ListAnnouncements(ctx context.Context) ([]models.Announcement, error)
	CreateAnnouncement(ctx context.Context, req *types.AnnouncementReq) (*models.Announcement, error)
	UpdateAnnouncement(ctx context.Context, id int64, req *types.AnnouncementReq) (*models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int64) error
}

// ContentService 任务、灵修、公告的简单增删改
type ContentService struct {
	TaskDAO         *dao.Task
	DevotionalDAO   *dao.Devotional
	AnnouncementDAO *dao.Announcement
	Clock           Clock
}

var _ IContentService = (*ContentService)(nil)

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func notFound(kind string, id int64, err error) error {
	if dao.IsNotFound(err) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
	}
	return fmt.Errorf("find %s %d: %w", kind, id, err)
}

func (c *ContentService) ListAllTasks(ctx context.Context) ([]models.Task, error) {
	return c.TaskDAO.ListAll(ctx)
}

func (c *ContentService) CreateTask(ctx context.Context, req *types.TaskReq) (*models.Task, error) {
	if req.Reward <= 0 {
		return nil, ErrInvalidAmount
	}
	now := c.Clock()
	taskType := models.TaskType(req.Type)
	if taskType == "" {
		taskType = models.TaskTypeCustom
	}
	task := &models.Task{
		ID:                   snowflake.GenID(),
		Title:                req.Title,
		Slug:                 slug.Make(req.Title),
		Description:          req.Description,
		Type:                 taskType,
		Platform:             req.Platform,
		ActionURL:            req.ActionURL,
		Reward:               req.Reward,
		IsActive:             boolOr(req.IsActive, true),
		RequiresVerification: req.RequiresVerification,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := c.TaskDAO.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (c *ContentService) UpdateTask(ctx context.Context, id int64, req *types.TaskReq) (*models.Task, error) {
	if req.Reward <= 0 {
		return nil, ErrInvalidAmount
	}
	task, err := c.TaskDAO.FindById(ctx, id)
	if err != nil {
		return nil, notFound("task", id, err)
	}
	data := map[string]any{
		"title":                 req.Title,
		"slug":                  slug.Make(req.Title),
		"description":           req.Description,
		"platform":              req.Platform,
		"action_url":            req.ActionURL,
		"reward":                req.Reward,
		"is_active":             boolOr(req.IsActive, task.IsActive),
		"requires_verification": req.RequiresVerification,
		"updated_at":            c.Clock(),
	}
	if req.Type != "" {
		data["type"] = req.Type
	}
	if _, err := c.TaskDAO.UpdateById(ctx, id, data); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return c.TaskDAO.FindById(ctx, id)
}

func (c *ContentService) DeleteTask(ctx context.Context, id int64) error {
	rows, err := c.TaskDAO.DeleteById(ctx, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: task %d", ErrNotFound, id)
	}
	return nil
}

func (c *ContentService) TodayDevotional(ctx context.Context) (*models.Devotional, error) {
	today := c.Clock().Format("2006-01-02")
	d, err := c.DevotionalDAO.FindByDate(ctx, today)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, fmt.Errorf("%w: devotional for %s", ErrNotFound, today)
		}
		return nil, fmt.Errorf("find devotional: %w", err)
	}
	return d, nil
}

func (c *ContentService) ListDevotionals(ctx context.Context) ([]models.Devotional, error) {
	return c.DevotionalDAO.List(ctx)
}

func (c *ContentService) CreateDevotional(ctx context.Context, req *types.DevotionalReq) (*models.Devotional, error) {
	now := c.Clock()
	d := &models.Devotional{
		ID:            snowflake.GenID(),
		Title:         req.Title,
		Slug:          slug.Make(req.ScheduledDate + " " + req.Title),
		Scripture:     req.Scripture,
		Content:       req.Content,
		ScheduledDate: req.ScheduledDate,
		IsActive:      boolOr(req.IsActive, true),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := c.DevotionalDAO.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create devotional: %w", err)
	}
	return d, nil
}

func (c *ContentService) UpdateDevotional(ctx context.Context, id int64, req *types.DevotionalReq) (*models.Devotional, error) {
	d, err := c.DevotionalDAO.FindById(ctx, id)
	if err != nil {
		return nil, notFound("devotional", id, err)
	}
	_, err = c.DevotionalDAO.UpdateById(ctx, id, map[string]any{
		"title":          req.Title,
		"slug":           slug.Make(req.ScheduledDate + " " + req.Title),
		"scripture":      req.Scripture,
		"content":        req.Content,
		"scheduled_date": req.ScheduledDate,
		"is_active":      boolOr(req.IsActive, d.IsActive),
		"updated_at":     c.Clock(),
	})
	if err != nil {
		return nil, fmt.Errorf("update devotional: %w", err)
	}
	return c.DevotionalDAO.FindById(ctx, id)
}

func (c *ContentService) DeleteDevotional(ctx context.Context, id int64) error {
	rows, err := c.DevotionalDAO.DeleteById(ctx, id)
	if err != nil {
		return fmt.Errorf("delete devotional: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: devotional %d", ErrNotFound, id)
	}
	return nil
}

func (c *ContentService) ActiveAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	return c.AnnouncementDAO.ListActive(ctx)
}

func (c *ContentService) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	return c.AnnouncementDAO.List(ctx)
}

func (c *ContentService) CreateAnnouncement(ctx context.Context, req *types.AnnouncementReq) (*models.Announcement, error) {
	a := &models.Announcement{
		ID:        snowflake.GenID(),
		Title:     req.Title,
		Content:   req.Content,
		IsActive:  boolOr(req.IsActive, true),
		CreatedAt: c.Clock(),
	}
	if err := c.AnnouncementDAO.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	return a, nil
}

func (c *ContentService) UpdateAnnouncement(ctx context.Context, id int64, req *types.AnnouncementReq) (*models.Announcement, error) {
	a, err := c.AnnouncementDAO.FindById(ctx, id)
	if err != nil {
		return nil, notFound("announcement", id, err)
	}
	_, err = c.AnnouncementDAO.UpdateById(ctx, id, map[string]any{
		"title":     req.Title,
		"content":   req.Content,
		"is_active": boolOr(req.IsActive, a.IsActive),
	})
	if err != nil {
		return nil, fmt.Errorf("update announcement: %w", err)
	}
	return c.AnnouncementDAO.FindById(ctx, id)
}

func (c *ContentService) DeleteAnnouncement(ctx context.Context, id int64) error {
	rows, err := c.AnnouncementDAO.DeleteById(ctx, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: announcement %d", ErrNotFound, id)
	}
	return nil
}
