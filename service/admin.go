package service

import (
	"context"
	"fmt"
	"strconv"

	"Vine/dao"
	"Vine/models"
	"Vine/pkg/log"
	"Vine/pkg/snowflake"
	"Vine/types"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type IAdminService interface {
	Stats(ctx context.Context) (*types.AdminStats, error)
	ListUsers(ctx context.Context, req *types.ListUsersReq) (*types.ListUsersResp, error)
	// AdjustBalance 管理员调账，不受奖励规则与封禁限制，但余额不能为负
	AdjustBalance(ctx context.Context, adminID, userID string, amount int64, reason string) (*models.Profile, error)
	SetSuspended(ctx context.Context, adminID, userID string, suspended bool) error

	ListSubmissions(ctx context.Context, status models.SubmissionStatus) ([]types.SubmissionWithProfile, error)
	ReviewSubmission(ctx context.Context, adminID string, submissionID int64, decision Decision) (*models.TaskSubmission, error)

	ListReferrals(ctx context.Context, status models.ReferralStatus) ([]types.ReferralWithProfiles, error)
	ProcessReferral(ctx context.Context, adminID string, referralID int64, decision Decision) (*models.Referral, error)
	ApproveAllEligible(ctx context.Context, adminID string) (*BatchResult, error)

	ListWithdrawals(ctx context.Context, status models.WithdrawalStatus) ([]types.WithdrawalView, error)
	ProcessWithdrawal(ctx context.Context, adminID string, withdrawalID int64, decision Decision, notes string) (*models.Withdrawal, error)

	ListSettings(ctx context.Context) (map[string]string, error)
	UpdateSetting(ctx context.Context, adminID, key, value string) error

	Audit(ctx context.Context, adminID, action, targetID string, detail map[string]any)
	ListAudit(ctx context.Context, limit int) ([]models.AdminAction, error)
}

type AdminService struct {
	Ledger         ILedgerService
	Settings       ISettingsService
	Eligibility    IEligibilityService
	Withdrawal     IWithdrawalService
	ProfileDAO     *dao.Profile
	TaskDAO        *dao.Task
	SubmissionDAO  *dao.TaskSubmission
	ReferralDAO    *dao.Referral
	WithdrawalDAO  *dao.Withdrawal
	AdminActionDAO *dao.AdminAction
	Clock          Clock
}

var _ IAdminService = (*AdminService)(nil)

func (a *AdminService) Stats(ctx context.Context) (*types.AdminStats, error) {
	users, issued, err := a.ProfileDAO.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("profile totals: %w", err)
	}
	pendingW, err := a.WithdrawalDAO.CountByStatus(ctx, models.WithdrawalPending)
	if err != nil {
		return nil, fmt.Errorf("count withdrawals: %w", err)
	}
	eligible, err := a.ReferralDAO.CountByStatus(ctx, models.ReferralEligible)
	if err != nil {
		return nil, fmt.Errorf("count referrals: %w", err)
	}
	pendingS, err := a.SubmissionDAO.CountByStatus(ctx, models.SubmissionPending)
	if err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}
	return &types.AdminStats{
		TotalUsers:         users,
		TotalRewardsIssued: issued,
		PendingWithdrawals: pendingW,
		EligibleReferrals:  eligible,
		PendingSubmissions: pendingS,
	}, nil
}

func (a *AdminService) ListUsers(ctx context.Context, req *types.ListUsersReq) (*types.ListUsersResp, error) {
	list, total, err := a.ProfileDAO.Search(ctx, req.Keyword, req.Page, req.Size)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	resp := &types.ListUsersResp{Users: make([]types.AdminUser, 0, len(list)), Total: total}
	for _, p := range list {
		resp.Users = append(resp.Users, types.AdminUser{
			UserID:         p.UserID,
			Username:       p.Username,
			Email:          p.Email,
			Balance:        p.Balance,
			TotalEarned:    p.TotalEarned,
			TasksCompleted: p.TasksCompleted,
			IsSuspended:    p.IsSuspended,
			EmailVerified:  p.EmailVerified,
			CreatedAt:      p.CreatedAt,
		})
	}
	return resp, nil
}

func (a *AdminService) AdjustBalance(ctx context.Context, adminID, userID string, amount int64, reason string) (*models.Profile, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidArgument)
	}
	acc, _, err := a.Ledger.Mutate(ctx, userID, func(tx *gorm.DB, acc *models.Profile) (*models.Transaction, error) {
		if acc.Balance+amount < 0 {
			return nil, ErrInsufficientBalance
		}
		acc.Balance += amount
		if amount > 0 {
			acc.TotalEarned += amount
		}
		return &models.Transaction{
			Type:        models.TxAdminAdjustment,
			Amount:      amount,
			Description: reason,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	a.Audit(ctx, adminID, "adjust_balance", userID, map[string]any{"amount": amount, "reason": reason})
	return acc, nil
}

func (a *AdminService) SetSuspended(ctx context.Context, adminID, userID string, suspended bool) error {
	// 与账户变动串行，避免与进行中的奖励交错
	err := a.Ledger.WithAccountLock(ctx, userID, func() error {
		rows, err := a.ProfileDAO.UpdateAttrs(ctx, userID, map[string]any{
			"is_suspended": suspended,
			"updated_at":   a.Clock(),
		})
		if err != nil {
			return fmt.Errorf("update suspension: %w", err)
		}
		if rows == 0 {
			return ErrAccountNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	action := "unsuspend_user"
	if suspended {
		action = "suspend_user"
	}
	a.Audit(ctx, adminID, action, userID, nil)
	return nil
}

func (a *AdminService) ListSubmissions(ctx context.Context, status models.SubmissionStatus) ([]types.SubmissionWithProfile, error) {
	list, err := a.SubmissionDAO.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	userIDs := make([]string, 0, len(list))
	for _, s := range list {
		userIDs = append(userIDs, s.UserID)
	}
	profiles, err := a.ProfileDAO.FindByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	tasks, err := a.TaskDAO.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	taskByID := make(map[int64]models.Task, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
	}

	out := make([]types.SubmissionWithProfile, 0, len(list))
	for _, s := range list {
		item := types.SubmissionWithProfile{
			ID:             s.ID,
			TaskID:         s.TaskID,
			SubmissionLink: s.SubmissionLink,
			Status:         string(s.Status),
			CreatedAt:      s.CreatedAt,
			ReviewedAt:     s.ReviewedAt,
			Profile:        brief(profiles[s.UserID]),
		}
		if t, ok := taskByID[s.TaskID]; ok {
			item.TaskTitle = t.Title
			item.TaskReward = t.Reward
		}
		out = append(out, item)
	}
	return out, nil
}

func (a *AdminService) ReviewSubmission(ctx context.Context, adminID string, submissionID int64, decision Decision) (*models.TaskSubmission, error) {
	s, err := a.Eligibility.ReviewSubmission(ctx, submissionID, decision)
	if err != nil {
		return nil, err
	}
	a.Audit(ctx, adminID, string(decision)+"_submission", strconv.FormatInt(submissionID, 10), map[string]any{"user_id": s.UserID, "task_id": s.TaskID})
	return s, nil
}

func (a *AdminService) ListReferrals(ctx context.Context, status models.ReferralStatus) ([]types.ReferralWithProfiles, error) {
	list, err := a.ReferralDAO.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}
	userIDs := make([]string, 0, len(list)*2)
	for _, r := range list {
		userIDs = append(userIDs, r.ReferrerID, r.ReferredID)
	}
	profiles, err := a.ProfileDAO.FindByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	out := make([]types.ReferralWithProfiles, 0, len(list))
	for _, r := range list {
		out = append(out, types.ReferralWithProfiles{
			ID:             r.ID,
			Status:         string(r.Status),
			TasksCompleted: r.TasksCompleted,
			BonusPaid:      r.BonusPaid,
			CreatedAt:      r.CreatedAt,
			Referrer:       brief(profiles[r.ReferrerID]),
			Referred:       brief(profiles[r.ReferredID]),
		})
	}
	return out, nil
}

func brief(p *models.Profile) *types.ProfileBrief {
	if p == nil {
		return nil
	}
	return &types.ProfileBrief{UserID: p.UserID, Username: p.Username, Email: p.Email}
}

func (a *AdminService) ProcessReferral(ctx context.Context, adminID string, referralID int64, decision Decision) (*models.Referral, error) {
	r, err := a.Eligibility.ProcessReferral(ctx, referralID, decision)
	if err != nil {
		return nil, err
	}
	a.Audit(ctx, adminID, string(decision)+"_referral", strconv.FormatInt(referralID, 10), map[string]any{"referrer_id": r.ReferrerID})
	return r, nil
}

func (a *AdminService) ApproveAllEligible(ctx context.Context, adminID string) (*BatchResult, error) {
	res, err := a.Eligibility.ApproveAllEligible(ctx)
	if err != nil {
		return nil, err
	}
	a.Audit(ctx, adminID, "approve_all_referrals", "", map[string]any{"succeeded": res.Succeeded, "failed": res.Failed})
	return res, nil
}

func (a *AdminService) ListWithdrawals(ctx context.Context, status models.WithdrawalStatus) ([]types.WithdrawalView, error) {
	list, err := a.WithdrawalDAO.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	return toWithdrawalViews(list), nil
}

func (a *AdminService) ProcessWithdrawal(ctx context.Context, adminID string, withdrawalID int64, decision Decision, notes string) (*models.Withdrawal, error) {
	w, err := a.Withdrawal.Process(ctx, withdrawalID, decision, notes)
	if err != nil {
		return nil, err
	}
	a.Audit(ctx, adminID, string(decision)+"_withdrawal", strconv.FormatInt(withdrawalID, 10), map[string]any{"amount": w.Amount, "notes": notes})
	return w, nil
}

func (a *AdminService) ListSettings(ctx context.Context) (map[string]string, error) {
	return a.Settings.Raw(ctx)
}

func (a *AdminService) UpdateSetting(ctx context.Context, adminID, key, value string) error {
	if err := a.Settings.Update(ctx, key, value); err != nil {
		return err
	}
	a.Audit(ctx, adminID, "update_setting", key, map[string]any{"value": value})
	return nil
}

// Audit 审计写入失败不影响已完成的操作
func (a *AdminService) Audit(ctx context.Context, adminID, action, targetID string, detail map[string]any) {
	row := &models.AdminAction{
		ID:        snowflake.GenID(),
		AdminID:   adminID,
		Action:    action,
		TargetID:  targetID,
		Detail:    datatypes.JSONMap(detail),
		CreatedAt: a.Clock(),
	}
	if err := a.AdminActionDAO.Create(ctx, row); err != nil {
		log.L.Error("write admin audit failed", zap.String("action", action), zap.String("target_id", targetID), zap.Error(err))
	}
}

func (a *AdminService) ListAudit(ctx context.Context, limit int) ([]models.AdminAction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return a.AdminActionDAO.ListRecent(ctx, limit)
}
