package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Vine/config"
	"Vine/dao"
	"Vine/models"
	"Vine/pkg/log"
	"Vine/pkg/snowflake"
	"Vine/pkg/utils"
	"Vine/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Identity struct {
	UserID        string
	Email         string
	Username      string
	EmailVerified bool
}

type IAccountService interface {
	// EnsureAccount 首次登录时开户，推荐码无效时忽略
	EnsureAccount(ctx context.Context, id Identity, referralCode string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, req *types.UpdateProfileReq) (*models.Profile, error)
	Dashboard(ctx context.Context, userID string) (*types.AccountDashboard, error)
	ListTransactions(ctx context.Context, userID string, req *types.ListTransactionsReq) (*types.ListTransactions, error)
	ListTasks(ctx context.Context, userID string) ([]types.TaskView, error)
	ListReferrals(ctx context.Context, userID string) ([]types.ReferralView, error)
	ListWithdrawals(ctx context.Context, userID string) ([]types.WithdrawalView, error)
	Leaderboard(ctx context.Context, limit int) ([]types.LeaderboardEntry, error)
}

type AccountService struct {
	Config            *config.Config
	DB                *gorm.DB
	Ledger            ILedgerService
	Settings          ISettingsProvider
	ProfileDAO        *dao.Profile
	TxDAO             *dao.Transaction
	TaskDAO           *dao.Task
	TaskCompletionDAO *dao.TaskCompletion
	SubmissionDAO     *dao.TaskSubmission
	ReferralDAO       *dao.Referral
	WithdrawalDAO     *dao.Withdrawal
	Clock             Clock
}

var _ IAccountService = (*AccountService)(nil)

func (a *AccountService) EnsureAccount(ctx context.Context, id Identity, referralCode string) (*models.Profile, error) {
	if id.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidArgument)
	}
	var profile *models.Profile
	err := a.Ledger.WithAccountLock(ctx, id.UserID, func() error {
		existing, err := a.ProfileDAO.FindByUserID(ctx, id.UserID)
		if err == nil {
			profile = existing
			return nil
		}
		if !dao.IsNotFound(err) {
			return fmt.Errorf("find profile: %w", err)
		}

		now := a.Clock()
		pk := snowflake.GenID()
		code, err := utils.GenReferralCode(a.Config.App.ReferralSalt, pk)
		if err != nil {
			return fmt.Errorf("gen referral code: %w", err)
		}
		username := id.Username
		if username == "" {
			username = strings.Split(id.Email, "@")[0]
		}
		profile = &models.Profile{
			ID:            pk,
			UserID:        id.UserID,
			Username:      username,
			Email:         id.Email,
			ReferralCode:  code,
			EmailVerified: id.EmailVerified,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		return a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			referrer := a.resolveReferrer(ctx, tx, referralCode, id.UserID)
			if referrer != nil {
				profile.ReferredBy = &referrer.ReferralCode
			}
			if err := a.ProfileDAO.Tx(tx).Create(ctx, profile); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: profile exists", ErrInvalidArgument)
				}
				return fmt.Errorf("create profile: %w", err)
			}
			if referrer == nil {
				return nil
			}
			return a.ReferralDAO.Tx(tx).Create(ctx, &models.Referral{
				ID:         snowflake.GenID(),
				ReferrerID: referrer.UserID,
				ReferredID: id.UserID,
				Status:     models.ReferralPending,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		})
	})
	if err != nil {
		return nil, err
	}
	log.L.Info("account ready", zap.String("user_id", profile.UserID), zap.String("referral_code", profile.ReferralCode))
	return profile, nil
}

// resolveReferrer 推荐码不存在或是自己时返回 nil
func (a *AccountService) resolveReferrer(ctx context.Context, tx *gorm.DB, code string, userID string) *models.Profile {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	referrer, err := a.ProfileDAO.Tx(tx).FindByReferralCode(ctx, code)
	if err != nil {
		if !dao.IsNotFound(err) {
			log.L.Warn("resolve referral code failed", zap.String("code", code), zap.Error(err))
		}
		return nil
	}
	if referrer.UserID == userID {
		return nil
	}
	return referrer
}

func (a *AccountService) UpdateProfile(ctx context.Context, userID string, req *types.UpdateProfileReq) (*models.Profile, error) {
	data := map[string]any{}
	if req.Username != nil {
		data["username"] = strings.TrimSpace(*req.Username)
	}
	if req.WalletAddress != nil {
		wallet := strings.TrimSpace(*req.WalletAddress)
		if wallet == "" {
			data["wallet_address"] = nil
		} else {
			data["wallet_address"] = wallet
		}
	}
	if len(data) > 0 {
		data["updated_at"] = a.Clock()
		rows, err := a.ProfileDAO.UpdateAttrs(ctx, userID, data)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		if rows == 0 {
			return nil, ErrAccountNotFound
		}
	}
	return a.Ledger.GetAccount(ctx, userID)
}

func (a *AccountService) Dashboard(ctx context.Context, userID string) (*types.AccountDashboard, error) {
	acc, err := a.Ledger.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings, err := a.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	now := a.Clock()
	d := &types.AccountDashboard{
		UserID:         acc.UserID,
		Username:       acc.Username,
		Balance:        acc.Balance,
		TotalEarned:    acc.TotalEarned,
		TasksCompleted: acc.TasksCompleted,
		CurrentStreak:  acc.CurrentStreak,
		ReferralCode:   acc.ReferralCode,
		WalletAddress:  acc.WalletAddress,
		IsSuspended:    acc.IsSuspended,
		LastCheckIn:    acc.LastCheckIn,
		LastAdWatch:    acc.LastAdWatch,
	}
	if acc.LastCheckIn != nil {
		if next := acc.LastCheckIn.Add(checkInInterval); next.After(now) {
			d.NextCheckIn = &next
		}
	}
	if acc.LastAdWatch != nil {
		if next := acc.LastAdWatch.Add(settings.AdCooldown()); next.After(now) {
			d.NextAdWatch = &next
		}
	}
	return d, nil
}

func (a *AccountService) ListTransactions(ctx context.Context, userID string, req *types.ListTransactionsReq) (*types.ListTransactions, error) {
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	logs, err := a.TxDAO.ListRecords(ctx, userID, req.Action, req.Cursor, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	resp := &types.ListTransactions{
		Records: make([]types.TransactionRecord, 0, limit),
	}
	if len(logs) > limit {
		resp.HasMore = true
		logs = logs[:limit]
	}
	for _, l := range logs {
		resp.Records = append(resp.Records, types.TransactionRecord{
			ID:          l.ID,
			Type:        string(l.Type),
			Amount:      l.Amount,
			Balance:     l.Balance,
			Description: l.Description,
			ReferenceID: l.ReferenceID,
			CreatedAt:   l.CreatedAt,
		})
	}
	if resp.HasMore {
		resp.NextCursor = logs[len(logs)-1].ID
	}
	return resp, nil
}

func (a *AccountService) ListTasks(ctx context.Context, userID string) ([]types.TaskView, error) {
	tasks, err := a.TaskDAO.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	doneIDs, err := a.TaskCompletionDAO.TaskIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	submissions, err := a.SubmissionDAO.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	done := make(map[int64]bool, len(doneIDs))
	for _, id := range doneIDs {
		done[id] = true
	}
	status := make(map[int64]string, len(submissions))
	for _, s := range submissions {
		status[s.TaskID] = string(s.Status)
	}

	out := make([]types.TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, types.TaskView{
			ID:                   t.ID,
			Title:                t.Title,
			Slug:                 t.Slug,
			Description:          t.Description,
			Type:                 string(t.Type),
			Platform:             t.Platform,
			ActionURL:            t.ActionURL,
			Reward:               t.Reward,
			RequiresVerification: t.RequiresVerification,
			Completed:            done[t.ID],
			SubmissionStatus:     status[t.ID],
		})
	}
	return out, nil
}

func (a *AccountService) ListReferrals(ctx context.Context, userID string) ([]types.ReferralView, error) {
	referrals, err := a.ReferralDAO.ListByReferrer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}
	settings, err := a.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(referrals))
	for _, r := range referrals {
		ids = append(ids, r.ReferredID)
	}
	profiles, err := a.ProfileDAO.FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load referred profiles: %w", err)
	}

	out := make([]types.ReferralView, 0, len(referrals))
	for _, r := range referrals {
		view := types.ReferralView{
			ID:             r.ID,
			Status:         string(r.Status),
			TasksCompleted: r.TasksCompleted,
			TasksRequired:  settings.TasksForReferralEligibility,
			BonusPaid:      r.BonusPaid,
			CreatedAt:      r.CreatedAt,
		}
		if p, ok := profiles[r.ReferredID]; ok {
			view.ReferredName = p.Username
		}
		out = append(out, view)
	}
	return out, nil
}

func (a *AccountService) ListWithdrawals(ctx context.Context, userID string) ([]types.WithdrawalView, error) {
	list, err := a.WithdrawalDAO.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	return toWithdrawalViews(list), nil
}

func toWithdrawalViews(list []models.Withdrawal) []types.WithdrawalView {
	out := make([]types.WithdrawalView, 0, len(list))
	for _, w := range list {
		out = append(out, types.WithdrawalView{
			ID:            w.ID,
			UserID:        w.UserID,
			Amount:        w.Amount,
			WalletAddress: w.WalletAddress,
			Status:        string(w.Status),
			AdminNotes:    w.AdminNotes,
			ProcessedAt:   w.ProcessedAt,
			CreatedAt:     w.CreatedAt,
		})
	}
	return out
}

func (a *AccountService) Leaderboard(ctx context.Context, limit int) ([]types.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	list, err := a.ProfileDAO.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	out := make([]types.LeaderboardEntry, 0, len(list))
	for i, p := range list {
		out = append(out, types.LeaderboardEntry{
			Rank:           i + 1,
			Username:       p.Username,
			TotalEarned:    p.TotalEarned,
			TasksCompleted: p.TasksCompleted,
		})
	}
	return out, nil
}
