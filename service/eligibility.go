package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"Vine/dao"
	"Vine/models"
	"Vine/pkg/log"
	"Vine/pkg/snowflake"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const batchConcurrency = 4

type BatchResult struct {
	Succeeded int64   `json:"succeeded"`
	Failed    int64   `json:"failed"`
	FailedIDs []int64 `json:"failed_ids,omitempty"`
}

type IEligibilityService interface {
	SubmitTask(ctx context.Context, userID string, taskID int64, link string) (*models.TaskSubmission, error)
	ReviewSubmission(ctx context.Context, submissionID int64, decision Decision) (*models.TaskSubmission, error)
	ProcessReferral(ctx context.Context, referralID int64, decision Decision) (*models.Referral, error)
	// ApproveAllEligible 逐条处理，单条失败不影响其他
	ApproveAllEligible(ctx context.Context) (*BatchResult, error)
	// SweepReferrals 阈值调整后补齐 pending -> eligible
	SweepReferrals(ctx context.Context) (int64, error)
}

type EligibilityService struct {
	DB                *gorm.DB
	Ledger            ILedgerService
	Settings          ISettingsProvider
	Reward            *RewardService
	TaskDAO           *dao.Task
	TaskCompletionDAO *dao.TaskCompletion
	SubmissionDAO     *dao.TaskSubmission
	ReferralDAO       *dao.Referral
	Events            IEventBus
	Clock             Clock
}

var _ IEligibilityService = (*EligibilityService)(nil)

func (e *EligibilityService) SubmitTask(ctx context.Context, userID string, taskID int64, link string) (*models.TaskSubmission, error) {
	if link == "" {
		return nil, fmt.Errorf("%w: submission link is required", ErrInvalidArgument)
	}
	task, err := e.Reward.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsActive {
		return nil, ErrTaskInactive
	}

	var submission *models.TaskSubmission
	err = e.Ledger.WithAccountLock(ctx, userID, func() error {
		acc, err := e.Ledger.GetAccount(ctx, userID)
		if err != nil {
			return err
		}
		if acc.IsSuspended {
			return ErrAccountSuspended
		}
		done, err := e.TaskCompletionDAO.Exists(ctx, userID, taskID)
		if err != nil {
			return fmt.Errorf("check task completion: %w", err)
		}
		if done {
			return ErrAlreadyCompleted
		}

		now := e.Clock()
		existing, err := e.SubmissionDAO.FindByUserTask(ctx, userID, taskID)
		switch {
		case err == nil:
			switch existing.Status {
			case models.SubmissionPending:
				return ErrAlreadySubmitted
			case models.SubmissionApproved:
				return ErrAlreadyCompleted
			}
			rows, err := e.SubmissionDAO.Resubmit(ctx, existing.ID, link, now)
			if err != nil {
				return fmt.Errorf("resubmit task: %w", err)
			}
			if rows == 0 {
				return ErrAlreadySubmitted
			}
			existing.SubmissionLink = link
			existing.Status = models.SubmissionPending
			existing.CreatedAt = now
			existing.ReviewedAt = nil
			submission = existing
			return nil
		case dao.IsNotFound(err):
			submission = &models.TaskSubmission{
				ID:             snowflake.GenID(),
				UserID:         userID,
				TaskID:         taskID,
				SubmissionLink: link,
				Status:         models.SubmissionPending,
				CreatedAt:      now,
			}
			if err := e.SubmissionDAO.Create(ctx, submission); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrAlreadySubmitted
				}
				return fmt.Errorf("create submission: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("find submission: %w", err)
		}
	})
	if err != nil {
		return nil, reject("submit_task", err)
	}
	log.L.Info("task submitted", zap.String("user_id", userID), zap.Int64("task_id", taskID))
	return submission, nil
}

// ReviewSubmission 审核通过与发放奖励在同一事务内，发放失败时提交保持 pending
func (e *EligibilityService) ReviewSubmission(ctx context.Context, submissionID int64, decision Decision) (*models.TaskSubmission, error) {
	if !decision.Valid() {
		return nil, ErrInvalidDecision
	}
	submission, err := e.SubmissionDAO.FindById(ctx, submissionID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, fmt.Errorf("%w: submission %d", ErrNotFound, submissionID)
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	if submission.Status != models.SubmissionPending {
		return nil, ErrAlreadyProcessed
	}

	now := e.Clock()
	if decision == DecisionReject {
		rows, err := e.SubmissionDAO.Review(ctx, submissionID, models.SubmissionRejected, now)
		if err != nil {
			return nil, fmt.Errorf("reject submission: %w", err)
		}
		if rows == 0 {
			return nil, ErrAlreadyProcessed
		}
		submission.Status = models.SubmissionRejected
		submission.ReviewedAt = &now
		e.publishReviewed(ctx, submission)
		return submission, nil
	}

	task, err := e.Reward.findTask(ctx, submission.TaskID)
	if err != nil {
		return nil, err
	}
	settings, err := e.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	var promoted int64
	_, _, err = e.Ledger.MutateActive(ctx, submission.UserID, func(tx *gorm.DB, acc *models.Profile) (*models.Transaction, error) {
		rows, err := e.SubmissionDAO.Tx(tx).Review(ctx, submissionID, models.SubmissionApproved, now)
		if err != nil {
			return nil, fmt.Errorf("approve submission: %w", err)
		}
		if rows == 0 {
			return nil, ErrAlreadyProcessed
		}
		entry, n, err := e.Reward.completeTaskTx(ctx, tx, acc, task, settings)
		promoted = n
		return entry, err
	})
	if err != nil {
		return nil, reject("approve_submission", err)
	}
	submission.Status = models.SubmissionApproved
	submission.ReviewedAt = &now
	e.Reward.afterTaskCompleted(ctx, submission.UserID, promoted)
	e.publishReviewed(ctx, submission)
	return submission, nil
}

func (e *EligibilityService) publishReviewed(ctx context.Context, s *models.TaskSubmission) {
	log.L.Info("submission reviewed", zap.Int64("submission_id", s.ID), zap.String("status", string(s.Status)))
	e.Events.Publish(ctx, Event{
		Name:       EventSubmissionReviewed,
		UserID:     s.UserID,
		RefID:      strconv.FormatInt(s.ID, 10),
		Status:     string(s.Status),
		OccurredAt: e.Clock(),
	})
}

func (e *EligibilityService) ProcessReferral(ctx context.Context, referralID int64, decision Decision) (*models.Referral, error) {
	if !decision.Valid() {
		return nil, ErrInvalidDecision
	}
	referral, err := e.ReferralDAO.FindById(ctx, referralID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, fmt.Errorf("%w: referral %d", ErrNotFound, referralID)
		}
		return nil, fmt.Errorf("find referral: %w", err)
	}
	if referral.Status.Terminal() {
		return nil, ErrAlreadyProcessed
	}

	now := e.Clock()
	if decision == DecisionReject {
		rows, err := e.ReferralDAO.Reject(ctx, referralID, now)
		if err != nil {
			return nil, fmt.Errorf("reject referral: %w", err)
		}
		if rows == 0 {
			return nil, ErrAlreadyProcessed
		}
		referral.Status = models.ReferralRejected
		e.publishReferral(ctx, EventReferralRejected, referral, 0)
		return referral, nil
	}

	if referral.Status != models.ReferralEligible {
		return nil, ErrReferralNotEligible
	}
	settings, err := e.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	_, _, err = e.Ledger.MutateActive(ctx, referral.ReferrerID, func(tx *gorm.DB, acc *models.Profile) (*models.Transaction, error) {
		rows, err := e.ReferralDAO.Tx(tx).Approve(ctx, referralID, now)
		if err != nil {
			return nil, fmt.Errorf("approve referral: %w", err)
		}
		if rows == 0 {
			return nil, ErrAlreadyProcessed
		}
		return creditReferralBonus(acc, referralID, settings.ReferralBonus), nil
	})
	if err != nil {
		return nil, reject("approve_referral", err)
	}
	referral.Status = models.ReferralApproved
	referral.BonusPaid = true
	e.publishReferral(ctx, EventReferralApproved, referral, settings.ReferralBonus)
	return referral, nil
}

func (e *EligibilityService) publishReferral(ctx context.Context, name string, r *models.Referral, amount int64) {
	log.L.Info("referral processed", zap.Int64("referral_id", r.ID), zap.String("status", string(r.Status)))
	e.Events.Publish(ctx, Event{
		Name:       name,
		UserID:     r.ReferrerID,
		RefID:      strconv.FormatInt(r.ID, 10),
		Amount:     amount,
		Status:     string(r.Status),
		OccurredAt: e.Clock(),
	})
}

func (e *EligibilityService) ApproveAllEligible(ctx context.Context) (*BatchResult, error) {
	ids, err := e.ReferralDAO.EligibleIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list eligible referrals: %w", err)
	}

	var (
		succeeded atomic.Int64
		failed    = make([]error, len(ids))
	)
	p := pool.New().WithMaxGoroutines(batchConcurrency)
	for i, id := range ids {
		p.Go(func() {
			if _, err := e.ProcessReferral(ctx, id, DecisionApprove); err != nil {
				failed[i] = err
				log.L.Warn("approve referral failed", zap.Int64("referral_id", id), zap.Error(err))
				return
			}
			succeeded.Add(1)
		})
	}
	p.Wait()

	res := &BatchResult{Succeeded: succeeded.Load()}
	for i, err := range failed {
		if err != nil {
			res.Failed++
			res.FailedIDs = append(res.FailedIDs, ids[i])
		}
	}
	log.L.Info("approve all eligible referrals", zap.Int64("succeeded", res.Succeeded), zap.Int64("failed", res.Failed))
	return res, nil
}

func (e *EligibilityService) SweepReferrals(ctx context.Context) (int64, error) {
	settings, err := e.Settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	n, err := e.ReferralDAO.PromoteAllEligible(ctx, settings.TasksForReferralEligibility, e.Clock())
	if err != nil {
		return 0, fmt.Errorf("sweep referrals: %w", err)
	}
	if n > 0 {
		log.L.Info("referrals promoted by sweep", zap.Int64("count", n))
	}
	return n, nil
}
