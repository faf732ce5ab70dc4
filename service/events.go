package service

import (
	"context"
	"encoding/json"
	"time"

	"Vine/pkg/log"
	"Vine/pkg/rocketmq"

	"go.uber.org/zap"
)

const (
	EventWithdrawalRequested = "withdrawal.requested"
	EventWithdrawalProcessed = "withdrawal.processed"
	EventReferralEligible    = "referral.eligible"
	EventReferralApproved    = "referral.approved"
	EventReferralRejected    = "referral.rejected"
	EventSubmissionReviewed  = "submission.reviewed"
)

type Event struct {
	Name       string    `json:"name"`
	UserID     string    `json:"user_id"`
	RefID      string    `json:"ref_id"`
	Amount     int64     `json:"amount,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type IEventBus interface {
	Publish(ctx context.Context, ev Event)
}

// EventBus 提交后投递，失败只记日志
type EventBus struct {
	Producer rocketmq.Producer
}

var _ IEventBus = (*EventBus)(nil)

func (e *EventBus) Publish(ctx context.Context, ev Event) {
	if e == nil || e.Producer == nil {
		return
	}
	body, err := json.Marshal(ev)
	if err != nil {
		log.L.Error("marshal event failed", zap.String("event", ev.Name), zap.Error(err))
		return
	}
	if err := e.Producer.SendMsg(ctx, ev.Name, ev.RefID, body); err != nil {
		log.L.Warn("publish event failed", zap.String("event", ev.Name), zap.String("ref_id", ev.RefID), zap.Error(err))
	}
}
