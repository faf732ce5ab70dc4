package service

import "errors"

// 业务前置条件不满足，原样返回给调用方，不做重试
var (
	ErrTooSoon             = errors.New("already checked in within the last 24 hours")
	ErrCooldownActive      = errors.New("ad cooldown is still active")
	ErrIncompleteAd        = errors.New("ad was not watched to completion")
	ErrFeatureDisabled     = errors.New("feature is disabled")
	ErrAccountSuspended    = errors.New("account is suspended")
	ErrAlreadyCompleted    = errors.New("task already completed")
	ErrAlreadySubmitted    = errors.New("submission already pending review")
	ErrAlreadyProcessed    = errors.New("already processed")
	ErrBelowMinimum        = errors.New("amount is below the minimum withdrawal")
	ErrNoWallet            = errors.New("no wallet address on file")
	ErrInsufficientBalance = errors.New("insufficient balance")

	ErrAccountNotFound      = errors.New("account not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskInactive         = errors.New("task is not active")
	ErrVerificationRequired = errors.New("task requires verification, submit proof instead")
	ErrReferralNotEligible  = errors.New("referral is not eligible yet")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidDecision      = errors.New("invalid decision")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrNotFound             = errors.New("not found")
)

// 账户一致性问题，不应出现在正常流程中
var (
	ErrLedgerConflict  = errors.New("ledger conflict, please retry")
	ErrLedgerInvariant = errors.New("ledger invariant violated")
)

// Decision 管理员审核结果
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) Valid() bool {
	return d == DecisionApprove || d == DecisionReject
}
