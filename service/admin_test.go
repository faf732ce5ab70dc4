package service

import (
	"context"
	"testing"

	"Vine/models"
	"Vine/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.newAccount(t, "u1", "")

	_, err := env.admin.AdjustBalance(ctx, "admin", "u1", 0, "noop")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = env.admin.AdjustBalance(ctx, "admin", "u1", 10, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	acc, err := env.admin.AdjustBalance(ctx, "admin", "u1", 500, "event prize")
	require.NoError(t, err)
	assert.Equal(t, int64(500), acc.Balance)
	assert.Equal(t, int64(500), acc.TotalEarned)

	acc, err = env.admin.AdjustBalance(ctx, "admin", "u1", -200, "duplicate payout")
	require.NoError(t, err)
	assert.Equal(t, int64(300), acc.Balance)
	assert.Equal(t, int64(500), acc.TotalEarned)

	_, err = env.admin.AdjustBalance(ctx, "admin", "u1", -301, "too much")
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// 调账不受封禁限制
	require.NoError(t, env.admin.SetSuspended(ctx, "admin", "u1", true))
	acc, err = env.admin.AdjustBalance(ctx, "admin", "u1", -300, "fraud")
	require.NoError(t, err)
	assert.Zero(t, acc.Balance)

	_, err = env.admin.AdjustBalance(ctx, "admin", "ghost", 10, "prize")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	records, err := env.txDAO.ListRecords(ctx, "u1", "", 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "fraud", records[0].Description)
	assert.Equal(t, models.TxAdminAdjustment, records[0].Type)
	env.requireReconciled(t, "u1")

	audit, err := env.admin.ListAudit(ctx, 0)
	require.NoError(t, err)
	actions := map[string]int{}
	for _, a := range audit {
		actions[a.Action]++
	}
	assert.Equal(t, 3, actions["adjust_balance"])
	assert.Equal(t, 1, actions["suspend_user"])
}

func TestSetSuspendedUnknown(t *testing.T) {
	env := newTestEnv(t)
	err := env.admin.SetSuspended(context.Background(), "admin", "ghost", true)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAdminStatsAndLists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	referrer := env.newAccount(t, "referrer", "")
	env.newAccount(t, "friend", referrer.ReferralCode)
	makeEligible(t, env, "referrer", "friend2")
	env.credit(t, "friend", 3000)

	_, err := env.withdrawal.Request(ctx, "friend", 3000, "0xw")
	require.NoError(t, err)
	task := env.newTask(t, "Share a verse", 15, true)
	_, err = env.eligibility.SubmitTask(ctx, "friend", task.ID, "https://x.com/v/1")
	require.NoError(t, err)

	stats, err := env.admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(3000), stats.TotalRewardsIssued)
	assert.Equal(t, int64(1), stats.PendingWithdrawals)
	assert.Equal(t, int64(1), stats.EligibleReferrals)
	assert.Equal(t, int64(1), stats.PendingSubmissions)

	subs, err := env.admin.ListSubmissions(ctx, models.SubmissionPending)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.NotNil(t, subs[0].Profile)
	assert.Equal(t, "friend", subs[0].Profile.UserID)
	assert.Equal(t, "Share a verse", subs[0].TaskTitle)
	assert.Equal(t, int64(15), subs[0].TaskReward)

	refs, err := env.admin.ListReferrals(ctx, "")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	for _, r := range refs {
		require.NotNil(t, r.Referrer)
		require.NotNil(t, r.Referred)
		assert.Equal(t, "referrer", r.Referrer.UserID)
	}

	ws, err := env.admin.ListWithdrawals(ctx, models.WithdrawalPending)
	require.NoError(t, err)
	require.Len(t, ws, 1)
	assert.Equal(t, int64(3000), ws[0].Amount)

	users, err := env.admin.ListUsers(ctx, &types.ListUsersReq{Keyword: "friend", Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), users.Total)
}

func TestAdminWorkflowsAudited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.newAccount(t, "u1", "")
	env.credit(t, "u1", 3000)
	task := env.newTask(t, "Attend a service", 40, true)

	s, err := env.eligibility.SubmitTask(ctx, "u1", task.ID, "https://x.com/v/9")
	require.NoError(t, err)
	_, err = env.admin.ReviewSubmission(ctx, "admin-1", s.ID, DecisionApprove)
	require.NoError(t, err)

	w, err := env.withdrawal.Request(ctx, "u1", 3000, "0xw")
	require.NoError(t, err)
	_, err = env.admin.ProcessWithdrawal(ctx, "admin-1", w.ID, DecisionReject, "kyc failed")
	require.NoError(t, err)

	r := makeEligible(t, env, "u1", "friend")
	_, err = env.admin.ProcessReferral(ctx, "admin-1", r.ID, DecisionApprove)
	require.NoError(t, err)

	res, err := env.admin.ApproveAllEligible(ctx, "admin-1")
	require.NoError(t, err)
	assert.Zero(t, res.Succeeded)

	require.NoError(t, env.admin.UpdateSetting(ctx, "admin-1", KeyReferralBonus, "250"))
	err = env.admin.UpdateSetting(ctx, "admin-1", KeyReferralBonus, "-1")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	raw, err := env.admin.ListSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "250", raw[KeyReferralBonus])

	acc := env.profile(t, "u1")
	assert.Equal(t, int64(3000+40+100), acc.Balance)
	env.requireReconciled(t, "u1")

	audit, err := env.admin.ListAudit(ctx, 100)
	require.NoError(t, err)
	actions := map[string]bool{}
	for _, a := range audit {
		actions[a.Action] = true
		assert.NotZero(t, a.ID)
	}
	for _, want := range []string{
		"approve_submission", "reject_withdrawal", "approve_referral",
		"approve_all_referrals", "update_setting",
	} {
		assert.True(t, actions[want], want)
	}
}
