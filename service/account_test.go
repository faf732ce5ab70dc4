package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"Vine/models"
	"Vine/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.account.EnsureAccount(ctx, Identity{UserID: "u1", Email: "grace@vine.test", EmailVerified: true}, "")
	require.NoError(t, err)
	assert.Equal(t, "grace", p.Username)
	assert.Zero(t, p.Balance)
	assert.Zero(t, p.CurrentStreak)
	assert.True(t, p.EmailVerified)
	assert.GreaterOrEqual(t, len(p.ReferralCode), 8)
	assert.Equal(t, strings.ToUpper(p.ReferralCode), p.ReferralCode)
	assert.Nil(t, p.ReferredBy)

	again, err := env.account.EnsureAccount(ctx, Identity{UserID: "u1", Email: "other@vine.test"}, "")
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, p.ReferralCode, again.ReferralCode)

	_, err = env.account.EnsureAccount(ctx, Identity{}, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEnsureAccountReferral(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	referrer := env.newAccount(t, "referrer", "")

	friend := env.newAccount(t, "friend", " "+strings.ToLower(referrer.ReferralCode)+" ")
	require.NotNil(t, friend.ReferredBy)
	assert.Equal(t, referrer.ReferralCode, *friend.ReferredBy)

	r, err := env.eligibility.ReferralDAO.FindByReferred(ctx, "friend")
	require.NoError(t, err)
	assert.Equal(t, "referrer", r.ReferrerID)
	assert.Equal(t, models.ReferralPending, r.Status)
	assert.Zero(t, r.TasksCompleted)

	stranger := env.newAccount(t, "stranger", "NOPE0000")
	assert.Nil(t, stranger.ReferredBy)
	_, err = env.eligibility.ReferralDAO.FindByReferred(ctx, "stranger")
	assert.Error(t, err)

	views, err := env.account.ListReferrals(ctx, "referrer")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "friend", views[0].ReferredName)
	assert.Equal(t, int64(10), views[0].TasksRequired)
}

func TestDashboardNextTimes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.newAccount(t, "u1", "")

	d, err := env.account.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, d.NextCheckIn)
	assert.Nil(t, d.NextAdWatch)

	start := env.clock.Now()
	_, err = env.reward.CheckIn(ctx, "u1")
	require.NoError(t, err)
	_, err = env.reward.WatchAd(ctx, "u1", models.AdRewarded, true)
	require.NoError(t, err)

	d, err = env.account.Dashboard(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, d.NextCheckIn)
	require.NotNil(t, d.NextAdWatch)
	assert.True(t, d.NextCheckIn.Equal(start.Add(24*time.Hour)))
	assert.True(t, d.NextAdWatch.Equal(start.Add(5*time.Minute)))
	assert.Equal(t, int64(75), d.Balance)

	env.clock.Advance(25 * time.Hour)
	d, err = env.account.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, d.NextCheckIn)
	assert.Nil(t, d.NextAdWatch)
}

func TestListTransactionsCursor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.newAccount(t, "u1", "")
	env.credit(t, "u1", 5000)
	for i := 0; i < 3; i++ {
		_, err := env.reward.CheckIn(ctx, "u1")
		require.NoError(t, err)
		env.clock.Advance(24 * time.Hour)
	}
	_, err := env.withdrawal.Request(ctx, "u1", 3000, "0xw")
	require.NoError(t, err)

	page, err := env.account.ListTransactions(ctx, "u1", &types.ListTransactionsReq{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page.Records, 3)
	assert.True(t, page.HasMore)
	assert.Equal(t, "withdrawal", page.Records[0].Type)
	assert.Equal(t, page.Records[2].ID, page.NextCursor)

	next, err := env.account.ListTransactions(ctx, "u1", &types.ListTransactionsReq{Limit: 3, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, next.Records, 2)
	assert.False(t, next.HasMore)
	assert.Equal(t, "admin_adjustment", next.Records[1].Type)

	income, err := env.account.ListTransactions(ctx, "u1", &types.ListTransactionsReq{Action: "income"})
	require.NoError(t, err)
	assert.Len(t, income.Records, 4)
	expense, err := env.account.ListTransactions(ctx, "u1", &types.ListTransactionsReq{Action: "expense"})
	require.NoError(t, err)
	assert.Len(t, expense.Records, 1)
}

func TestListTasksView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.newAccount(t, "u1", "")
	plain := env.newTask(t, "Like our page", 10, false)
	verified := env.newTask(t, "Record a video", 90, true)

	_, err := env.reward.CompleteTask(ctx, "u1", plain.ID)
	require.NoError(t, err)
	_, err = env.eligibility.SubmitTask(ctx, "u1", verified.ID, "https://youtu.be/abc")
	require.NoError(t, err)

	views, err := env.account.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	byID := map[int64]types.TaskView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	assert.True(t, byID[plain.ID].Completed)
	assert.Equal(t, "like-our-page", byID[plain.ID].Slug)
	assert.False(t, byID[verified.ID].Completed)
	assert.Equal(t, "pending", byID[verified.ID].SubmissionStatus)
}

func TestUpdateProfileAndLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.newAccount(t, "a", "")
	env.newAccount(t, "b", "")
	env.newAccount(t, "c", "")
	env.credit(t, "a", 10)
	env.credit(t, "b", 30)
	env.credit(t, "c", 20)

	name := "  Ruth "
	p, err := env.account.UpdateProfile(ctx, "a", &types.UpdateProfileReq{Username: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ruth", p.Username)

	empty := ""
	p, err = env.account.UpdateProfile(ctx, "a", &types.UpdateProfileReq{WalletAddress: &empty})
	require.NoError(t, err)
	assert.Nil(t, p.WalletAddress)

	_, err = env.account.UpdateProfile(ctx, "ghost", &types.UpdateProfileReq{Username: &name})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	require.NoError(t, env.admin.SetSuspended(ctx, "admin", "b", true))
	board, err := env.account.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, int64(20), board[0].TotalEarned)
	assert.Equal(t, "Ruth", board[1].Username)
}
