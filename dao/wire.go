package dao

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewProfile,
	NewTransaction,
	NewTask,
	NewTaskCompletion,
	NewTaskSubmission,
	NewReferral,
	NewWithdrawal,
	NewSetting,
	NewAdView,
	NewDevotional,
	NewAnnouncement,
	NewAdminAction,
)
