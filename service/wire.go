package service

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewClock,

	NewSettingsService,
	wire.Bind(new(ISettingsService), new(*SettingsService)),
	wire.Bind(new(ISettingsProvider), new(*SettingsService)),

	wire.Struct(new(EventBus), "*"),
	wire.Bind(new(IEventBus), new(*EventBus)),

	wire.Struct(new(LedgerService), "*"),
	wire.Bind(new(ILedgerService), new(*LedgerService)),

	wire.Struct(new(RewardService), "*"),
	wire.Bind(new(IRewardService), new(*RewardService)),

	wire.Struct(new(EligibilityService), "*"),
	wire.Bind(new(IEligibilityService), new(*EligibilityService)),

	wire.Struct(new(WithdrawalService), "*"),
	wire.Bind(new(IWithdrawalService), new(*WithdrawalService)),

	wire.Struct(new(AccountService), "*"),
	wire.Bind(new(IAccountService), new(*AccountService)),

	wire.Struct(new(AdminService), "*"),
	wire.Bind(new(IAdminService), new(*AdminService)),

	wire.Struct(new(ContentService), "*"),
	wire.Bind(new(IContentService), new(*ContentService)),

	NewScheduler,
)
