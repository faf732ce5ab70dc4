package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Vine/config"
	"Vine/dao"
	"Vine/models"
	"Vine/pkg/jwt"
	"Vine/pkg/locker"
	"Vine/pkg/ratelimit"
	"Vine/pkg/response"
	"Vine/pkg/rocketmq"
	"Vine/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "handler-test-secret"

type apiEnv struct {
	engine *gin.Engine
	db     *gorm.DB
}

func newAPI(t *testing.T, limiter *ratelimit.Registry) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	cfg, err := config.Parse([]byte("app:\n  referral_salt: vine-test\njwt:\n  secret: " + testSecret + "\n"))
	require.NoError(t, err)

	clock := time.Now
	profileDAO := dao.NewProfile(db)
	txDAO := dao.NewTransaction(db)
	taskDAO := dao.NewTask(db)
	completionDAO := dao.NewTaskCompletion(db)
	submissionDAO := dao.NewTaskSubmission(db)
	referralDAO := dao.NewReferral(db)
	withdrawalDAO := dao.NewWithdrawal(db)
	events := &service.EventBus{Producer: rocketmq.Noop{}}

	settings := service.NewSettingsService(dao.NewSetting(db), nil, cfg.Reward, clock)
	require.NoError(t, settings.Seed(context.Background()))
	ledger := &service.LedgerService{
		DB:         db,
		Locker:     locker.NewLocal(),
		ProfileDAO: profileDAO,
		TxDAO:      txDAO,
		Clock:      clock,
	}
	reward := &service.RewardService{
		Ledger:            ledger,
		Settings:          settings,
		TaskDAO:           taskDAO,
		TaskCompletionDAO: completionDAO,
		ReferralDAO:       referralDAO,
		AdViewDAO:         dao.NewAdView(db),
		Events:            events,
		Clock:             clock,
	}
	eligibility := &service.EligibilityService{
		DB:                db,
		Ledger:            ledger,
		Settings:          settings,
		Reward:            reward,
		TaskDAO:           taskDAO,
		TaskCompletionDAO: completionDAO,
		SubmissionDAO:     submissionDAO,
		ReferralDAO:       referralDAO,
		Events:            events,
		Clock:             clock,
	}
	withdrawal := &service.WithdrawalService{
		Ledger:        ledger,
		Settings:      settings,
		WithdrawalDAO: withdrawalDAO,
		Events:        events,
		Clock:         clock,
	}
	account := &service.AccountService{
		Config:            cfg,
		DB:                db,
		Ledger:            ledger,
		Settings:          settings,
		ProfileDAO:        profileDAO,
		TxDAO:             txDAO,
		TaskDAO:           taskDAO,
		TaskCompletionDAO: completionDAO,
		SubmissionDAO:     submissionDAO,
		ReferralDAO:       referralDAO,
		WithdrawalDAO:     withdrawalDAO,
		Clock:             clock,
	}
	content := &service.ContentService{
		TaskDAO:         taskDAO,
		DevotionalDAO:   dao.NewDevotional(db),
		AnnouncementDAO: dao.NewAnnouncement(db),
		Clock:           clock,
	}
	admin := &service.AdminService{
		Ledger:         ledger,
		Settings:       settings,
		Eligibility:    eligibility,
		Withdrawal:     withdrawal,
		ProfileDAO:     profileDAO,
		TaskDAO:        taskDAO,
		SubmissionDAO:  submissionDAO,
		ReferralDAO:    referralDAO,
		WithdrawalDAO:  withdrawalDAO,
		AdminActionDAO: dao.NewAdminAction(db),
		Clock:          clock,
	}

	if limiter == nil {
		limiter = ratelimit.NewRegistry(1000, 1000)
	}
	r := gin.New()
	r.Use(response.ErrorMiddleware())
	api := r.Group("/api")
	(&Account{Config: cfg, AccountService: account}).RegisterRouter(api)
	(&Reward{
		Config:             cfg,
		Limiter:            limiter,
		RewardService:      reward,
		EligibilityService: eligibility,
		AccountService:     account,
		WithdrawalService:  withdrawal,
	}).RegisterRouter(api)
	(&Content{Config: cfg, ContentService: content}).RegisterRouter(api)
	(&Admin{Config: cfg, AdminService: admin, ContentService: content}).RegisterRouter(api)
	return &apiEnv{engine: r, db: db}
}

func token(t *testing.T, userID, role string) string {
	t.Helper()
	tk, err := jwt.GenerateToken([]byte(testSecret), "vine", userID, userID+"@vine.test", role, "access", time.Hour)
	require.NoError(t, err)
	return tk
}

func (e *apiEnv) do(t *testing.T, method, path, tk string, body string) (int, gjson.Result) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if tk != "" {
		req.Header.Set("Authorization", "Bearer "+tk)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w.Code, gjson.Parse(w.Body.String())
}

func (e *apiEnv) bootstrap(t *testing.T, tk, body string) gjson.Result {
	t.Helper()
	code, res := e.do(t, http.MethodPost, "/api/v1/account/bootstrap", tk, body)
	require.Equal(t, http.StatusOK, code, res.Raw)
	return res
}

func TestAuthRequired(t *testing.T) {
	env := newAPI(t, nil)

	code, res := env.do(t, http.MethodGet, "/api/v1/account", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, int64(401), res.Get("code").Int())

	code, _ = env.do(t, http.MethodGet, "/api/v1/account", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	refresh, err := jwt.GenerateToken([]byte(testSecret), "vine", "u1", "", jwt.RoleUser, "refresh", time.Hour)
	require.NoError(t, err)
	code, _ = env.do(t, http.MethodGet, "/api/v1/account", refresh, "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestBootstrapAndCheckIn(t *testing.T) {
	env := newAPI(t, nil)
	tk := token(t, "u1", jwt.RoleUser)

	res := env.bootstrap(t, tk, `{"username":"grace"}`)
	assert.Equal(t, int64(0), res.Get("code").Int())
	assert.Equal(t, "grace", res.Get("data.username").String())
	assert.NotEmpty(t, res.Get("data.referral_code").String())

	code, res := env.do(t, http.MethodPost, "/api/v1/rewards/check-in", tk, "")
	require.Equal(t, http.StatusOK, code, res.Raw)
	assert.Equal(t, int64(1), res.Get("data.streak").Int())
	assert.Equal(t, int64(50), res.Get("data.reward").Int())
	assert.Equal(t, int64(50), res.Get("data.balance").Int())

	code, res = env.do(t, http.MethodPost, "/api/v1/rewards/check-in", tk, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, int64(409), res.Get("code").Int())

	code, res = env.do(t, http.MethodGet, "/api/v1/account", tk, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(50), res.Get("data.balance").Int())
	assert.True(t, res.Get("data.next_check_in").Exists())

	code, res = env.do(t, http.MethodGet, "/api/v1/rewards/transactions", tk, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), res.Get("data.records.#").Int())
}

func TestUnknownAccountIsNotFound(t *testing.T) {
	env := newAPI(t, nil)
	code, _ := env.do(t, http.MethodPost, "/api/v1/rewards/check-in", token(t, "ghost", jwt.RoleUser), "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAdWatchErrors(t *testing.T) {
	env := newAPI(t, nil)
	tk := token(t, "u1", jwt.RoleUser)
	env.bootstrap(t, tk, `{}`)

	code, _ := env.do(t, http.MethodPost, "/api/v1/rewards/ad-watch", tk, `{"ad_type":"banner","completed":true}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.do(t, http.MethodPost, "/api/v1/rewards/ad-watch", tk, `{"ad_type":"rewarded","completed":false}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, res := env.do(t, http.MethodPost, "/api/v1/rewards/ad-watch", tk, `{"ad_type":"rewarded","completed":true}`)
	require.Equal(t, http.StatusOK, code, res.Raw)
	assert.Equal(t, int64(25), res.Get("data.reward").Int())

	code, _ = env.do(t, http.MethodPost, "/api/v1/rewards/ad-watch", tk, `{"ad_type":"interstitial","completed":true}`)
	assert.Equal(t, http.StatusConflict, code)
}

func TestWithdrawalErrors(t *testing.T) {
	env := newAPI(t, nil)
	tk := token(t, "u1", jwt.RoleUser)
	env.bootstrap(t, tk, `{}`)

	code, _ := env.do(t, http.MethodPost, "/api/v1/withdrawals", tk, `{"amount":0}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, res := env.do(t, http.MethodPost, "/api/v1/withdrawals", tk, `{"amount":3000,"wallet_address":"0xw"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, int64(422), res.Get("code").Int())
}

func TestAdminRoleRequired(t *testing.T) {
	env := newAPI(t, nil)

	code, res := env.do(t, http.MethodGet, "/api/v1/admin/stats", token(t, "u1", jwt.RoleUser), "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "admin role required", res.Get("msg").String())

	code, res = env.do(t, http.MethodGet, "/api/v1/admin/stats", token(t, "boss", jwt.RoleAdmin), "")
	require.Equal(t, http.StatusOK, code, res.Raw)
	assert.Equal(t, int64(0), res.Get("data.total_users").Int())
}

func TestAdminWithdrawalFlow(t *testing.T) {
	env := newAPI(t, nil)
	user := token(t, "u1", jwt.RoleUser)
	admin := token(t, "boss", jwt.RoleAdmin)
	env.bootstrap(t, user, `{}`)

	code, res := env.do(t, http.MethodPost, "/api/v1/admin/users/u1/adjust", admin, `{"amount":4000,"reason":"prize"}`)
	require.Equal(t, http.StatusOK, code, res.Raw)
	assert.Equal(t, int64(4000), res.Get("data.balance").Int())

	code, res = env.do(t, http.MethodPost, "/api/v1/withdrawals", user, `{"amount":3000,"wallet_address":"0xw"}`)
	require.Equal(t, http.StatusOK, code, res.Raw)
	id := res.Get("data.id").String()
	require.NotEmpty(t, id)

	code, _ = env.do(t, http.MethodPost, "/api/v1/admin/withdrawals/"+id+"/process", admin, `{"decision":"hold"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, res = env.do(t, http.MethodPost, "/api/v1/admin/withdrawals/"+id+"/process", admin, `{"decision":"reject","notes":"kyc"}`)
	require.Equal(t, http.StatusOK, code, res.Raw)
	assert.Equal(t, "rejected", res.Get("data.status").String())

	code, _ = env.do(t, http.MethodPost, "/api/v1/admin/withdrawals/"+id+"/process", admin, `{"decision":"approve"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = env.do(t, http.MethodPost, "/api/v1/admin/withdrawals/abc/process", admin, `{"decision":"approve"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, res = env.do(t, http.MethodGet, "/api/v1/account", user, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(4000), res.Get("data.balance").Int())
}

func TestSuspendedUserForbidden(t *testing.T) {
	env := newAPI(t, nil)
	user := token(t, "u1", jwt.RoleUser)
	admin := token(t, "boss", jwt.RoleAdmin)
	env.bootstrap(t, user, `{}`)

	code, res := env.do(t, http.MethodPost, "/api/v1/admin/users/u1/suspend", admin, `{"suspended":true}`)
	require.Equal(t, http.StatusOK, code, res.Raw)

	code, _ = env.do(t, http.MethodPost, "/api/v1/rewards/check-in", user, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = env.do(t, http.MethodPost, "/api/v1/admin/users/ghost/suspend", admin, `{"suspended":true}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpdateSettingValidation(t *testing.T) {
	env := newAPI(t, nil)
	admin := token(t, "boss", jwt.RoleAdmin)

	code, _ := env.do(t, http.MethodPut, "/api/v1/admin/settings/referral_bonus", admin, `{"value":"-5"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, res := env.do(t, http.MethodPut, "/api/v1/admin/settings/checkin_enabled", admin, `{"value":"false"}`)
	require.Equal(t, http.StatusOK, code, res.Raw)

	user := token(t, "u1", jwt.RoleUser)
	env.bootstrap(t, user, `{}`)
	code, _ = env.do(t, http.MethodPost, "/api/v1/rewards/check-in", user, "")
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRateLimited(t *testing.T) {
	env := newAPI(t, ratelimit.NewRegistry(0.001, 1))
	user := token(t, "u1", jwt.RoleUser)
	env.bootstrap(t, user, `{}`)

	code, _ := env.do(t, http.MethodPost, "/api/v1/rewards/check-in", user, "")
	assert.Equal(t, http.StatusOK, code)
	code, res := env.do(t, http.MethodPost, "/api/v1/rewards/check-in", user, "")
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "too many requests", res.Get("msg").String())

	// 其他用户不受影响
	other := token(t, "u2", jwt.RoleUser)
	env.bootstrap(t, other, `{}`)
	code, _ = env.do(t, http.MethodPost, "/api/v1/rewards/check-in", other, "")
	assert.Equal(t, http.StatusOK, code)
}
