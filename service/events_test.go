package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProducer struct {
	mu   sync.Mutex
	tags []string
	keys []string
	body [][]byte
	err  error
}

func (p *recordingProducer) SendMsg(_ context.Context, tag, key string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tags = append(p.tags, tag)
	p.keys = append(p.keys, key)
	p.body = append(p.body, body)
	return p.err
}

func TestEventBusPublish(t *testing.T) {
	p := &recordingProducer{}
	bus := &EventBus{Producer: p}
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	bus.Publish(context.Background(), Event{Name: EventWithdrawalRequested, UserID: "u1", RefID: "42", Amount: 3000, OccurredAt: at})
	require.Len(t, p.tags, 1)
	assert.Equal(t, EventWithdrawalRequested, p.tags[0])
	assert.Equal(t, "42", p.keys[0])

	var ev Event
	require.NoError(t, json.Unmarshal(p.body[0], &ev))
	assert.Equal(t, int64(3000), ev.Amount)
	assert.Equal(t, "u1", ev.UserID)

	// 投递失败不影响调用方
	p.err = errors.New("broker down")
	bus.Publish(context.Background(), Event{Name: EventReferralApproved, RefID: "7"})
	assert.Len(t, p.tags, 2)

	var nilBus *EventBus
	nilBus.Publish(context.Background(), Event{Name: EventReferralRejected})
}

func TestWorkflowsPublishEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := &recordingProducer{}
	bus := &EventBus{Producer: p}
	env.withdrawal.Events = bus
	env.eligibility.Events = bus
	env.reward.Events = bus

	env.newAccount(t, "u1", "")
	env.credit(t, "u1", 3000)
	w, err := env.withdrawal.Request(ctx, "u1", 3000, "0xw")
	require.NoError(t, err)
	_, err = env.withdrawal.Process(ctx, w.ID, DecisionApprove, "")
	require.NoError(t, err)

	r := makeEligible(t, env, "u1", "friend")
	_, err = env.eligibility.ProcessReferral(ctx, r.ID, DecisionApprove)
	require.NoError(t, err)

	// 失败的操作不投递
	_, err = env.eligibility.ProcessReferral(ctx, r.ID, DecisionApprove)
	require.Error(t, err)

	assert.Equal(t, []string{EventWithdrawalRequested, EventWithdrawalProcessed, EventReferralApproved}, p.tags)
}
