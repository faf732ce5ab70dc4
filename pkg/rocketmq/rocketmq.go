package rocketmq

import (
	"context"

	"Vine/config"
	"Vine/pkg/log"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

// Producer 领域事件投递
type Producer interface {
	SendMsg(ctx context.Context, tag string, key string, body []byte) error
}

type Rocketmq struct {
	RocketmqProducer rocketmq.Producer
	Topic            string
}

func init() {
	rlog.SetLogLevel("error")
}

// InitProducer 未配置 nameserver 时返回空实现
func InitProducer(cfg *config.RocketMQConfig) Producer {
	if !cfg.Enabled() {
		log.L.Info("rocketmq disabled, events will be dropped")
		return Noop{}
	}
	p, err := rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithGroupName(cfg.Producer.Group),
		producer.WithRetry(cfg.Producer.Retry),
	)
	if err != nil {
		log.L.Fatal("init producer error", zap.Error(err))
	}
	if err = p.Start(); err != nil {
		log.L.Fatal("start producer error", zap.Error(err))
	}
	log.L.Info("init producer success", zap.Strings("nameserver", cfg.NameServer))

	return &Rocketmq{RocketmqProducer: p, Topic: cfg.Topic}
}

func (p *Rocketmq) SendMsg(ctx context.Context, tag string, key string, body []byte) error {
	msg := primitive.NewMessage(p.Topic, body).WithTag(tag).WithKeys([]string{key})

	// 发送同步消息
	res, err := p.RocketmqProducer.SendSync(ctx, msg)
	if err != nil {
		return err
	}
	log.L.Debug("send message success", zap.String("tag", tag), zap.String("msg_id", res.MsgID))
	return nil
}

type Noop struct{}

func (Noop) SendMsg(context.Context, string, string, []byte) error {
	return nil
}
