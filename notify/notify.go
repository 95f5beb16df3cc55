// Package notify доставка уведомлений клиентам и администраторам.
//
// Вебхук-процесс не держит соединение с Telegram - он публикует события
// в NATS, а бот-процесс подписан на темы и рассылает сообщения.
package notify

import (
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	tariffbot "github.com/bobrihha/tg-sales-bot-tariff"
)

const (
	SubjectBuyer     = "notify.buyer"
	SubjectOperators = "notify.operators"
)

// Message событие уведомления, сериализуется в JSON через EncodedConn.
type Message struct {
	UserID int64    `json:"user_id,omitempty"`
	Text   string   `json:"text"`
	Photos []string `json:"photos,omitempty"`
}

var _ tariffbot.Notifier = (*Publisher)(nil)

func NewPublisher(nc *nats.EncodedConn) *Publisher {
	return &Publisher{
		nc: nc,
		l:  zap.L().Named("notify_publisher"),
	}
}

type Publisher struct {
	nc *nats.EncodedConn
	l  *zap.Logger
}

func (p *Publisher) NotifyBuyer(userID int64, text string) error {
	err := p.nc.Publish(SubjectBuyer, &Message{UserID: userID, Text: text})
	if err != nil {
		return errors.Wrap(err, "Failed publish buyer notification.")
	}
	p.l.Debug("Published.", zap.String("subject", SubjectBuyer), zap.Int64("user_id", userID))
	return nil
}

func (p *Publisher) NotifyOperators(text string, photos ...string) error {
	err := p.nc.Publish(SubjectOperators, &Message{Text: text, Photos: photos})
	if err != nil {
		return errors.Wrap(err, "Failed publish operators notification.")
	}
	p.l.Debug("Published.", zap.String("subject", SubjectOperators), zap.Int("num_photos", len(photos)))
	return nil
}
