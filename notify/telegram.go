package notify

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	tariffbot "github.com/bobrihha/tg-sales-bot-tariff"
)

// botSender то что нам нужно от *tgbotapi.BotAPI.
type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

var _ tariffbot.Notifier = (*Telegram)(nil)

// NewTelegram отправляет уведомления напрямую через Telegram Bot API.
// operatorIDs - chat id администраторов для рассылки.
func NewTelegram(bot botSender, operatorIDs []int64) *Telegram {
	return &Telegram{
		bot:         bot,
		operatorIDs: operatorIDs,
		l:           zap.L().Named("notify_telegram"),
	}
}

type Telegram struct {
	bot         botSender
	operatorIDs []int64
	l           *zap.Logger
}

func (t *Telegram) NotifyBuyer(userID int64, text string) error {
	if err := t.sendText(userID, text); err != nil {
		return errors.Wrap(err, "Failed send buyer notification.")
	}
	return nil
}

// NotifyOperators шлет всем администраторам, ошибка одного получателя
// не прерывает рассылку остальным.
func (t *Telegram) NotifyOperators(text string, photos ...string) error {
	var lastErr error
	for _, chatID := range t.operatorIDs {
		if err := t.sendText(chatID, text); err != nil {
			t.l.Warn("Failed send to operator", zap.Int64("chat_id", chatID), zap.Error(err))
			lastErr = err
			continue
		}
		for _, fileID := range photos {
			if fileID == "" {
				continue
			}
			msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
			if _, err := t.bot.Send(msg); err != nil {
				t.l.Warn("Failed send photo to operator", zap.Int64("chat_id", chatID), zap.Error(err))
				lastErr = err
			}
		}
	}
	if lastErr != nil {
		return errors.Wrap(lastErr, "Failed send operators notification.")
	}
	return nil
}

func (t *Telegram) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := t.bot.Send(msg)
	return err
}

// NewConsumer мост NATS -> Telegram: подписывается на темы уведомлений
// и доставляет события через nf.
func NewConsumer(nc *nats.EncodedConn, nf tariffbot.Notifier) *Consumer {
	return &Consumer{
		nc: nc,
		nf: nf,
		l:  zap.L().Named("notify_consumer"),
	}
}

type Consumer struct {
	nc   *nats.EncodedConn
	nf   tariffbot.Notifier
	l    *zap.Logger
	subs []*nats.Subscription
}

func (c *Consumer) Subscribe() error {
	sub, err := c.nc.Subscribe(SubjectBuyer, func(m *Message) {
		if err := c.nf.NotifyBuyer(m.UserID, m.Text); err != nil {
			c.l.Warn("Failed deliver buyer notification", zap.Int64("user_id", m.UserID), zap.Error(err))
		}
	})
	if err != nil {
		return errors.Wrap(err, "Failed subscribe.")
	}
	c.subs = append(c.subs, sub)

	sub, err = c.nc.Subscribe(SubjectOperators, func(m *Message) {
		if err := c.nf.NotifyOperators(m.Text, m.Photos...); err != nil {
			c.l.Warn("Failed deliver operators notification", zap.Error(err))
		}
	})
	if err != nil {
		return errors.Wrap(err, "Failed subscribe.")
	}
	c.subs = append(c.subs, sub)

	c.l.Info("Subscribed.")
	return nil
}

func (c *Consumer) Unsubscribe() {
	for _, sub := range c.subs {
		sub.Unsubscribe()
	}
	c.subs = nil
	c.l.Info("Unsubscribed.")
}
