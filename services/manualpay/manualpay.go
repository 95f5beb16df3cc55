// Package manualpay ручная оплата переводом: клиент загружает чек,
// администратор подтверждает или отклоняет. Второй, человеческий
// драйвер той же машины статусов заказа, что и платежный callback.
package manualpay

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	tariffbot "github.com/bobrihha/tg-sales-bot-tariff"
)

var ErrNotAuthorized = errors.New("operator is not authorized")

func NewService(store tariffbot.OrderStore, nf tariffbot.Notifier, operatorIDs []int64) *Service {
	operators := make(map[int64]bool, len(operatorIDs))
	for _, id := range operatorIDs {
		operators[id] = true
	}
	return &Service{
		store:     store,
		nf:        nf,
		operators: operators,
		l:         zap.L().Named("manualpay"),
	}
}

type Service struct {
	store     tariffbot.OrderStore
	nf        tariffbot.Notifier
	operators map[int64]bool
	l         *zap.Logger
}

// IsOperator проверяет вхождение в доверенный набор администраторов.
func (s *Service) IsOperator(id int64) bool {
	return s.operators[id]
}

// SubmitReceipt сохраняет чек и переводит заказ на проверку.
// Допустим из pending и из payment_rejected (повторная отправка).
// Администраторов не уведомляет: запрос на подтверждение с кнопками
// отправляет вызывающая сторона.
func (s *Service) SubmitReceipt(orderID int64, receiptFileID, methodName string) (*tariffbot.Order, error) {
	if receiptFileID == "" {
		return nil, &tariffbot.ValidationError{Field: "payment_receipt"}
	}

	o, err := s.store.Get(orderID)
	if err != nil {
		return nil, err
	}
	if !tariffbot.AllowedTransition(o.Status, tariffbot.AWAITING_CONFIRMATION_ORDER) {
		return nil, tariffbot.ErrNotAllowed
	}

	if _, err := s.store.AttachReceipt(orderID, receiptFileID, methodName); err != nil {
		return nil, err
	}

	return s.store.Get(orderID)
}

// Confirm подтверждение оплаты администратором.
// Повтор для уже оплаченного заказа - успех без повторной рассылки.
func (s *Service) Confirm(operatorID, orderID int64) (*tariffbot.Order, error) {
	if !s.IsOperator(operatorID) {
		return nil, ErrNotAuthorized
	}

	o, err := s.store.Get(orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == tariffbot.PAID_ORDER {
		return o, nil
	}
	// Без чека подтверждать нечего.
	if !tariffbot.AllowedTransition(o.Status, tariffbot.PAID_ORDER) || o.Status == tariffbot.PENDING_ORDER {
		return nil, tariffbot.ErrNotAllowed
	}

	if _, err := s.store.Confirm(orderID); err != nil {
		return nil, err
	}

	if err := s.nf.NotifyBuyer(o.UserID, confirmedBuyerMessage(o)); err != nil {
		s.l.Warn("Failed notify buyer", zap.Int64("user_id", o.UserID), zap.Error(err))
	}
	if err := s.nf.NotifyOperators(confirmedOperatorMessage(o), o.PassportPhoto1, o.PassportPhoto2); err != nil {
		s.l.Warn("Failed notify operators", zap.Int64("order_id", orderID), zap.Error(err))
	}

	return s.store.Get(orderID)
}

// Reject отклонение оплаты администратором. Чек очищается,
// клиент может отправить новый.
func (s *Service) Reject(operatorID, orderID int64) (*tariffbot.Order, error) {
	if !s.IsOperator(operatorID) {
		return nil, ErrNotAuthorized
	}

	o, err := s.store.Get(orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == tariffbot.PAID_ORDER {
		return nil, tariffbot.ErrOrderPaid
	}
	if !tariffbot.AllowedTransition(o.Status, tariffbot.PAYMENT_REJECTED_ORDER) {
		return nil, tariffbot.ErrNotAllowed
	}

	if _, err := s.store.Reject(orderID); err != nil {
		return nil, err
	}

	if err := s.nf.NotifyBuyer(o.UserID, rejectedBuyerMessage(o)); err != nil {
		s.l.Warn("Failed notify buyer", zap.Int64("user_id", o.UserID), zap.Error(err))
	}

	return s.store.Get(orderID)
}

func confirmedBuyerMessage(o *tariffbot.Order) string {
	return fmt.Sprintf(
		"✅ <b>Оплата подтверждена!</b>\n\n"+
			"Заказ: #%d\n"+
			"Тариф: %s\n"+
			"Сумма: %d ₽\n\n"+
			"Ваша заявка принята в работу.\n"+
			"Мы свяжемся с вами в ближайшее время. 🎉",
		o.OrderID, o.TariffName, o.ConnectionPrice,
	)
}

func confirmedOperatorMessage(o *tariffbot.Order) string {
	modeText := "Новый номер"
	if o.Mode == tariffbot.TRANSFER_MODE {
		modeText = "Перенос номера"
	}
	username := "отсутствует"
	if o.Username != nil {
		username = *o.Username
	}
	methodName := "Не указан"
	if o.PaymentMethodName != nil {
		methodName = *o.PaymentMethodName
	}
	return fmt.Sprintf(
		"✅ <b>ОПЛАТА ПОДТВЕРЖДЕНА</b>\n\n"+
			"<b>Заказ:</b> #%d\n"+
			"<b>Оператор:</b> %s\n"+
			"<b>Тариф:</b> %s\n"+
			"<b>Сумма:</b> %d ₽\n"+
			"<b>Способ оплаты:</b> %s\n\n"+
			"<b>Тип заявки:</b> %s\n"+
			"<b>ФИО:</b> %s\n"+
			"<b>Регион/город:</b> %s\n\n"+
			"🆔 Telegram ID: %d\n"+
			"👤 Username: @%s",
		o.OrderID, o.OperatorName, o.TariffName, o.ConnectionPrice, methodName,
		modeText, o.FullName, o.RegionCity,
		o.UserID, username,
	)
}

func rejectedBuyerMessage(o *tariffbot.Order) string {
	return fmt.Sprintf(
		"❌ <b>Оплата не подтверждена</b>\n\n"+
			"Заказ: #%d\n\n"+
			"К сожалению, мы не смогли подтвердить вашу оплату.\n"+
			"Пожалуйста, свяжитесь с нами для уточнения деталей.",
		o.OrderID,
	)
}
