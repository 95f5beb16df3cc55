// Package bot пользовательский интерфейс в Telegram: витрина тарифов,
// форма заявки, оплата и админ-меню.
package bot

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	tariffbot "github.com/bobrihha/tg-sales-bot-tariff"
	"github.com/bobrihha/tg-sales-bot-tariff/catalog"
	"github.com/bobrihha/tg-sales-bot-tariff/services/manualpay"
)

// api то что нам нужно от *tgbotapi.BotAPI.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// payLinker строит ссылку на страницу оплаты Robokassa.
type payLinker interface {
	PaymentURL(orderID int64, amount int64, description string, userID int64, tariffID int64) string
}

type Bot struct {
	api      api
	store    tariffbot.OrderStore
	cat      *catalog.Catalog
	manual   *manualpay.Service
	payments payLinker // nil когда Robokassa не настроена

	operatorIDs map[int64]bool
	sessions    *sessionStore
	l           *zap.Logger
}

func NewBot(a api, store tariffbot.OrderStore, cat *catalog.Catalog, manual *manualpay.Service, payments payLinker, operatorIDs []int64) *Bot {
	operators := make(map[int64]bool, len(operatorIDs))
	for _, id := range operatorIDs {
		operators[id] = true
	}
	return &Bot{
		api:         a,
		store:       store,
		cat:         cat,
		manual:      manual,
		payments:    payments,
		operatorIDs: operators,
		sessions:    newSessionStore(),
		l:           zap.L().Named("bot"),
	}
}

// Run обрабатывает апдейты до закрытия канала или отмены контекста.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	b.l.Info("Started.")
	for {
		select {
		case <-ctx.Done():
			b.l.Info("Stopped.")
			return
		case u, ok := <-updates:
			if !ok {
				b.l.Info("Updates channel closed.")
				return
			}
			b.HandleUpdate(u)
		}
	}
}

func (b *Bot) HandleUpdate(u tgbotapi.Update) {
	switch {
	case u.CallbackQuery != nil:
		b.handleCallback(u.CallbackQuery)
	case u.Message != nil:
		b.handleMessage(u.Message)
	}
}

func (b *Bot) isOperator(userID int64) bool {
	return b.operatorIDs[userID]
}

var confirmCmdRe = regexp.MustCompile(`^/(confirm|reject)_(\d+)$`)

func (b *Bot) handleMessage(m *tgbotapi.Message) {
	userID := m.From.ID

	if m.IsCommand() {
		switch m.Command() {
		case "start":
			b.sessions.clear(userID)
			b.sendKb(m.Chat.ID, welcomeMessage, mainMenuKb())
			return
		case "admin":
			b.handleAdminCommand(m)
			return
		}
		if mm := confirmCmdRe.FindStringSubmatch(m.Text); mm != nil {
			orderID, _ := strconv.ParseInt(mm[2], 10, 64)
			b.handleConfirmCommand(m.Chat.ID, userID, mm[1] == "confirm", orderID)
			return
		}
	}

	sess := b.sessions.get(userID)
	switch sess.State {
	case stateWaitTransferPhone:
		b.processTransferPhone(m, sess)
		return
	case stateWaitFullName:
		b.processFullName(m, sess)
		return
	case stateWaitRegionCity:
		b.processRegionCity(m, sess)
		return
	case stateWaitPassportPhoto1, stateWaitPassportPhoto2:
		b.processPassportPhoto(m, sess)
		return
	case stateWaitReceipt:
		b.processReceipt(m, sess)
		return
	case stateAdminWaitOperatorName,
		stateAdminWaitTariffName,
		stateAdminWaitTariffDescription,
		stateAdminWaitTariffMonthlyFee,
		stateAdminWaitTariffConnectionPrice,
		stateAdminWaitMethodName,
		stateAdminWaitMethodDetails:
		b.processAdminInput(m, sess)
		return
	}

	switch m.Text {
	case btnTariffs:
		b.showOperators(m.Chat.ID)
	case btnMyOrders:
		b.showMyOrders(m.Chat.ID, userID)
	case btnAbout:
		b.send(m.Chat.ID, aboutMessage)
	case btnContact:
		b.send(m.Chat.ID, contactMessage)
	case btnFAQ:
		b.sendKb(m.Chat.ID, "<b>❓ Часто задаваемые вопросы</b>\n\nВыберите интересующий вопрос:", faqMenuKb())
	}
}

func (b *Bot) showOperators(chatID int64) {
	operators := b.cat.Operators()
	if len(operators) == 0 {
		b.send(chatID, "Пока нет доступных операторов.")
		return
	}
	b.sendKb(chatID, "<b>📡 Выберите оператора</b>", operatorsKb(operators))
}

func (b *Bot) showMyOrders(chatID, userID int64) {
	orders, err := b.store.ListByUser(userID)
	if err != nil {
		b.l.Warn("Failed list orders", zap.Int64("user_id", userID), zap.Error(err))
		b.send(chatID, "Не удалось получить список заказов. Попробуйте позже.")
		return
	}
	if len(orders) == 0 {
		b.send(chatID, "У вас пока нет заказов.")
		return
	}
	lines := []string{"<b>📦 Ваши заказы:</b>", ""}
	for i := range orders {
		lines = append(lines, orderSummaryLine(&orders[i]))
	}
	b.send(chatID, strings.Join(lines, "\n"))
}

// Форма заявки.

func (b *Bot) processTransferPhone(m *tgbotapi.Message, sess *session) {
	phone := digitsOnly(m.Text)
	if phone == "" {
		b.send(m.Chat.ID, "Введите номер телефона цифрами (без 7/8, пробелов и тире).")
		return
	}
	sess.Draft.TransferPhone = phone
	sess.State = stateWaitFullName
	b.send(m.Chat.ID, "👤 Введите ФИО:")
}

func (b *Bot) processFullName(m *tgbotapi.Message, sess *session) {
	fullName := strings.TrimSpace(m.Text)
	if fullName == "" {
		b.send(m.Chat.ID, "ФИО не может быть пустым.")
		return
	}
	sess.Draft.FullName = fullName
	sess.State = stateWaitRegionCity
	b.send(m.Chat.ID, "🌍 Укажите регион и город:")
}

func (b *Bot) processRegionCity(m *tgbotapi.Message, sess *session) {
	regionCity := strings.TrimSpace(m.Text)
	if regionCity == "" {
		b.send(m.Chat.ID, "Регион и город не могут быть пустыми.")
		return
	}
	sess.Draft.RegionCity = regionCity
	sess.State = stateWaitPassportPhoto1
	b.send(m.Chat.ID, "📷 Отправьте фото паспорта: 1-я страница.")
}

func (b *Bot) processPassportPhoto(m *tgbotapi.Message, sess *session) {
	fileID := largestPhotoID(m)
	if fileID == "" {
		b.send(m.Chat.ID, "Пожалуйста, отправьте фото паспорта.")
		return
	}
	if sess.State == stateWaitPassportPhoto1 {
		sess.Draft.PassportPhoto1 = fileID
		sess.State = stateWaitPassportPhoto2
		b.send(m.Chat.ID, "📷 Отправьте фото паспорта: 2-я страница (регистрация).")
		return
	}
	sess.Draft.PassportPhoto2 = fileID
	sess.State = stateConfirmation
	b.sendKb(m.Chat.ID, confirmationMessage(&sess.Draft), confirmOrderKb(sess.Draft.TariffID))
}

func (b *Bot) processReceipt(m *tgbotapi.Message, sess *session) {
	fileID := largestPhotoID(m)
	if fileID == "" {
		b.send(m.Chat.ID, "⚠️ Пожалуйста, отправьте фото чека об оплате.")
		return
	}

	orderID := sess.OrderID
	methodName := sess.PaymentMethodName
	if methodName == "" {
		methodName = "Не указан"
	}

	if _, err := b.manual.SubmitReceipt(orderID, fileID, methodName); err != nil {
		b.l.Warn("Failed submit receipt", zap.Int64("order_id", orderID), zap.Error(err))
		b.send(m.Chat.ID, "Не удалось сохранить чек. Начните заново.")
		b.sessions.clear(m.From.ID)
		return
	}

	b.sessions.clear(m.From.ID)
	b.sendKb(m.Chat.ID,
		"✅ <b>Чек получен!</b>\n\n"+
			"Заказ: #"+strconv.FormatInt(orderID, 10)+"\n"+
			"Способ оплаты: "+methodName+"\n\n"+
			"Ожидайте подтверждения оплаты администратором.\n"+
			"Мы уведомим вас, когда оплата будет подтверждена.",
		mainMenuKb())

	// Кнопки подтверждения для администраторов.
	if o, err := b.store.Get(orderID); err == nil {
		b.notifyOperatorsConfirmRequest(o)
	}
}

// notifyOperatorsNewOrder шлет администраторам свежую заявку
// с фотографиями паспорта.
func (b *Bot) notifyOperatorsNewOrder(o *tariffbot.Order) {
	text := newOrderOperatorMessage(o, orderStatusText(o.Status))
	for operatorID := range b.operatorIDs {
		msg := tgbotapi.NewMessage(operatorID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := b.api.Send(msg); err != nil {
			b.l.Warn("Failed send new order notice", zap.Int64("chat_id", operatorID), zap.Error(err))
			continue
		}
		for _, fileID := range []string{o.PassportPhoto1, o.PassportPhoto2} {
			if fileID == "" {
				continue
			}
			photo := tgbotapi.NewPhoto(operatorID, tgbotapi.FileID(fileID))
			if _, err := b.api.Send(photo); err != nil {
				b.l.Warn("Failed send passport photo", zap.Int64("chat_id", operatorID), zap.Error(err))
			}
		}
	}
}

// notifyOperatorsConfirmRequest шлет администраторам чек с кнопками
// подтвердить/отклонить.
func (b *Bot) notifyOperatorsConfirmRequest(o *tariffbot.Order) {
	if o.PaymentReceipt == nil {
		return
	}
	methodName := "Не указан"
	if o.PaymentMethodName != nil {
		methodName = *o.PaymentMethodName
	}
	username := "отсутствует"
	if o.Username != nil {
		username = *o.Username
	}
	caption := "💳 <b>ЗАПРОС НА ПОДТВЕРЖДЕНИЕ ОПЛАТЫ</b>\n\n" +
		"Заказ: #" + strconv.FormatInt(o.OrderID, 10) + "\n" +
		"Тариф: " + o.TariffName + "\n" +
		"Сумма: " + strconv.FormatInt(o.ConnectionPrice, 10) + " ₽\n" +
		"Способ оплаты: " + methodName + "\n\n" +
		"Клиент: " + o.FullName + "\n" +
		"@" + username + "\n\n" +
		"Проверьте оплату и подтвердите: /confirm_" + strconv.FormatInt(o.OrderID, 10) +
		" или /reject_" + strconv.FormatInt(o.OrderID, 10)

	for operatorID := range b.operatorIDs {
		photo := tgbotapi.NewPhoto(operatorID, tgbotapi.FileID(*o.PaymentReceipt))
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeHTML
		kb := operatorConfirmKb(o.OrderID, o.UserID)
		photo.ReplyMarkup = &kb
		if _, err := b.api.Send(photo); err != nil {
			b.l.Warn("Failed send confirm request", zap.Int64("chat_id", operatorID), zap.Error(err))
		}
	}
}

// handleConfirmCommand текстовый вариант подтверждения: /confirm_<id>
// и /reject_<id> из уведомления.
func (b *Bot) handleConfirmCommand(chatID, userID int64, confirm bool, orderID int64) {
	if !b.isOperator(userID) {
		return
	}
	var err error
	if confirm {
		_, err = b.manual.Confirm(userID, orderID)
	} else {
		_, err = b.manual.Reject(userID, orderID)
	}
	if err != nil {
		b.send(chatID, "Не получилось: "+userFacingError(err))
		return
	}
	if confirm {
		b.send(chatID, "Оплата заказа #"+strconv.FormatInt(orderID, 10)+" подтверждена.")
	} else {
		b.send(chatID, "Оплата заказа #"+strconv.FormatInt(orderID, 10)+" отклонена.")
	}
}

func userFacingError(err error) string {
	switch {
	case errors.Is(err, tariffbot.ErrNotFound):
		return "заказ не найден"
	case errors.Is(err, tariffbot.ErrOrderPaid):
		return "заказ уже оплачен"
	case errors.Is(err, tariffbot.ErrNotAllowed):
		return "недопустимый статус заказа"
	case errors.Is(err, manualpay.ErrNotAuthorized):
		return "нет доступа"
	default:
		return "внутренняя ошибка"
	}
}

// Отправка.

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.l.Warn("Failed send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) sendKb(chatID int64, text string, kb interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.l.Warn("Failed send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.l.Warn("Failed edit message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) editKb(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.l.Warn("Failed edit message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.l.Warn("Failed answer callback", zap.Error(err))
	}
}

func (b *Bot) alertCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(id, text)); err != nil {
		b.l.Warn("Failed answer callback", zap.Error(err))
	}
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// largestPhotoID file_id самого крупного варианта фото.
func largestPhotoID(m *tgbotapi.Message) string {
	if len(m.Photo) == 0 {
		return ""
	}
	return m.Photo[len(m.Photo)-1].FileID
}
