package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	tariffbot "github.com/bobrihha/tg-sales-bot-tariff"
)

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		b.answerCallback(cb.ID, "")
		return
	}
	data := cb.Data

	if strings.HasPrefix(data, "admin:") {
		b.handleAdminCallback(cb)
		return
	}

	parts := strings.Split(data, ":")
	switch parts[0] {
	case "main_menu":
		b.sessions.clear(cb.From.ID)
		b.sendKb(cb.Message.Chat.ID, welcomeMessage, mainMenuKb())
		b.answerCallback(cb.ID, "")

	case "back_to_operators":
		b.editKb(cb.Message.Chat.ID, cb.Message.MessageID, "<b>📡 Выберите оператора</b>", operatorsKb(b.cat.Operators()))
		b.answerCallback(cb.ID, "")

	case "operator":
		b.showOperatorTariffs(cb, parseID(parts, 1))

	case "back_to_operator":
		b.showOperatorTariffs(cb, parseID(parts, 1))

	case "tariff":
		b.showTariffDetails(cb, parseID(parts, 1))

	case "order":
		b.startOrder(cb, parseID(parts, 1))

	case "order_mode":
		b.chooseOrderMode(cb, parts)

	case "pay":
		b.createOrderAndOfferPayment(cb, parseID(parts, 1))

	case "select_payment":
		b.selectPaymentMethod(cb, parts)

	case "i_paid", "rk_check":
		b.requestReceipt(cb, parseID(parts, 1))

	case "rk_pay":
		b.sendPaymentLink(cb, parseID(parts, 1))

	case "confirm_payment":
		b.operatorDecision(cb, parts, true)

	case "reject_payment":
		b.operatorDecision(cb, parts, false)

	case "faq":
		b.showFAQAnswer(cb, parts)

	case "back_to_faq":
		b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
			"<b>❓ Часто задаваемые вопросы</b>\n\nВыберите интересующий вопрос:", faqMenuKb())
		b.answerCallback(cb.ID, "")

	case "cancel_order":
		b.sessions.clear(cb.From.ID)
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID, "❌ Заявка отменена.\n\nВы можете начать заново в любое время.")
		b.sendKb(cb.Message.Chat.ID, "Выберите действие:", mainMenuKb())
		b.answerCallback(cb.ID, "")

	case "cancel":
		b.sessions.clear(cb.From.ID)
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID, "❌ Действие отменено.")
		b.sendKb(cb.Message.Chat.ID, "Выберите действие:", mainMenuKb())
		b.answerCallback(cb.ID, "")

	default:
		b.answerCallback(cb.ID, "")
	}
}

func parseID(parts []string, i int) int64 {
	if i >= len(parts) {
		return 0
	}
	id, _ := strconv.ParseInt(parts[i], 10, 64)
	return id
}

func (b *Bot) showOperatorTariffs(cb *tgbotapi.CallbackQuery, operatorID int64) {
	op, err := b.cat.OperatorByID(operatorID)
	if err != nil {
		b.alertCallback(cb.ID, "Оператор не найден")
		return
	}
	tariffs := b.cat.TariffsByOperator(operatorID, true)
	if len(tariffs) == 0 {
		b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
			fmt.Sprintf("У оператора <b>%s</b> пока нет тарифов.", op.Name), backToOperatorsKb())
		b.answerCallback(cb.ID, "")
		return
	}
	b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
		fmt.Sprintf("<b>📦 Тарифы оператора %s</b>\n\nВыберите тариф:", op.Name), tariffsKb(tariffs))
	b.answerCallback(cb.ID, "")
}

func (b *Bot) showTariffDetails(cb *tgbotapi.CallbackQuery, tariffID int64) {
	t, err := b.cat.TariffByID(tariffID)
	if err != nil {
		b.alertCallback(cb.ID, "Тариф не найден")
		return
	}
	operatorName := ""
	if op, err := b.cat.OperatorByID(t.OperatorID); err == nil {
		operatorName = op.Name
	}
	b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
		formatTariffInfo(t, operatorName), tariffActionKb(t.ID, t.OperatorID))
	b.answerCallback(cb.ID, "")
}

func (b *Bot) startOrder(cb *tgbotapi.CallbackQuery, tariffID int64) {
	t, err := b.cat.TariffByID(tariffID)
	if err != nil {
		b.alertCallback(cb.ID, "Тариф не найден")
		return
	}
	sess := b.sessions.clear(cb.From.ID)
	sess.Draft.TariffID = t.ID
	b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
		fmt.Sprintf("<b>📝 Оформление заявки</b>\n\nТариф: <b>%s</b>\nВыберите тип заявки:", t.Name),
		orderModeKb(tariffID))
	b.answerCallback(cb.ID, "")
}

func (b *Bot) chooseOrderMode(cb *tgbotapi.CallbackQuery, parts []string) {
	if len(parts) < 3 {
		b.alertCallback(cb.ID, "Тип заявки не распознан")
		return
	}
	mode := tariffbot.OrderMode(parts[1])
	if mode != tariffbot.TRANSFER_MODE && mode != tariffbot.NEW_MODE {
		b.alertCallback(cb.ID, "Тип заявки не распознан")
		return
	}
	tariffID := parseID(parts, 2)

	sess := b.sessions.get(cb.From.ID)
	sess.Draft.Mode = mode
	sess.Draft.TariffID = tariffID

	if mode == tariffbot.TRANSFER_MODE {
		sess.State = stateWaitTransferPhone
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID, "📱 Введите номер телефона для переноса (без 7/8, пробелов и тире):")
	} else {
		sess.State = stateWaitFullName
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID, "👤 Введите ФИО:")
	}
	b.answerCallback(cb.ID, "")
}

// createOrderAndOfferPayment фиксирует заказ и предлагает способы
// оплаты: Robokassa онлайн и банки для перевода.
func (b *Bot) createOrderAndOfferPayment(cb *tgbotapi.CallbackQuery, tariffID int64) {
	t, err := b.cat.TariffByID(tariffID)
	if err != nil {
		b.alertCallback(cb.ID, "Тариф не найден")
		return
	}

	sess := b.sessions.get(cb.From.ID)
	d := &sess.Draft
	d.UserID = cb.From.ID
	d.Username = cb.From.UserName
	d.TariffID = t.ID
	d.TariffName = t.Name
	d.OperatorID = t.OperatorID
	d.MonthlyFee = t.MonthlyFee
	d.ConnectionPrice = t.ConnectionPrice
	if op, err := b.cat.OperatorByID(t.OperatorID); err == nil {
		d.OperatorName = op.Name
	} else {
		d.OperatorName = "Не указан"
	}

	if err := d.Validate(); err != nil {
		b.alertCallback(cb.ID, "Данные заявки не заполнены")
		return
	}

	methods := b.cat.ActivePaymentMethods()
	if len(methods) == 0 && b.payments == nil {
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID,
			"⚠️ <b>Способы оплаты не настроены</b>\n\nПожалуйста, свяжитесь с администратором.")
		b.answerCallback(cb.ID, "")
		return
	}

	o, err := tariffbot.CreateOrder(b.store, d)
	if err != nil {
		b.l.Error("Failed create order", zap.Int64("user_id", cb.From.ID), zap.Error(err))
		b.alertCallback(cb.ID, "Не удалось создать заказ, попробуйте позже")
		return
	}
	sess.OrderID = o.OrderID
	b.notifyOperatorsNewOrder(o)

	b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
		fmt.Sprintf("<b>💳 Оплата заказа #%d</b>\n\n"+
			"📡 Оператор: <b>%s</b>\n"+
			"📦 Тариф: <b>%s</b>\n"+
			"💰 Сумма к оплате: <b>%d ₽</b>\n\n"+
			"Выберите способ оплаты:",
			o.OrderID, o.OperatorName, o.TariffName, o.ConnectionPrice),
		paymentMethodsKb(methods, o.OrderID, b.payments != nil))
	b.answerCallback(cb.ID, "")
}

func (b *Bot) selectPaymentMethod(cb *tgbotapi.CallbackQuery, parts []string) {
	methodID := parseID(parts, 1)
	orderID := parseID(parts, 2)

	m, err := b.cat.PaymentMethodByID(methodID)
	if err != nil {
		b.alertCallback(cb.ID, "Способ оплаты не найден")
		return
	}

	sess := b.sessions.get(cb.From.ID)
	if sess.OrderID != orderID || orderID == 0 {
		b.alertCallback(cb.ID, "Заказ не найден")
		return
	}

	o, err := b.store.Get(orderID)
	if err != nil {
		b.alertCallback(cb.ID, "Заказ не найден")
		return
	}

	sess.PaymentMethodID = m.ID
	sess.PaymentMethodName = m.Name

	b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
		fmt.Sprintf("<b>💳 Оплата заказа #%d</b>\n\n"+
			"💰 Сумма к оплате: <b>%d ₽</b>\n\n"+
			"<b>🏦 Банк: %s</b>\n\n"+
			"<b>Реквизиты для оплаты:</b>\n%s\n\n"+
			"⚠️ После оплаты нажмите «Я оплатил» и отправьте фото чека.",
			o.OrderID, o.ConnectionPrice, m.Name, m.Details),
		paymentDetailsKb(orderID))
	b.answerCallback(cb.ID, "")
}

func (b *Bot) requestReceipt(cb *tgbotapi.CallbackQuery, orderID int64) {
	sess := b.sessions.get(cb.From.ID)
	if orderID == 0 {
		orderID = sess.OrderID
	}
	if sess.OrderID != orderID || orderID == 0 {
		b.alertCallback(cb.ID, "Заказ не найден")
		return
	}
	sess.State = stateWaitReceipt
	b.edit(cb.Message.Chat.ID, cb.Message.MessageID,
		fmt.Sprintf("<b>📸 Отправьте фото чека об оплате</b>\n\n"+
			"Заказ: #%d\n\n"+
			"После проверки оплаты администратором вы получите уведомление.", orderID))
	b.answerCallback(cb.ID, "")
}

func (b *Bot) sendPaymentLink(cb *tgbotapi.CallbackQuery, orderID int64) {
	if b.payments == nil {
		b.alertCallback(cb.ID, "Онлайн-оплата недоступна")
		return
	}
	sess := b.sessions.get(cb.From.ID)
	if sess.OrderID != orderID || orderID == 0 {
		b.alertCallback(cb.ID, "Заказ не найден")
		return
	}
	o, err := b.store.Get(orderID)
	if err != nil {
		b.alertCallback(cb.ID, "Заказ не найден")
		return
	}

	url := b.payments.PaymentURL(o.OrderID, o.ConnectionPrice,
		fmt.Sprintf("Подключение тарифа %s", o.TariffName), o.UserID, o.TariffID)

	b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
		fmt.Sprintf("<b>💳 Оплата заказа #%d</b>\n\n"+
			"💰 Сумма к оплате: <b>%d ₽</b>\n\n"+
			"Перейдите по ссылке и оплатите заказ.\n"+
			"Статус обновится автоматически после оплаты.",
			o.OrderID, o.ConnectionPrice),
		paymentLinkKb(url, o.OrderID))
	b.answerCallback(cb.ID, "")
}

// operatorDecision кнопки подтвердить/отклонить под чеком.
func (b *Bot) operatorDecision(cb *tgbotapi.CallbackQuery, parts []string, confirm bool) {
	if !b.isOperator(cb.From.ID) {
		b.alertCallback(cb.ID, "Нет доступа")
		return
	}
	orderID := parseID(parts, 1)

	var err error
	if confirm {
		_, err = b.manual.Confirm(cb.From.ID, orderID)
	} else {
		_, err = b.manual.Reject(cb.From.ID, orderID)
	}
	if err != nil {
		b.alertCallback(cb.ID, "Не получилось: "+userFacingError(err))
		return
	}

	o, err := b.store.Get(orderID)
	if err != nil {
		b.alertCallback(cb.ID, "Заказ не найден")
		return
	}

	var caption string
	if confirm {
		methodName := "Не указан"
		if o.PaymentMethodName != nil {
			methodName = *o.PaymentMethodName
		}
		caption = fmt.Sprintf("✅ <b>ОПЛАТА ПОДТВЕРЖДЕНА</b>\n\n"+
			"Заказ: #%d\n"+
			"Тариф: %s\n"+
			"Сумма: %d ₽\n"+
			"Способ оплаты: %s\n\n"+
			"Клиент уведомлён. Заявка отправлена.",
			o.OrderID, o.TariffName, o.ConnectionPrice, methodName)
	} else {
		caption = fmt.Sprintf("❌ <b>ОПЛАТА ОТКЛОНЕНА</b>\n\nЗаказ: #%d\nКлиент уведомлён.", o.OrderID)
	}

	edit := tgbotapi.NewEditMessageCaption(cb.Message.Chat.ID, cb.Message.MessageID, caption)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		b.l.Warn("Failed edit caption", zap.Error(err))
	}

	if confirm {
		b.answerCallback(cb.ID, "Оплата подтверждена!")
	} else {
		b.answerCallback(cb.ID, "Оплата отклонена")
	}
}

func (b *Bot) showFAQAnswer(cb *tgbotapi.CallbackQuery, parts []string) {
	if len(parts) < 2 {
		b.alertCallback(cb.ID, "Вопрос не найден")
		return
	}
	item, ok := faqItemByKey(parts[1])
	if !ok {
		b.alertCallback(cb.ID, "Вопрос не найден")
		return
	}
	b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
		fmt.Sprintf("<b>%s</b>\n\n%s", item.Question, item.Answer), faqBackKb())
	b.answerCallback(cb.ID, "")
}
