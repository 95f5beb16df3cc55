package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/bobrihha/tg-sales-bot-tariff/catalog"
)

func (b *Bot) handleAdminCommand(m *tgbotapi.Message) {
	if !b.isOperator(m.From.ID) {
		return
	}
	b.sessions.clear(m.From.ID)
	b.sendKb(m.Chat.ID, "<b>⚙️ Админ-меню</b>", adminMainKb())
}

func adminTariffOperatorsKb(operators []catalog.Operator) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(operators)+1)
	for _, op := range operators {
		rows = append(rows, inlineRow(op.Name, fmt.Sprintf("admin:operator_tariffs:%d", op.ID)))
	}
	rows = append(rows, inlineRow("⬅️ Назад", "admin:back_main"))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) handleAdminCallback(cb *tgbotapi.CallbackQuery) {
	if !b.isOperator(cb.From.ID) {
		b.alertCallback(cb.ID, "Нет доступа")
		return
	}

	parts := strings.Split(cb.Data, ":")
	action := parts[1]

	switch action {
	case "back_main":
		b.sessions.clear(cb.From.ID)
		b.editKb(cb.Message.Chat.ID, cb.Message.MessageID, "<b>⚙️ Админ-меню</b>", adminMainKb())
		b.answerCallback(cb.ID, "")

	case "operators":
		b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
			"<b>🏷️ Операторы</b>\n\nВыберите оператора:", adminOperatorsKb(b.cat.Operators()))
		b.answerCallback(cb.ID, "")

	case "operator":
		op, err := b.cat.OperatorByID(parseID(parts, 2))
		if err != nil {
			b.alertCallback(cb.ID, "Оператор не найден")
			return
		}
		b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
			fmt.Sprintf("<b>Оператор:</b> %s", op.Name), adminOperatorActionsKb(op.ID))
		b.answerCallback(cb.ID, "")

	case "operator_add":
		sess := b.sessions.get(cb.From.ID)
		sess.State = stateAdminWaitOperatorName
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID, "Введите название оператора:")
		b.answerCallback(cb.ID, "")

	case "operator_delete":
		if err := b.cat.DeleteOperator(parseID(parts, 2)); err != nil {
			b.alertCallback(cb.ID, "Оператор не найден")
			return
		}
		b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
			"Оператор удалён.\n\n<b>🏷️ Операторы</b>", adminOperatorsKb(b.cat.Operators()))
		b.answerCallback(cb.ID, "")

	case "tariffs":
		b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
			"<b>📦 Тарифы</b>\n\nВыберите оператора:", adminTariffOperatorsKb(b.cat.Operators()))
		b.answerCallback(cb.ID, "")

	case "operator_tariffs":
		b.adminShowTariffs(cb, parseID(parts, 2))

	case "tariff":
		b.adminShowTariff(cb, parseID(parts, 2))

	case "tariff_add":
		sess := b.sessions.get(cb.From.ID)
		sess.State = stateAdminWaitTariffName
		sess.AdminOperatorID = parseID(parts, 2)
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID, "Введите название тарифа:")
		b.answerCallback(cb.ID, "")

	case "tariff_toggle":
		t, err := b.cat.TariffByID(parseID(parts, 2))
		if err != nil {
			b.alertCallback(cb.ID, "Тариф не найден")
			return
		}
		t.IsPublic = !t.IsPublic
		if err := b.cat.UpdateTariff(t); err != nil {
			b.alertCallback(cb.ID, "Тариф не найден")
			return
		}
		b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
			renderTariffAdminText(b.cat, t), adminTariffActionsKb(t))
		b.answerCallback(cb.ID, "Видимость изменена")

	case "tariff_delete":
		t, err := b.cat.TariffByID(parseID(parts, 2))
		if err != nil {
			b.alertCallback(cb.ID, "Тариф не найден")
			return
		}
		if err := b.cat.DeleteTariff(t.ID); err != nil {
			b.alertCallback(cb.ID, "Тариф не найден")
			return
		}
		b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
			"Тариф удалён.", adminTariffsKb(b.cat.TariffsByOperator(t.OperatorID, false), t.OperatorID))
		b.answerCallback(cb.ID, "")

	case "methods":
		b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
			"<b>🏦 Способы оплаты</b>", adminMethodsKb(b.cat.PaymentMethods()))
		b.answerCallback(cb.ID, "")

	case "method":
		m, err := b.cat.PaymentMethodByID(parseID(parts, 2))
		if err != nil {
			b.alertCallback(cb.ID, "Способ оплаты не найден")
			return
		}
		status := "выключен 🔴"
		if m.IsActive {
			status = "включен 🟢"
		}
		b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
			fmt.Sprintf("<b>🏦 %s</b>\n\nСтатус: %s\n\n<b>Реквизиты:</b>\n%s", m.Name, status, m.Details),
			adminMethodActionsKb(m))
		b.answerCallback(cb.ID, "")

	case "method_add":
		sess := b.sessions.get(cb.From.ID)
		sess.State = stateAdminWaitMethodName
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID, "Введите название банка:")
		b.answerCallback(cb.ID, "")

	case "method_toggle":
		m, err := b.cat.PaymentMethodByID(parseID(parts, 2))
		if err != nil {
			b.alertCallback(cb.ID, "Способ оплаты не найден")
			return
		}
		if err := b.cat.SetPaymentMethodActive(m.ID, !m.IsActive); err != nil {
			b.alertCallback(cb.ID, "Способ оплаты не найден")
			return
		}
		b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
			"<b>🏦 Способы оплаты</b>", adminMethodsKb(b.cat.PaymentMethods()))
		b.answerCallback(cb.ID, "Статус изменён")

	case "method_delete":
		if err := b.cat.DeletePaymentMethod(parseID(parts, 2)); err != nil {
			b.alertCallback(cb.ID, "Способ оплаты не найден")
			return
		}
		b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
			"<b>🏦 Способы оплаты</b>", adminMethodsKb(b.cat.PaymentMethods()))
		b.answerCallback(cb.ID, "")

	case "orders":
		b.adminShowRecentOrders(cb)

	default:
		b.answerCallback(cb.ID, "")
	}
}

func (b *Bot) adminShowTariffs(cb *tgbotapi.CallbackQuery, operatorID int64) {
	op, err := b.cat.OperatorByID(operatorID)
	if err != nil {
		b.alertCallback(cb.ID, "Оператор не найден")
		return
	}
	tariffs := b.cat.TariffsByOperator(operatorID, false)
	b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
		fmt.Sprintf("<b>📦 Тарифы оператора %s</b>", op.Name), adminTariffsKb(tariffs, operatorID))
	b.answerCallback(cb.ID, "")
}

func (b *Bot) adminShowTariff(cb *tgbotapi.CallbackQuery, tariffID int64) {
	t, err := b.cat.TariffByID(tariffID)
	if err != nil {
		b.alertCallback(cb.ID, "Тариф не найден")
		return
	}
	b.editKb(cb.Message.Chat.ID, cb.Message.MessageID,
		renderTariffAdminText(b.cat, t), adminTariffActionsKb(t))
	b.answerCallback(cb.ID, "")
}

func renderTariffAdminText(cat *catalog.Catalog, t catalog.Tariff) string {
	operatorName := "Не указан"
	if op, err := cat.OperatorByID(t.OperatorID); err == nil {
		operatorName = op.Name
	}
	status := "Скрытый"
	if t.IsPublic {
		status = "Публичный"
	}
	monthlyFee := "не указана"
	if t.MonthlyFee != nil {
		monthlyFee = fmt.Sprintf("%d ₽/мес", *t.MonthlyFee)
	}
	return fmt.Sprintf("<b>Тариф:</b> %s\n"+
		"<b>Оператор:</b> %s\n"+
		"<b>Статус:</b> %s\n"+
		"<b>Абонплата:</b> %s\n"+
		"<b>Стоимость подключения:</b> %d ₽\n\n"+
		"<b>Описание:</b>\n%s",
		t.Name, operatorName, status, monthlyFee, t.ConnectionPrice, t.Description)
}

func (b *Bot) adminShowRecentOrders(cb *tgbotapi.CallbackQuery) {
	orders, err := b.store.ListRecent(10)
	if err != nil {
		b.l.Warn("Failed list recent orders", zap.Error(err))
		b.alertCallback(cb.ID, "Не удалось получить заказы")
		return
	}
	if len(orders) == 0 {
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID, "Заказов пока нет.")
		b.answerCallback(cb.ID, "")
		return
	}
	lines := []string{"<b>🗂 Последние заказы:</b>", ""}
	for i := range orders {
		lines = append(lines, orderSummaryLine(&orders[i]))
	}
	b.edit(cb.Message.Chat.ID, cb.Message.MessageID, strings.Join(lines, "\n"))
	b.answerCallback(cb.ID, "")
}

// processAdminInput текстовые шаги админ-меню: создание оператора,
// тарифа и способа оплаты.
func (b *Bot) processAdminInput(m *tgbotapi.Message, sess *session) {
	if !b.isOperator(m.From.ID) {
		b.sessions.clear(m.From.ID)
		return
	}
	text := strings.TrimSpace(m.Text)

	switch sess.State {
	case stateAdminWaitOperatorName:
		if text == "" {
			b.send(m.Chat.ID, "Название не может быть пустым.")
			return
		}
		if _, err := b.cat.AddOperator(text); err != nil {
			b.l.Error("Failed add operator", zap.Error(err))
			b.send(m.Chat.ID, "Не удалось сохранить оператора.")
			return
		}
		b.sessions.clear(m.From.ID)
		b.sendKb(m.Chat.ID, "Оператор добавлен.\n\n<b>🏷️ Операторы</b>", adminOperatorsKb(b.cat.Operators()))

	case stateAdminWaitTariffName:
		if text == "" {
			b.send(m.Chat.ID, "Название не может быть пустым.")
			return
		}
		sess.AdminTariffName = text
		sess.State = stateAdminWaitTariffDescription
		b.send(m.Chat.ID, "Введите описание тарифа:")

	case stateAdminWaitTariffDescription:
		sess.AdminTariffDesc = text
		sess.State = stateAdminWaitTariffMonthlyFee
		b.send(m.Chat.ID, "Введите абонплату в рублях (0 — без абонплаты):")

	case stateAdminWaitTariffMonthlyFee:
		fee, err := strconv.ParseInt(text, 10, 64)
		if err != nil || fee < 0 {
			b.send(m.Chat.ID, "Введите число, например 450.")
			return
		}
		if fee > 0 {
			sess.AdminTariffMonthlyFee = &fee
		} else {
			sess.AdminTariffMonthlyFee = nil
		}
		sess.State = stateAdminWaitTariffConnectionPrice
		b.send(m.Chat.ID, "Введите стоимость подключения в рублях:")

	case stateAdminWaitTariffConnectionPrice:
		price, err := strconv.ParseInt(text, 10, 64)
		if err != nil || price <= 0 {
			b.send(m.Chat.ID, "Введите число больше нуля, например 500.")
			return
		}
		t := catalog.Tariff{
			OperatorID:      sess.AdminOperatorID,
			Name:            sess.AdminTariffName,
			Description:     sess.AdminTariffDesc,
			MonthlyFee:      sess.AdminTariffMonthlyFee,
			ConnectionPrice: price,
			IsPublic:        true,
		}
		created, err := b.cat.AddTariff(t)
		if err != nil {
			b.l.Error("Failed add tariff", zap.Error(err))
			b.send(m.Chat.ID, "Не удалось сохранить тариф.")
			return
		}
		b.sessions.clear(m.From.ID)
		b.sendKb(m.Chat.ID, "Тариф добавлен.\n\n"+renderTariffAdminText(b.cat, created), adminTariffActionsKb(created))

	case stateAdminWaitMethodName:
		if text == "" {
			b.send(m.Chat.ID, "Название не может быть пустым.")
			return
		}
		sess.AdminTariffName = text
		sess.State = stateAdminWaitMethodDetails
		b.send(m.Chat.ID, "Введите реквизиты (номер карты/телефона, получатель):")

	case stateAdminWaitMethodDetails:
		if text == "" {
			b.send(m.Chat.ID, "Реквизиты не могут быть пустыми.")
			return
		}
		if _, err := b.cat.AddPaymentMethod(sess.AdminTariffName, text); err != nil {
			b.l.Error("Failed add payment method", zap.Error(err))
			b.send(m.Chat.ID, "Не удалось сохранить способ оплаты.")
			return
		}
		b.sessions.clear(m.From.ID)
		b.sendKb(m.Chat.ID, "Способ оплаты добавлен.\n\n<b>🏦 Способы оплаты</b>", adminMethodsKb(b.cat.PaymentMethods()))
	}
}
