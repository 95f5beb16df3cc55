package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bobrihha/tg-sales-bot-tariff/catalog"
)

const (
	btnTariffs  = "📋 Тарифы"
	btnMyOrders = "📦 Мои заказы"
	btnAbout    = "ℹ️ О нас"
	btnFAQ      = "❓ FAQ"
	btnContact  = "💬 Связаться"
)

func mainMenuKb() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnTariffs),
			tgbotapi.NewKeyboardButton(btnAbout),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnFAQ),
			tgbotapi.NewKeyboardButton(btnContact),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMyOrders),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func inlineRow(text, data string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(text, data))
}

func operatorsKb(operators []catalog.Operator) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(operators))
	for _, op := range operators {
		rows = append(rows, inlineRow(op.Name, fmt.Sprintf("operator:%d", op.ID)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func tariffsKb(tariffs []catalog.Tariff) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(tariffs)+1)
	for _, t := range tariffs {
		label := fmt.Sprintf("%s — %d ₽", t.Name, t.ConnectionPrice)
		rows = append(rows, inlineRow(label, fmt.Sprintf("tariff:%d", t.ID)))
	}
	rows = append(rows, inlineRow("⬅️ К операторам", "back_to_operators"))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func tariffActionKb(tariffID, operatorID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		inlineRow("✅ Оформить заявку", fmt.Sprintf("order:%d", tariffID)),
		inlineRow("⬅️ Назад к тарифам", fmt.Sprintf("back_to_operator:%d", operatorID)),
	)
}

func orderModeKb(tariffID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		inlineRow("🔁 Перенос номера", fmt.Sprintf("order_mode:transfer:%d", tariffID)),
		inlineRow("🆕 Новый номер", fmt.Sprintf("order_mode:new:%d", tariffID)),
		inlineRow("⬅️ Назад", fmt.Sprintf("tariff:%d", tariffID)),
	)
}

func confirmOrderKb(tariffID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		inlineRow("💳 Перейти к оплате", fmt.Sprintf("pay:%d", tariffID)),
		inlineRow("❌ Отменить", "cancel_order"),
	)
}

// paymentMethodsKb банки для ручной оплаты, плюс онлайн-оплата
// через Robokassa если она настроена.
func paymentMethodsKb(methods []catalog.PaymentMethod, orderID int64, withRobokassa bool) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(methods)+2)
	if withRobokassa {
		rows = append(rows, inlineRow("💳 Оплатить онлайн (Robokassa)", fmt.Sprintf("rk_pay:%d", orderID)))
	}
	for _, m := range methods {
		rows = append(rows, inlineRow("🏦 "+m.Name, fmt.Sprintf("select_payment:%d:%d", m.ID, orderID)))
	}
	rows = append(rows, inlineRow("❌ Отменить", "cancel_order"))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func paymentDetailsKb(orderID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		inlineRow("✅ Я оплатил", fmt.Sprintf("i_paid:%d", orderID)),
		inlineRow("❌ Отменить", "cancel_order"),
	)
}

func paymentLinkKb(paymentURL string, orderID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("💳 Оплатить через Robokassa", paymentURL),
		),
		inlineRow("✅ Я оплатил", fmt.Sprintf("rk_check:%d", orderID)),
		inlineRow("❌ Отменить", "cancel_order"),
	)
}

func operatorConfirmKb(orderID, userID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		inlineRow("✅ Подтвердить оплату", fmt.Sprintf("confirm_payment:%d:%d", orderID, userID)),
		inlineRow("❌ Отклонить", fmt.Sprintf("reject_payment:%d:%d", orderID, userID)),
	)
}

func backToOperatorsKb() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(inlineRow("⬅️ К операторам", "back_to_operators"))
}

func faqMenuKb() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(faqItems))
	for _, item := range faqItems {
		rows = append(rows, inlineRow(item.Question, "faq:"+item.Key))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func faqBackKb() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(inlineRow("⬅️ Назад к FAQ", "back_to_faq"))
}

// Админ-меню.

func adminMainKb() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		inlineRow("🏷️ Операторы", "admin:operators"),
		inlineRow("📦 Тарифы", "admin:tariffs"),
		inlineRow("🏦 Способы оплаты", "admin:methods"),
		inlineRow("🗂 Последние заказы", "admin:orders"),
	)
}

func adminOperatorsKb(operators []catalog.Operator) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(operators)+2)
	for _, op := range operators {
		rows = append(rows, inlineRow(op.Name, fmt.Sprintf("admin:operator:%d", op.ID)))
	}
	rows = append(rows, inlineRow("➕ Добавить оператора", "admin:operator_add"))
	rows = append(rows, inlineRow("⬅️ Назад", "admin:back_main"))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminOperatorActionsKb(operatorID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		inlineRow("➕ Добавить тариф", fmt.Sprintf("admin:tariff_add:%d", operatorID)),
		inlineRow("🗑 Удалить оператора", fmt.Sprintf("admin:operator_delete:%d", operatorID)),
		inlineRow("⬅️ Назад", "admin:operators"),
	)
}

func adminTariffsKb(tariffs []catalog.Tariff, operatorID int64) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(tariffs)+2)
	for _, t := range tariffs {
		mark := "🙈"
		if t.IsPublic {
			mark = "👁"
		}
		label := fmt.Sprintf("%s %s — %d ₽", mark, t.Name, t.ConnectionPrice)
		rows = append(rows, inlineRow(label, fmt.Sprintf("admin:tariff:%d", t.ID)))
	}
	rows = append(rows, inlineRow("➕ Добавить тариф", fmt.Sprintf("admin:tariff_add:%d", operatorID)))
	rows = append(rows, inlineRow("⬅️ Назад", "admin:tariffs"))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminTariffActionsKb(t catalog.Tariff) tgbotapi.InlineKeyboardMarkup {
	visibility := "👁 Опубликовать"
	if t.IsPublic {
		visibility = "🙈 Скрыть"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		inlineRow(visibility, fmt.Sprintf("admin:tariff_toggle:%d", t.ID)),
		inlineRow("🗑 Удалить тариф", fmt.Sprintf("admin:tariff_delete:%d", t.ID)),
		inlineRow("⬅️ Назад", fmt.Sprintf("admin:operator_tariffs:%d", t.OperatorID)),
	)
}

func adminMethodsKb(methods []catalog.PaymentMethod) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(methods)+2)
	for _, m := range methods {
		mark := "🔴"
		if m.IsActive {
			mark = "🟢"
		}
		rows = append(rows, inlineRow(mark+" "+m.Name, fmt.Sprintf("admin:method:%d", m.ID)))
	}
	rows = append(rows, inlineRow("➕ Добавить способ оплаты", "admin:method_add"))
	rows = append(rows, inlineRow("⬅️ Назад", "admin:back_main"))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminMethodActionsKb(m catalog.PaymentMethod) tgbotapi.InlineKeyboardMarkup {
	toggle := "🟢 Включить"
	if m.IsActive {
		toggle = "🔴 Выключить"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		inlineRow(toggle, fmt.Sprintf("admin:method_toggle:%d", m.ID)),
		inlineRow("🗑 Удалить", fmt.Sprintf("admin:method_delete:%d", m.ID)),
		inlineRow("⬅️ Назад", "admin:methods"),
	)
}
