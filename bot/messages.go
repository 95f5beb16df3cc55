package bot

import (
	"fmt"
	"strings"

	tariffbot "github.com/bobrihha/tg-sales-bot-tariff"
	"github.com/bobrihha/tg-sales-bot-tariff/catalog"
)

const welcomeMessage = `🎉 <b>Добро пожаловать!</b>

Я ваш персональный помощник по выбору тарифов.

Я помогу вам:
• 📋 Подобрать идеальный тариф
• ❓ Ответить на ваши вопросы
• 💳 Оформить заказ и оплату

Выберите действие в меню ниже 👇`

const aboutMessage = `<b>ℹ️ О нас</b>

Мы предлагаем качественные услуги и индивидуальный подход к каждому клиенту.

🔹 Опыт работы более 5 лет
🔹 Сотни довольных клиентов
🔹 Гарантия результата
🔹 Поддержка 24/7

Выберите тариф и убедитесь сами! 👇`

const contactMessage = `<b>💬 Связаться с нами</b>

Есть вопросы? Мы всегда на связи!

📩 Напишите ваш вопрос прямо сюда, и мы ответим в ближайшее время.`

type faqItem struct {
	Key      string
	Question string
	Answer   string
}

var faqItems = []faqItem{
	{
		Key:      "payment",
		Question: "💳 Как оплатить?",
		Answer: "<b>Способы оплаты:</b>\n\n" +
			"Оплата происходит через безопасный сервис Robokassa.\n" +
			"Принимаются: банковские карты, СБП, электронные кошельки.\n\n" +
			"После выбора тарифа нажмите «Оформить заказ» и следуйте инструкциям.",
	},
	{
		Key:      "refund",
		Question: "💸 Можно ли вернуть деньги?",
		Answer: "<b>Возврат средств:</b>\n\n" +
			"Да, мы вернём деньги в полном объёме, если услуга вам не подошла.\n" +
			"Обратитесь в поддержку в течение 14 дней после покупки.",
	},
	{
		Key:      "delivery",
		Question: "📦 Когда я получу доступ?",
		Answer: "<b>Доступ к материалам:</b>\n\n" +
			"Сразу после подтверждения оплаты мы свяжемся с вами и выдадим доступ.",
	},
}

func faqItemByKey(key string) (faqItem, bool) {
	for _, item := range faqItems {
		if item.Key == key {
			return item, true
		}
	}
	return faqItem{}, false
}

func formatTariffInfo(t catalog.Tariff, operatorName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>📦 %s</b>\n\n", t.Name)
	if operatorName != "" {
		fmt.Fprintf(&b, "📡 <b>Оператор:</b> %s\n", operatorName)
	}
	if t.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", t.Description)
	}
	if t.MonthlyFee != nil {
		fmt.Fprintf(&b, "\n📅 <b>Абонплата:</b> %d ₽/мес", *t.MonthlyFee)
	}
	fmt.Fprintf(&b, "\n💳 <b>Стоимость подключения:</b> %d ₽", t.ConnectionPrice)
	return b.String()
}

func modeText(mode tariffbot.OrderMode) string {
	if mode == tariffbot.TRANSFER_MODE {
		return "Перенос номера"
	}
	return "Новый номер"
}

// confirmationMessage сводка заявки перед оплатой.
func confirmationMessage(d *tariffbot.OrderDraft) string {
	lines := []string{
		"<b>✅ Проверьте данные заявки:</b>",
		"",
		fmt.Sprintf("📡 <b>Оператор:</b> %s", d.OperatorName),
		fmt.Sprintf("📦 <b>Тариф:</b> %s", d.TariffName),
		fmt.Sprintf("💳 <b>Стоимость подключения:</b> %d ₽", d.ConnectionPrice),
	}
	if d.MonthlyFee != nil {
		lines = append(lines, fmt.Sprintf("📅 <b>Абонплата:</b> %d ₽/мес", *d.MonthlyFee))
	}
	lines = append(lines, "", fmt.Sprintf("🧾 <b>Тип заявки:</b> %s", modeText(d.Mode)))
	if d.Mode == tariffbot.TRANSFER_MODE {
		lines = append(lines, fmt.Sprintf("📱 <b>Номер для переноса:</b> %s", d.TransferPhone))
	}
	lines = append(lines,
		fmt.Sprintf("👤 <b>ФИО:</b> %s", d.FullName),
		fmt.Sprintf("🌍 <b>Регион/город:</b> %s", d.RegionCity),
		"📎 <b>Фото паспорта:</b> получены (2 шт.)",
		"",
		"Всё верно? Нажмите «Перейти к оплате».",
	)
	return strings.Join(lines, "\n")
}

// newOrderOperatorMessage полная заявка для администраторов.
func newOrderOperatorMessage(o *tariffbot.Order, statusText string) string {
	lines := []string{
		"🔔 <b>НОВАЯ ЗАЯВКА!</b>",
		"",
		fmt.Sprintf("<b>Заказ:</b> #%d", o.OrderID),
		fmt.Sprintf("<b>Оператор:</b> %s", o.OperatorName),
		fmt.Sprintf("<b>Тариф:</b> %s", o.TariffName),
		fmt.Sprintf("<b>Стоимость подключения:</b> %d ₽", o.ConnectionPrice),
	}
	if o.MonthlyFee != nil {
		lines = append(lines, fmt.Sprintf("<b>Абонплата:</b> %d ₽/мес", *o.MonthlyFee))
	}
	lines = append(lines, "", fmt.Sprintf("<b>Тип заявки:</b> %s", modeText(o.Mode)))
	if o.Mode == tariffbot.TRANSFER_MODE {
		phone := "Не указано"
		if o.TransferPhone != nil {
			phone = *o.TransferPhone
		}
		lines = append(lines, fmt.Sprintf("<b>Номер для переноса:</b> %s", phone))
	}
	username := "отсутствует"
	if o.Username != nil {
		username = *o.Username
	}
	lines = append(lines,
		fmt.Sprintf("<b>ФИО:</b> %s", o.FullName),
		fmt.Sprintf("<b>Регион/город:</b> %s", o.RegionCity),
		"",
		fmt.Sprintf("🆔 Telegram ID: %d", o.UserID),
		fmt.Sprintf("👤 Username: @%s", username),
		"",
		fmt.Sprintf("✅ <b>Статус:</b> %s", statusText),
	)
	return strings.Join(lines, "\n")
}

func orderStatusText(s tariffbot.OrderStatus) string {
	switch s {
	case tariffbot.PAID_ORDER:
		return "Оплачено ✅"
	case tariffbot.AWAITING_CONFIRMATION_ORDER:
		return "Ожидает подтверждения ⏳"
	case tariffbot.PAYMENT_REJECTED_ORDER:
		return "Оплата отклонена ❌"
	default:
		return "Ожидает оплаты 💳"
	}
}

func orderSummaryLine(o *tariffbot.Order) string {
	return fmt.Sprintf("#%d · %s · %d ₽ · %s",
		o.OrderID, o.TariffName, o.ConnectionPrice, orderStatusText(o.Status))
}
