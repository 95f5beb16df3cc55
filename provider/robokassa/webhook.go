package robokassa

import (
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	tariffbot "github.com/bobrihha/tg-sales-bot-tariff"
)

var mCallbacks = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "robokassa_callbacks_total",
		Help: "Processed Robokassa result callbacks by outcome.",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(mCallbacks)
}

// ResultHandler обработчик Result URL. Серверный callback от Robokassa,
// пользователь его не видит. Доставка at-least-once: повтор для уже
// оплаченного заказа - успешный no-op с тем же ответом OK<InvId>.
func (p *Provider) ResultHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		params := requestParams(c)

		outSum := params.Get("OutSum")
		invID := params.Get("InvId")
		signature := params.Get("SignatureValue")
		shp := shpParams(params)

		p.l.Info("Robokassa result callback",
			zap.String("inv_id", invID),
			zap.String("out_sum", outSum),
		)

		if !p.VerifyResultSignature(outSum, invID, signature, shp) {
			p.l.Warn("Invalid result signature", zap.String("inv_id", invID))
			mCallbacks.WithLabelValues("bad_sign").Inc()
			return c.String(http.StatusBadRequest, "bad sign")
		}

		orderID, err := strconv.ParseInt(invID, 10, 64)
		if err != nil {
			mCallbacks.WithLabelValues("bad_order").Inc()
			return c.String(http.StatusBadRequest, "bad order")
		}

		o, err := p.store.Get(orderID)
		if err != nil {
			if err == tariffbot.ErrNotFound {
				p.l.Warn("Order not found", zap.Int64("order_id", orderID))
				mCallbacks.WithLabelValues("not_found").Inc()
				return c.String(http.StatusNotFound, "bad order")
			}
			p.l.Error("Failed get order", zap.Int64("order_id", orderID), zap.Error(err))
			mCallbacks.WithLabelValues("error").Inc()
			return c.String(http.StatusInternalServerError, "error")
		}

		// Подпись покрывает OutSum как он пришел, но доверять сумме можно
		// только после сверки с зафиксированной при создании заказа.
		if !amountMatches(outSum, o.ConnectionPrice) {
			p.l.Warn("Amount mismatch",
				zap.Int64("order_id", orderID),
				zap.String("out_sum", outSum),
				zap.Int64("connection_price", o.ConnectionPrice),
			)
			mCallbacks.WithLabelValues("bad_amount").Inc()
			return c.String(http.StatusBadRequest, "bad amount")
		}

		first, err := p.store.MarkPaid(orderID)
		if err != nil {
			p.l.Error("Failed mark order paid", zap.Int64("order_id", orderID), zap.Error(err))
			mCallbacks.WithLabelValues("error").Inc()
			return c.String(http.StatusInternalServerError, "error")
		}

		if first {
			p.notifyPaid(o, outSum)
		}

		p.l.Info("Order marked as paid",
			zap.Int64("order_id", orderID),
			zap.Bool("first_delivery", first),
		)
		mCallbacks.WithLabelValues("ok").Inc()
		return c.String(http.StatusOK, "OK"+invID)
	}
}

// SuccessHandler страница после успешной оплаты. Информационная:
// статус заказа не меняет и рендерится даже для неизвестного заказа.
func (p *Provider) SuccessHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		params := c.QueryParams()
		invID := params.Get("InvId")
		if invID == "" {
			invID = "N/A"
		}

		if sig := params.Get("SignatureValue"); sig != "" {
			if !p.VerifySuccessSignature(params.Get("OutSum"), params.Get("InvId"), sig, shpParams(params)) {
				p.l.Warn("Invalid success signature", zap.String("inv_id", invID))
			}
		}

		// InvId приходит извне, в страницу только экранированным.
		return c.HTML(http.StatusOK, fmt.Sprintf(successPage, html.EscapeString(invID)))
	}
}

// FailHandler страница после отмены оплаты. Информационная.
func (p *Provider) FailHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		invID := c.QueryParam("InvId")
		if invID == "" {
			invID = "N/A"
		}
		return c.HTML(http.StatusOK, fmt.Sprintf(failPage, html.EscapeString(invID)))
	}
}

func (p *Provider) notifyPaid(o *tariffbot.Order, outSum string) {
	if err := p.nf.NotifyBuyer(o.UserID, buyerPaidMessage(o, outSum)); err != nil {
		p.l.Warn("Failed notify buyer", zap.Int64("user_id", o.UserID), zap.Error(err))
	}
	if err := p.nf.NotifyOperators(operatorPaidMessage(o, outSum), o.PassportPhoto1, o.PassportPhoto2); err != nil {
		p.l.Warn("Failed notify operators", zap.Int64("order_id", o.OrderID), zap.Error(err))
	}
}

func buyerPaidMessage(o *tariffbot.Order, outSum string) string {
	return fmt.Sprintf(
		"✅ <b>Оплата получена!</b>\n\n"+
			"Заказ #%d\n"+
			"Тариф: %s\n"+
			"Сумма: %s ₽\n\n"+
			"Спасибо за покупку! Мы свяжемся с вами в ближайшее время. 🎉",
		o.OrderID, o.TariffName, outSum,
	)
}

func operatorPaidMessage(o *tariffbot.Order, outSum string) string {
	modeText := "Новый номер"
	if o.Mode == tariffbot.TRANSFER_MODE {
		modeText = "Перенос номера"
	}
	username := "отсутствует"
	if o.Username != nil {
		username = *o.Username
	}
	return fmt.Sprintf(
		"💰 <b>ОПЛАТА ПОЛУЧЕНА!</b>\n\n"+
			"<b>Заказ:</b> #%d\n"+
			"<b>Оператор:</b> %s\n"+
			"<b>Тариф:</b> %s\n"+
			"<b>Сумма:</b> %s ₽\n\n"+
			"<b>Тип заявки:</b> %s\n"+
			"<b>ФИО:</b> %s\n"+
			"<b>Регион/город:</b> %s\n\n"+
			"🆔 Telegram ID: %d\n"+
			"👤 Username: @%s",
		o.OrderID, o.OperatorName, o.TariffName, outSum,
		modeText, o.FullName, o.RegionCity,
		o.UserID, username,
	)
}

// requestParams собирает параметры запроса из query string и тела формы.
func requestParams(c echo.Context) url.Values {
	params := url.Values{}
	for k, vs := range c.QueryParams() {
		params[k] = vs
	}
	if form, err := c.FormParams(); err == nil {
		for k, vs := range form {
			if _, exists := params[k]; !exists {
				params[k] = vs
			}
		}
	}
	return params
}

// shpParams выбирает сквозные Shp-параметры как они пришли.
func shpParams(params url.Values) map[string]string {
	shp := map[string]string{}
	for k := range params {
		if strings.HasPrefix(k, "Shp_") || strings.HasPrefix(k, "shp_") {
			shp[k] = params.Get(k)
		}
	}
	return shp
}

const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>Оплата успешна</title>
    <meta charset="utf-8">
    <style>
        body { font-family: Arial, sans-serif; text-align: center; padding: 50px; }
        .success { color: #28a745; font-size: 48px; }
        h1 { color: #333; }
        p { color: #666; }
    </style>
</head>
<body>
    <div class="success">✅</div>
    <h1>Оплата успешна!</h1>
    <p>Заказ #%s</p>
    <p>Спасибо за покупку! Вернитесь в Telegram-бота.</p>
</body>
</html>`

const failPage = `<!DOCTYPE html>
<html>
<head>
    <title>Оплата отменена</title>
    <meta charset="utf-8">
    <style>
        body { font-family: Arial, sans-serif; text-align: center; padding: 50px; }
        .fail { color: #dc3545; font-size: 48px; }
        h1 { color: #333; }
        p { color: #666; }
    </style>
</head>
<body>
    <div class="fail">❌</div>
    <h1>Оплата отменена</h1>
    <p>Заказ #%s</p>
    <p>Вы можете попробовать оплатить снова в Telegram-боте.</p>
</body>
</html>`

func amountMatches(outSum string, price int64) bool {
	v, err := strconv.ParseFloat(outSum, 64)
	if err != nil {
		return false
	}
	return v == float64(price)
}
