// Package robokassa интеграция с платежной системой Robokassa:
// генерация ссылки на оплату, протокол подписи и обработка callback.
package robokassa

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	tariffbot "github.com/bobrihha/tg-sales-bot-tariff"
)

// DefaultEntrypointURL адрес платежной страницы Robokassa.
const DefaultEntrypointURL = "https://auth.robokassa.ru/Merchant/Index.aspx"

type Config struct {
	MerchantLogin string

	// Password1 пароль #1: исходящая подпись ссылки на оплату
	// и проверка Success URL.
	Password1 string

	// Password2 пароль #2: проверка серверного callback (Result URL).
	Password2 string

	// IsTest добавляет IsTest=1 к ссылке на оплату.
	IsTest bool

	// EntrypointURL переопределяет адрес платежной страницы (для тестов).
	EntrypointURL string
}

func NewProvider(cfg Config, store tariffbot.OrderStore, nf tariffbot.Notifier) *Provider {
	if cfg.EntrypointURL == "" {
		cfg.EntrypointURL = DefaultEntrypointURL
	}
	return &Provider{
		cfg:   cfg,
		store: store,
		nf:    nf,
		l:     zap.L().Named("robokassa_provider"),
	}
}

type Provider struct {
	cfg   Config
	store tariffbot.OrderStore
	nf    tariffbot.Notifier
	l     *zap.Logger
}

// PaymentURL строит ссылку на платежную страницу.
// user_id и tariff_id уходят как Shp-параметры, Robokassa вернет их
// без изменений в Result URL.
func (p *Provider) PaymentURL(orderID int64, amount int64, description string, userID int64, tariffID int64) string {
	outSum := FormatAmount(amount)
	shp := map[string]string{
		"Shp_tariff": strconv.FormatInt(tariffID, 10),
		"Shp_user":   strconv.FormatInt(userID, 10),
	}

	params := url.Values{}
	params.Set("MerchantLogin", p.cfg.MerchantLogin)
	params.Set("OutSum", outSum)
	params.Set("InvId", strconv.FormatInt(orderID, 10))
	params.Set("Description", description)
	params.Set("SignatureValue", SignPayment(p.cfg.MerchantLogin, outSum, orderID, p.cfg.Password1, shp))
	for k, v := range shp {
		params.Set(k, v)
	}
	if p.cfg.IsTest {
		params.Set("IsTest", "1")
	}

	return p.cfg.EntrypointURL + "?" + params.Encode()
}

// VerifyResultSignature проверяет подпись серверного callback (пароль #2).
func (p *Provider) VerifyResultSignature(outSum, invID, signature string, shp map[string]string) bool {
	return VerifySignature(outSum, invID, p.cfg.Password2, signature, shp)
}

// VerifySuccessSignature проверяет подпись браузерного редиректа (пароль #1).
// Редирект информационный, сам по себе заказ не оплачивает.
func (p *Provider) VerifySuccessSignature(outSum, invID, signature string, shp map[string]string) bool {
	return VerifySignature(outSum, invID, p.cfg.Password1, signature, shp)
}

// FormatAmount сумма c двумя знаками после запятой, как требует OutSum.
func FormatAmount(amount int64) string {
	return strconv.FormatFloat(float64(amount), 'f', 2, 64)
}

// SignPayment подпись исходящей ссылки: MerchantLogin:OutSum:InvId:Password1[:Shp...].
func SignPayment(login, outSum string, invID int64, password string, shp map[string]string) string {
	parts := []string{login, outSum, strconv.FormatInt(invID, 10), password}
	if s := canonicalShp(shp); s != "" {
		parts = append(parts, s)
	}
	return digest(parts)
}

// VerifySignature проверка входящей подписи: OutSum:InvId:Password[:Shp...].
// Сравнение регистронезависимое, причина несовпадения не раскрывается.
func VerifySignature(outSum, invID, password, signature string, shp map[string]string) bool {
	parts := []string{outSum, invID, password}
	if s := canonicalShp(shp); s != "" {
		parts = append(parts, s)
	}
	return strings.EqualFold(signature, digest(parts))
}

// canonicalShp Shp-параметры в виде k=v через ":", отсортированные по ключу.
func canonicalShp(shp map[string]string) string {
	if len(shp) == 0 {
		return ""
	}
	keys := make([]string, 0, len(shp))
	for k := range shp {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+shp[k])
	}
	return strings.Join(pairs, ":")
}

func digest(parts []string) string {
	sum := md5.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}
