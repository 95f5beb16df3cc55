package robokassa

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tariffbot "github.com/bobrihha/tg-sales-bot-tariff"
)

type memStore struct {
	orders map[int64]*tariffbot.Order
}

func newMemStore(orders ...*tariffbot.Order) *memStore {
	s := &memStore{orders: map[int64]*tariffbot.Order{}}
	for _, o := range orders {
		s.orders[o.OrderID] = o
	}
	return s
}

func (s *memStore) Create(o *tariffbot.Order) error {
	if _, exists := s.orders[o.OrderID]; exists {
		return tariffbot.ErrOrderIDConflict
	}
	s.orders[o.OrderID] = o
	return nil
}

func (s *memStore) Get(orderID int64) (*tariffbot.Order, error) {
	o, exists := s.orders[orderID]
	if !exists {
		return nil, tariffbot.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *memStore) SetStatus(orderID int64, status tariffbot.OrderStatus) (bool, error) {
	o, exists := s.orders[orderID]
	if !exists {
		return false, nil
	}
	o.Status = status
	return true, nil
}

func (s *memStore) AttachReceipt(orderID int64, receiptFileID, methodName string) (bool, error) {
	o, exists := s.orders[orderID]
	if !exists {
		return false, nil
	}
	o.PaymentReceipt = &receiptFileID
	o.PaymentMethodName = &methodName
	o.Status = tariffbot.AWAITING_CONFIRMATION_ORDER
	return true, nil
}

func (s *memStore) Confirm(orderID int64) (bool, error) {
	o, exists := s.orders[orderID]
	if !exists {
		return false, tariffbot.ErrNotFound
	}
	if o.Status == tariffbot.PAID_ORDER {
		return true, nil
	}
	now := time.Now()
	o.Status = tariffbot.PAID_ORDER
	o.PaymentConfirmedAt = &now
	return true, nil
}

func (s *memStore) Reject(orderID int64) (bool, error) {
	o, exists := s.orders[orderID]
	if !exists || o.Status == tariffbot.PAID_ORDER {
		return false, nil
	}
	o.Status = tariffbot.PAYMENT_REJECTED_ORDER
	o.PaymentReceipt = nil
	return true, nil
}

func (s *memStore) MarkPaid(orderID int64) (bool, error) {
	o, exists := s.orders[orderID]
	if !exists {
		return false, tariffbot.ErrNotFound
	}
	if o.Status == tariffbot.PAID_ORDER {
		return false, nil
	}
	now := time.Now()
	o.Status = tariffbot.PAID_ORDER
	o.PaymentConfirmedAt = &now
	return true, nil
}

func (s *memStore) ListByUser(userID int64) ([]tariffbot.Order, error) { return nil, nil }
func (s *memStore) ListRecent(limit int) ([]tariffbot.Order, error)    { return nil, nil }

type memNotifier struct {
	buyer     []string
	operators []string
}

func (n *memNotifier) NotifyBuyer(userID int64, text string) error {
	n.buyer = append(n.buyer, text)
	return nil
}

func (n *memNotifier) NotifyOperators(text string, photos ...string) error {
	n.operators = append(n.operators, text)
	return nil
}

func pendingOrder(orderID, price int64) *tariffbot.Order {
	d := tariffbot.OrderDraft{
		UserID:          100500,
		Username:        "client",
		TariffID:        7,
		TariffName:      "Smart",
		OperatorID:      1,
		OperatorName:    "MTS",
		ConnectionPrice: price,
		Mode:            tariffbot.NEW_MODE,
		FullName:        "Иванов Иван Иванович",
		RegionCity:      "Москва",
		PassportPhoto1:  "file-1",
		PassportPhoto2:  "file-2",
	}
	return d.Order(orderID)
}

func resultSignature(outSum, invID, password string) string {
	sum := md5.Sum([]byte(outSum + ":" + invID + ":" + password))
	return hex.EncodeToString(sum[:])
}

func postResult(t *testing.T, p *Provider, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/payment/result", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, p.ResultHandler()(c))
	return rec
}

func TestResultHandlerPaid(t *testing.T) {
	store := newMemStore(pendingOrder(123456789, 1500))
	nf := &memNotifier{}
	p := NewProvider(Config{MerchantLogin: "demo", Password1: "secret1", Password2: "secret2"}, store, nf)

	form := url.Values{}
	form.Set("OutSum", "1500.00")
	form.Set("InvId", "123456789")
	form.Set("SignatureValue", resultSignature("1500.00", "123456789", "secret2"))

	rec := postResult(t, p, form)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK123456789", rec.Body.String())

	o, err := store.Get(123456789)
	require.NoError(t, err)
	assert.Equal(t, tariffbot.PAID_ORDER, o.Status)
	assert.Len(t, nf.buyer, 1)
	assert.Len(t, nf.operators, 1)
}

func TestResultHandlerBadSignature(t *testing.T) {
	store := newMemStore(pendingOrder(123456789, 1500))
	nf := &memNotifier{}
	p := NewProvider(Config{MerchantLogin: "demo", Password1: "secret1", Password2: "secret2"}, store, nf)

	form := url.Values{}
	form.Set("OutSum", "1500.00")
	form.Set("InvId", "123456789")
	form.Set("SignatureValue", "deadbeefdeadbeefdeadbeefdeadbeef")

	rec := postResult(t, p, form)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad sign", rec.Body.String())

	o, _ := store.Get(123456789)
	assert.Equal(t, tariffbot.PENDING_ORDER, o.Status)
	assert.Empty(t, nf.buyer)
}

func TestResultHandlerIdempotent(t *testing.T) {
	store := newMemStore(pendingOrder(123456789, 1500))
	nf := &memNotifier{}
	p := NewProvider(Config{MerchantLogin: "demo", Password1: "secret1", Password2: "secret2"}, store, nf)

	form := url.Values{}
	form.Set("OutSum", "1500.00")
	form.Set("InvId", "123456789")
	form.Set("SignatureValue", resultSignature("1500.00", "123456789", "secret2"))

	rec1 := postResult(t, p, form)
	rec2 := postResult(t, p, form)

	assert.Equal(t, http.StatusOK, rec1.Code)
	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, rec1.Body.String(), rec2.Body.String())

	// Ровно один переход и одна рассылка уведомлений.
	assert.Len(t, nf.buyer, 1)
	assert.Len(t, nf.operators, 1)
}

func TestResultHandlerUnknownOrder(t *testing.T) {
	store := newMemStore()
	p := NewProvider(Config{MerchantLogin: "demo", Password1: "secret1", Password2: "secret2"}, store, &memNotifier{})

	form := url.Values{}
	form.Set("OutSum", "1500.00")
	form.Set("InvId", "987654321")
	form.Set("SignatureValue", resultSignature("1500.00", "987654321", "secret2"))

	rec := postResult(t, p, form)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "bad order", rec.Body.String())
}

func TestResultHandlerAmountTampering(t *testing.T) {
	store := newMemStore(pendingOrder(123456789, 1500))
	nf := &memNotifier{}
	p := NewProvider(Config{MerchantLogin: "demo", Password1: "secret1", Password2: "secret2"}, store, nf)

	// Подпись синтаксически валидна: посчитана правильным паролем,
	// но над подмененной суммой.
	form := url.Values{}
	form.Set("OutSum", "1.00")
	form.Set("InvId", "123456789")
	form.Set("SignatureValue", resultSignature("1.00", "123456789", "secret2"))

	rec := postResult(t, p, form)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad amount", rec.Body.String())

	o, _ := store.Get(123456789)
	assert.Equal(t, tariffbot.PENDING_ORDER, o.Status)
	assert.Empty(t, nf.buyer)
}

func TestResultHandlerShpPassthrough(t *testing.T) {
	store := newMemStore(pendingOrder(123456789, 1500))
	p := NewProvider(Config{MerchantLogin: "demo", Password1: "secret1", Password2: "secret2"}, store, &memNotifier{})

	sum := md5.Sum([]byte("1500.00:123456789:secret2:Shp_tariff=7:Shp_user=100500"))

	form := url.Values{}
	form.Set("OutSum", "1500.00")
	form.Set("InvId", "123456789")
	form.Set("SignatureValue", hex.EncodeToString(sum[:]))
	form.Set("Shp_user", "100500")
	form.Set("Shp_tariff", "7")

	rec := postResult(t, p, form)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK123456789", rec.Body.String())
}

func TestResultHandlerQueryString(t *testing.T) {
	store := newMemStore(pendingOrder(123456789, 1500))
	p := NewProvider(Config{MerchantLogin: "demo", Password1: "secret1", Password2: "secret2"}, store, &memNotifier{})

	e := echo.New()
	sig := resultSignature("1500.00", "123456789", "secret2")
	req := httptest.NewRequest(http.MethodGet,
		"/payment/result?OutSum=1500.00&InvId=123456789&SignatureValue="+sig, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, p.ResultHandler()(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK123456789", rec.Body.String())
}

func TestSuccessAndFailPages(t *testing.T) {
	p := NewProvider(Config{MerchantLogin: "demo", Password1: "secret1", Password2: "secret2"}, newMemStore(), &memNotifier{})
	e := echo.New()

	tests := []struct {
		name    string
		handler echo.HandlerFunc
		target  string
		want    string
	}{
		{"success with order", p.SuccessHandler(), "/payment/success?InvId=123", "#123"},
		{"success without order", p.SuccessHandler(), "/payment/success", "#N/A"},
		{"fail with order", p.FailHandler(), "/payment/fail?InvId=123", "#123"},
		{"fail without order", p.FailHandler(), "/payment/fail", "#N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			require.NoError(t, tt.handler(c))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

// InvId — внешний ввод, HTML из него не должен попадать в страницу как есть.
func TestSuccessAndFailPagesEscapeInvID(t *testing.T) {
	p := NewProvider(Config{MerchantLogin: "demo", Password1: "secret1", Password2: "secret2"}, newMemStore(), &memNotifier{})
	e := echo.New()

	target := "?InvId=" + url.QueryEscape("<script>alert(1)</script>")
	for name, h := range map[string]echo.HandlerFunc{
		"success": p.SuccessHandler(),
		"fail":    p.FailHandler(),
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/payment/"+name+target, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			require.NoError(t, h(c))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.NotContains(t, rec.Body.String(), "<script>")
			assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
		})
	}
}
