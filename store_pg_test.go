package tariffbot

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"gopkg.in/reform.v1"
	"gopkg.in/reform.v1/dialects/postgresql"
)

var db *reform.DB

func TestMain(m *testing.M) {
	if os.Getenv("DBADDRESS") != "" {
		var err error
		db, err = newConn(
			os.Getenv("DBADDRESS"),
			os.Getenv("DBNAME"),
			os.Getenv("DBUSER"),
			os.Getenv("DBPWD"),
		)
		if err != nil {
			panic(err)
		}
	}

	os.Exit(m.Run())
}

func testStorePG(t *testing.T) *StorePG {
	t.Helper()
	if db == nil {
		t.Skip("DBADDRESS is not set")
	}
	s := NewStorePG(db)
	// Схему создают оба процесса, повторный вызов должен быть безопасен.
	for i := 0; i < 2; i++ {
		if err := s.InitSchema(); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := db.Exec(`DELETE FROM orders`); err != nil {
		t.Fatal(err)
	}
	return s
}

func testOrder(orderID int64) *Order {
	d := OrderDraft{
		UserID:          100,
		TariffID:        1,
		TariffName:      "Smart",
		OperatorID:      1,
		OperatorName:    "MTS",
		ConnectionPrice: 1500,
		Mode:            NEW_MODE,
		FullName:        "Иванов Иван Иванович",
		RegionCity:      "Москва",
		PassportPhoto1:  "file-1",
		PassportPhoto2:  "file-2",
	}
	return d.Order(orderID)
}

func TestStorePG_CreateConflict(t *testing.T) {
	s := testStorePG(t)

	if err := s.Create(testOrder(1001)); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(testOrder(1001)); err != ErrOrderIDConflict {
		t.Errorf("Create() = %v, want ErrOrderIDConflict", err)
	}
}

func TestStorePG_GetNotFound(t *testing.T) {
	s := testStorePG(t)

	if _, err := s.Get(404404); err != ErrNotFound {
		t.Errorf("Get() = %v, want ErrNotFound", err)
	}
}

func TestStorePG_ManualFlow(t *testing.T) {
	s := testStorePG(t)

	if err := s.Create(testOrder(1002)); err != nil {
		t.Fatal(err)
	}

	ok, err := s.AttachReceipt(1002, "receipt-1", "Sberbank")
	if err != nil || !ok {
		t.Fatalf("AttachReceipt() = %v, %v", ok, err)
	}
	o, err := s.Get(1002)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != AWAITING_CONFIRMATION_ORDER {
		t.Errorf("status = %v, want awaiting_confirmation", o.Status)
	}

	ok, err = s.Reject(1002)
	if err != nil || !ok {
		t.Fatalf("Reject() = %v, %v", ok, err)
	}
	o, _ = s.Get(1002)
	if o.Status != PAYMENT_REJECTED_ORDER {
		t.Errorf("status = %v, want payment_rejected", o.Status)
	}
	if o.PaymentReceipt != nil {
		t.Errorf("payment_receipt = %v, want cleared", *o.PaymentReceipt)
	}

	// Повторная отправка чека после отклонения.
	ok, err = s.AttachReceipt(1002, "receipt-2", "Sberbank")
	if err != nil || !ok {
		t.Fatalf("AttachReceipt() = %v, %v", ok, err)
	}
	o, _ = s.Get(1002)
	if o.Status != AWAITING_CONFIRMATION_ORDER {
		t.Errorf("status = %v, want awaiting_confirmation", o.Status)
	}

	ok, err = s.Confirm(1002)
	if err != nil || !ok {
		t.Fatalf("Confirm() = %v, %v", ok, err)
	}
	o, _ = s.Get(1002)
	if o.Status != PAID_ORDER {
		t.Errorf("status = %v, want paid", o.Status)
	}
	if o.PaymentConfirmedAt == nil {
		t.Fatal("payment_confirmed_at is not set")
	}

	// Повторное подтверждение - успех без изменения отметки времени.
	confirmedAt := *o.PaymentConfirmedAt
	ok, err = s.Confirm(1002)
	if err != nil || !ok {
		t.Fatalf("Confirm() repeat = %v, %v", ok, err)
	}
	o, _ = s.Get(1002)
	if !o.PaymentConfirmedAt.Equal(confirmedAt) {
		t.Errorf("payment_confirmed_at changed: %v -> %v", confirmedAt, o.PaymentConfirmedAt)
	}
}

func TestStorePG_MarkPaidIdempotent(t *testing.T) {
	s := testStorePG(t)

	if err := s.Create(testOrder(1003)); err != nil {
		t.Fatal(err)
	}

	first, err := s.MarkPaid(1003)
	if err != nil {
		t.Fatal(err)
	}
	if !first {
		t.Error("MarkPaid() first delivery: first = false, want true")
	}

	first, err = s.MarkPaid(1003)
	if err != nil {
		t.Fatal(err)
	}
	if first {
		t.Error("MarkPaid() repeat delivery: first = true, want false")
	}

	if _, err := s.MarkPaid(404404); err != ErrNotFound {
		t.Errorf("MarkPaid() unknown order = %v, want ErrNotFound", err)
	}
}

func newConn(
	address,
	dbname,
	dbuser,
	dbpwd string,
) (db *reform.DB, err error) {
	props := url.Values{}
	props.Add("user", dbuser)
	props.Add("password", dbpwd)
	props.Add("sslmode", "disable")
	connURL := fmt.Sprintf(
		"postgres://%s/%s?%s",
		address,
		dbname,
		props.Encode(),
	)

	sqlDB, err := sql.Open("postgres", connURL)
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	return reform.NewDB(sqlDB, postgresql.Dialect, nil), nil
}
