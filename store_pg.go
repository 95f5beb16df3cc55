package tariffbot

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	reform "gopkg.in/reform.v1"
)

var _ OrderStore = (*StorePG)(nil)

func NewStorePG(db *reform.DB) *StorePG {
	return &StorePG{
		db: db,
		l:  zap.L().Named("order_store"),
	}
}

type StorePG struct {
	db *reform.DB
	l  *zap.Logger
}

const ordersSchema = `CREATE TABLE IF NOT EXISTS orders (
	id BIGSERIAL PRIMARY KEY,
	order_id BIGINT NOT NULL UNIQUE,
	user_id BIGINT NOT NULL,
	username TEXT,
	tariff_id BIGINT NOT NULL,
	tariff_name TEXT NOT NULL,
	operator_id BIGINT NOT NULL,
	operator_name TEXT NOT NULL,
	monthly_fee BIGINT,
	connection_price BIGINT NOT NULL,
	mode TEXT NOT NULL,
	transfer_phone TEXT,
	full_name TEXT NOT NULL,
	region_city TEXT NOT NULL,
	passport_photo_1 TEXT NOT NULL,
	passport_photo_2 TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	payment_receipt TEXT,
	payment_method_name TEXT,
	payment_confirmed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// InitSchema создает таблицу заказов если ее еще нет.
func (s *StorePG) InitSchema() error {
	if _, err := s.db.Exec(ordersSchema); err != nil {
		return errors.Wrap(err, "Failed create orders table")
	}
	return nil
}

func (s *StorePG) Create(o *Order) error {
	err := s.db.Insert(o)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			s.l.Warn("Order ID collision", zap.Int64("order_id", o.OrderID))
			return ErrOrderIDConflict
		}
		return errors.Wrap(err, "Failed insert order")
	}
	return nil
}

func (s *StorePG) Get(orderID int64) (*Order, error) {
	var o Order
	err := s.db.SelectOneTo(&o, "WHERE order_id = $1", orderID)
	if err != nil {
		if err == reform.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "Failed select order")
	}
	return &o, nil
}

func (s *StorePG) SetStatus(orderID int64, status OrderStatus) (bool, error) {
	res, err := s.db.Exec(
		"UPDATE orders SET status = $1 WHERE order_id = $2",
		status, orderID,
	)
	if err != nil {
		return false, errors.Wrap(err, "Failed update order status")
	}
	return affected(res), nil
}

func (s *StorePG) AttachReceipt(orderID int64, receiptFileID, methodName string) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE orders
			SET payment_receipt = $1, payment_method_name = $2, status = $3
			WHERE order_id = $4`,
		receiptFileID, methodName, AWAITING_CONFIRMATION_ORDER, orderID,
	)
	if err != nil {
		return false, errors.Wrap(err, "Failed attach receipt")
	}
	return affected(res), nil
}

func (s *StorePG) Confirm(orderID int64) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE orders
			SET status = $1, payment_confirmed_at = now()
			WHERE order_id = $2 AND status <> $1`,
		PAID_ORDER, orderID,
	)
	if err != nil {
		return false, errors.Wrap(err, "Failed confirm order")
	}
	if affected(res) {
		return true, nil
	}

	// Ни одной строки: либо заказа нет, либо уже оплачен.
	// Повторное подтверждение оплаченного - успех без изменений.
	o, err := s.Get(orderID)
	if err != nil {
		return false, err
	}
	return o.Status == PAID_ORDER, nil
}

func (s *StorePG) Reject(orderID int64) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE orders
			SET status = $1, payment_receipt = NULL
			WHERE order_id = $2 AND status <> $3`,
		PAYMENT_REJECTED_ORDER, orderID, PAID_ORDER,
	)
	if err != nil {
		return false, errors.Wrap(err, "Failed reject order")
	}
	return affected(res), nil
}

func (s *StorePG) MarkPaid(orderID int64) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE orders
			SET status = $1, payment_confirmed_at = now()
			WHERE order_id = $2 AND status <> $1`,
		PAID_ORDER, orderID,
	)
	if err != nil {
		return false, errors.Wrap(err, "Failed mark order paid")
	}
	if affected(res) {
		return true, nil
	}
	if _, err := s.Get(orderID); err != nil {
		return false, err
	}
	return false, nil
}

func (s *StorePG) ListByUser(userID int64) ([]Order, error) {
	rows, err := s.db.SelectAllFrom(OrderTable, "WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, errors.Wrap(err, "Failed list orders by user")
	}
	return collectOrders(rows), nil
}

func (s *StorePG) ListRecent(limit int) ([]Order, error) {
	rows, err := s.db.SelectAllFrom(OrderTable, "ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, errors.Wrap(err, "Failed list recent orders")
	}
	return collectOrders(rows), nil
}

func collectOrders(rows []reform.Struct) []Order {
	list := make([]Order, 0, len(rows))
	for _, row := range rows {
		list = append(list, *row.(*Order))
	}
	return list
}

func affected(res sql.Result) bool {
	n, err := res.RowsAffected()
	if err != nil {
		return false
	}
	return n > 0
}
