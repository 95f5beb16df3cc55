package tariffbot

import (
	"time"
)

//go:generate reform

// OrderStatus статус заказа.
type OrderStatus string

func (s OrderStatus) Match(in OrderStatus) bool {
	return s == in
}

const (
	// PENDING_ORDER заказ создан, ожидается оплата.
	PENDING_ORDER OrderStatus = "pending"

	// AWAITING_CONFIRMATION_ORDER клиент загрузил чек, ожидается проверка администратором.
	AWAITING_CONFIRMATION_ORDER OrderStatus = "awaiting_confirmation"

	// PAID_ORDER оплата получена (терминальный статус).
	PAID_ORDER OrderStatus = "paid"

	// PAYMENT_REJECTED_ORDER оплата не подтверждена, клиент может отправить чек повторно.
	PAYMENT_REJECTED_ORDER OrderStatus = "payment_rejected"
)

var orderStatusTransitionChart = OrderStatusTransitionChart{
	PENDING_ORDER:               {AWAITING_CONFIRMATION_ORDER, PAID_ORDER},
	AWAITING_CONFIRMATION_ORDER: {PAID_ORDER, PAYMENT_REJECTED_ORDER},
	PAYMENT_REJECTED_ORDER:      {AWAITING_CONFIRMATION_ORDER},
}

type OrderStatusTransitionChart map[OrderStatus][]OrderStatus

func (s OrderStatusTransitionChart) Allowed(from, to OrderStatus) bool {
	list, exists := s[from]
	if !exists {
		return false
	}
	for _, status := range list {
		if status.Match(to) {
			return true
		}
	}
	return false
}

// AllowedTransition проверяет допустимость перехода статуса заказа.
func AllowedTransition(from, to OrderStatus) bool {
	return orderStatusTransitionChart.Allowed(from, to)
}

// OrderMode тип заявки.
type OrderMode string

const (
	// TRANSFER_MODE перенос существующего номера.
	TRANSFER_MODE OrderMode = "transfer"

	// NEW_MODE подключение нового номера.
	NEW_MODE OrderMode = "new"
)

//reform:orders
type Order struct {
	// ID внутренний идентификатор строки.
	ID int64 `reform:"id,pk" json:"id"`

	// OrderID номер заказа, передается в платежную систему (InvId).
	OrderID int64 `reform:"order_id" json:"order_id"`

	UserID   int64   `reform:"user_id" json:"user_id"`
	Username *string `reform:"username" json:"username"`

	// Снапшот тарифа на момент оформления.
	TariffID     int64  `reform:"tariff_id" json:"tariff_id"`
	TariffName   string `reform:"tariff_name" json:"tariff_name"`
	OperatorID   int64  `reform:"operator_id" json:"operator_id"`
	OperatorName string `reform:"operator_name" json:"operator_name"`
	MonthlyFee   *int64 `reform:"monthly_fee" json:"monthly_fee"`

	// ConnectionPrice сумма к оплате. Фиксируется при создании,
	// callback сверяется именно с этим значением.
	ConnectionPrice int64 `reform:"connection_price" json:"connection_price"`

	Mode          OrderMode `reform:"mode" json:"mode"`
	TransferPhone *string   `reform:"transfer_phone" json:"transfer_phone"`

	FullName       string `reform:"full_name" json:"full_name"`
	RegionCity     string `reform:"region_city" json:"region_city"`
	PassportPhoto1 string `reform:"passport_photo_1" json:"passport_photo_1"`
	PassportPhoto2 string `reform:"passport_photo_2" json:"passport_photo_2"`

	Status OrderStatus `reform:"status" json:"status"`

	// Реквизиты ручной оплаты.
	PaymentReceipt     *string    `reform:"payment_receipt" json:"payment_receipt"`
	PaymentMethodName  *string    `reform:"payment_method_name" json:"payment_method_name"`
	PaymentConfirmedAt *time.Time `reform:"payment_confirmed_at" json:"payment_confirmed_at"`

	CreatedAt time.Time `reform:"created_at" json:"created_at"`
}

// NewOrderID генерирует номер заказа от миллисекундного времени.
// Уникальность не гарантирована, настоящая защита - уникальный
// индекс в БД (см. ErrOrderIDConflict).
func NewOrderID() int64 {
	return time.Now().UnixMilli() % 1_000_000_000
}
