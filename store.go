package tariffbot

// OrderStore хранилище заказов. Единственная точка изменения статусов:
// каждая запись - один атомарный UPDATE по order_id, читать-изменить-записать
// недопустимо (callback и ручное подтверждение могут гоняться).
type OrderStore interface {
	// Create вставляет новый заказ. ErrOrderIDConflict если order_id занят.
	Create(o *Order) error

	// Get возвращает заказ по номеру. ErrNotFound если заказа нет.
	Get(orderID int64) (*Order, error)

	// SetStatus безусловно перезаписывает статус.
	// Используется только там, где переход уже разрешен человеком.
	SetStatus(orderID int64, status OrderStatus) (bool, error)

	// AttachReceipt сохраняет чек и переводит заказ в awaiting_confirmation.
	AttachReceipt(orderID int64, receiptFileID, methodName string) (bool, error)

	// Confirm переводит в paid и фиксирует payment_confirmed_at.
	// Для уже оплаченного заказа - no-op с успехом, отметка времени не меняется.
	Confirm(orderID int64) (bool, error)

	// Reject переводит в payment_rejected и очищает чек,
	// чтобы повторная отправка была однозначной.
	Reject(orderID int64) (bool, error)

	// MarkPaid идемпотентный переход в paid от платежного callback.
	// first=true только при первом переходе.
	MarkPaid(orderID int64) (first bool, err error)

	// ListByUser заказы клиента, новые первыми.
	ListByUser(userID int64) ([]Order, error)

	// ListRecent последние заказы, новые первыми.
	ListRecent(limit int) ([]Order, error)
}

// CreateOrder создает заказ из заполненной заявки с генерацией номера.
// Коллизия номера (время с точностью до миллисекунды, см. NewOrderID)
// не перезаписывает чужой заказ - уникальный индекс отдает конфликт,
// номер генерируется заново.
func CreateOrder(s OrderStore, d *OrderDraft) (*Order, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	const attempts = 3
	var err error
	for i := 0; i < attempts; i++ {
		o := d.Order(NewOrderID())
		err = s.Create(o)
		if err == ErrOrderIDConflict {
			continue
		}
		if err != nil {
			return nil, err
		}
		return o, nil
	}
	return nil, err
}
