package tariffbot

// Notifier доставка уведомлений людям. Best-effort: одна попытка,
// ошибка логируется и не влияет ни на HTTP ответ, ни на статус заказа.
type Notifier interface {
	// NotifyBuyer отправляет сообщение клиенту.
	NotifyBuyer(userID int64, text string) error

	// NotifyOperators отправляет сообщение всем администраторам,
	// опционально с вложениями (file_id фотографий).
	NotifyOperators(text string, photos ...string) error
}
