package bot

import (
	"sync"

	tariffbot "github.com/bobrihha/tg-sales-bot-tariff"
)

// sessionState шаг диалога с пользователем. Аналог FSM-состояний:
// форма заявки, ожидание чека и шаги админ-меню.
type sessionState int

const (
	stateIdle sessionState = iota

	// Форма заявки.
	stateWaitTransferPhone
	stateWaitFullName
	stateWaitRegionCity
	stateWaitPassportPhoto1
	stateWaitPassportPhoto2
	stateConfirmation
	stateWaitReceipt

	// Админ-меню.
	stateAdminWaitOperatorName
	stateAdminWaitTariffName
	stateAdminWaitTariffDescription
	stateAdminWaitTariffMonthlyFee
	stateAdminWaitTariffConnectionPrice
	stateAdminWaitMethodName
	stateAdminWaitMethodDetails
)

// session состояние диалога одного пользователя. Живет в памяти,
// как MemoryStorage у исходного бота.
type session struct {
	State sessionState

	// Черновик заявки, заполняется по шагам формы.
	Draft tariffbot.OrderDraft

	// Заказ, созданный на шаге оплаты.
	OrderID int64

	// Выбранный банк для ручной оплаты.
	PaymentMethodID   int64
	PaymentMethodName string

	// Черновик тарифа в админ-меню.
	AdminOperatorID       int64
	AdminTariffName       string
	AdminTariffDesc       string
	AdminTariffMonthlyFee *int64
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[int64]*session)}
}

func (s *sessionStore) get(userID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{}
		s.sessions[userID] = sess
	}
	return sess
}

func (s *sessionStore) clear(userID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &session{}
	s.sessions[userID] = sess
	return sess
}
