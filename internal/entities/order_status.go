package entities

import "fmt"

// OrderStatus — статус заказа. Машина состояний односторонняя:
//
//	INCOMING -> PREPARING -> READY_FOR_PICKUP -> (DELIVERED | CANCELLED)
//	INCOMING -> REJECTED
//
// Ни один статус не посещается повторно.
type OrderStatus string

const (
	StatusIncoming       OrderStatus = "INCOMING"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
	StatusRejected       OrderStatus = "REJECTED"
)

// Operation — действие кассира над заказом.
type Operation string

const (
	OpAccept    Operation = "accept"
	OpReject    Operation = "reject"
	OpMarkReady Operation = "mark_ready"
	OpCancel    Operation = "cancel"
)

// transition описывает одну строку таблицы переходов.
type transition struct {
	From []OrderStatus
	To   OrderStatus
}

// Таблица легальных переходов. Проверяется централизованно в сервисе
// жизненного цикла вместо разбросанных сравнений строк по хендлерам.
var transitions = map[Operation]transition{
	OpAccept:    {From: []OrderStatus{StatusIncoming}, To: StatusPreparing},
	OpReject:    {From: []OrderStatus{StatusIncoming}, To: StatusRejected},
	OpMarkReady: {From: []OrderStatus{StatusPreparing}, To: StatusReadyForPickup},
	// Отмена легальна и сразу после принятия, и когда заказ уже собран:
	// компенсация склада должна работать в обоих случаях.
	OpCancel: {From: []OrderStatus{StatusPreparing, StatusReadyForPickup}, To: StatusCancelled},
}

// TransitionFor возвращает допустимые исходные статусы и целевой статус операции.
func TransitionFor(op Operation) ([]OrderStatus, OrderStatus, error) {
	t, ok := transitions[op]
	if !ok {
		return nil, "", fmt.Errorf("неизвестная операция над заказом: %s", op)
	}
	return t.From, t.To, nil
}

// ParseOrderStatus валидирует строку статуса (например, из вебхука order-status).
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusIncoming, StatusPreparing, StatusReadyForPickup, StatusDelivered, StatusCancelled, StatusRejected:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("неизвестный статус заказа: %q", s)
}

// IsTerminal — терминальные статусы не покидаются.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusRejected
}
