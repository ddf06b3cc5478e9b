package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event представляет собой любое событие в системе.
type Event interface {
	Name() string
}

// Listener - это обработчик (слушатель) событий.
type Listener func(ctx context.Context, event Event) error

// Bus - это наша шина событий. Вебхуки отвечают Grab сразу, а тяжёлую работу
// (запись заказа в БД) выполняют слушатели этой шины.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	logger    *zap.Logger

	// В синхронном режиме Publish ждёт завершения слушателей.
	// Нужен тестам: они должны детерминированно дождаться фоновой обработки.
	synchronous bool
	timeout     time.Duration
}

// New создает новую шину событий.
func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		logger:    logger,
		timeout:   1 * time.Minute,
	}
}

// NewSynchronous создает шину, в которой Publish выполняет слушателей в текущей горутине.
func NewSynchronous(logger *zap.Logger) *Bus {
	b := New(logger)
	b.synchronous = true
	return b
}

// Subscribe подписывает слушателя на определенное событие.
func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish публикует событие. Все подписчики будут вызваны.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	listeners := b.listeners[event.Name()]
	b.mu.RUnlock()

	for _, listener := range listeners {
		if b.synchronous {
			b.run(event, listener)
			continue
		}
		go b.run(event, listener)
	}
}

func (b *Bus) run(event Event, l Listener) {
	// Контекст с таймаутом, чтобы не копить "вечные" горутины.
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err := l(ctx, event); err != nil {
		b.logger.Error("Ошибка в обработчике события",
			zap.String("event", event.Name()),
			zap.Error(err),
		)
	}
}
