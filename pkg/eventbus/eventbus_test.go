package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type testEvent struct{ name string }

func (e testEvent) Name() string { return e.name }

func TestBus_SynchronousPublish(t *testing.T) {
	bus := NewSynchronous(zap.NewNop())

	var calls []string
	bus.Subscribe("order.created", func(ctx context.Context, event Event) error {
		calls = append(calls, event.Name())
		return nil
	})
	bus.Subscribe("order.created", func(ctx context.Context, event Event) error {
		calls = append(calls, event.Name()+"-second")
		return nil
	})

	bus.Publish(context.Background(), testEvent{name: "order.created"})

	// В синхронном режиме слушатели отработали до возврата Publish.
	assert.Equal(t, []string{"order.created", "order.created-second"}, calls)
}

func TestBus_ListenerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewSynchronous(zap.NewNop())

	var secondCalled bool
	bus.Subscribe("evt", func(ctx context.Context, event Event) error {
		return errors.New("первый слушатель упал")
	})
	bus.Subscribe("evt", func(ctx context.Context, event Event) error {
		secondCalled = true
		return nil
	})

	bus.Publish(context.Background(), testEvent{name: "evt"})
	assert.True(t, secondCalled)
}

func TestBus_AsyncPublishEventuallyRuns(t *testing.T) {
	bus := New(zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe("evt", func(ctx context.Context, event Event) error {
		wg.Done()
		return nil
	})

	bus.Publish(context.Background(), testEvent{name: "evt"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("асинхронный слушатель не был вызван")
	}
}

func TestBus_NoListeners(t *testing.T) {
	bus := NewSynchronous(zap.NewNop())
	// Публикация без подписчиков не должна паниковать.
	bus.Publish(context.Background(), testEvent{name: "nobody.cares"})
}
