package event

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Subscriber receives workflow events after the owning transaction committed.
// Errors are logged and swallowed: a failing collaborator must never make a
// successful transition report failure.
type Subscriber interface {
	OnExpenseStatusChanged(ctx context.Context, ev ExpenseStatusChanged) error
}

type Bus struct {
	mu   sync.RWMutex
	subs []Subscriber
	log  *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{log: log}
}

func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
}

// Publish delivers ev to every subscriber in registration order.
func (b *Bus) Publish(ctx context.Context, ev ExpenseStatusChanged) {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.OnExpenseStatusChanged(ctx, ev); err != nil {
			b.log.Warn("event subscriber failed",
				zap.String("action", string(ev.Action)),
				zap.String("request_number", ev.RequestNumber),
				zap.Error(err))
		}
	}
}
