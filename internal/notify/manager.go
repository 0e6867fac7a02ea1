package notify

import (
	"context"
	"log"
	"sync"

	"rentdesk/internal/common"
)

// Manager fans dispatched events out to subscribed observers through a
// buffered channel and a fixed worker pool. NotifyAsync never blocks a
// request: when the buffer is full the event is dropped and logged.
type Manager struct {
	observers map[string]common.Observer
	events    chan common.Event
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	wg        sync.WaitGroup
}

func NewManager(workers, bufferSize int) *Manager {
	if workers < 1 {
		workers = 1
	}
	if bufferSize < 1 {
		bufferSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		observers: make(map[string]common.Observer),
		events:    make(chan common.Event, bufferSize),
		ctx:       ctx,
		cancel:    cancel,
	}
	for i := 0; i < workers; i++ {
		m.wg.Add(1)
		go m.processEvents()
	}
	return m
}

func (m *Manager) Subscribe(observer common.Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers[observer.Name()] = observer
	log.Printf("observer %s subscribed", observer.Name())
}

func (m *Manager) Unsubscribe(observer common.Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.observers, observer.Name())
	log.Printf("observer %s unsubscribed", observer.Name())
}

func (m *Manager) Notify(event common.Event) {
	m.mu.RLock()
	observers := make([]common.Observer, 0, len(m.observers))
	for _, obs := range m.observers {
		observers = append(observers, obs)
	}
	m.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(event); err != nil {
			log.Printf("observer %s failed on %s: %v", observer.Name(), event.Type, err)
		}
	}
}

func (m *Manager) NotifyAsync(event common.Event) {
	select {
	case m.events <- event:
	case <-m.ctx.Done():
	default:
		log.Printf("event channel full, dropping %s event", event.Type)
	}
}

func (m *Manager) processEvents() {
	defer m.wg.Done()
	for {
		select {
		case event := <-m.events:
			m.Notify(event)
		case <-m.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers. Events still sitting in the buffer are
// discarded.
func (m *Manager) Shutdown() {
	m.cancel()
	m.wg.Wait()
	log.Println("notification manager stopped")
}
