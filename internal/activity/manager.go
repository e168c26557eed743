// Package activity pushes new citizen submissions to the MLA's open dashboards.
// Events are published to Redis so every API instance fans them out to the
// websocket clients it holds.
package activity

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mlaconnect/backend/internal/models"
)

// Subscriber opens the Redis subscription the hub listens on.
type Subscriber interface {
	SubscribeActivity(ctx context.Context) *redis.PubSub
}

type ManagerService struct {
	mu      sync.RWMutex
	clients map[string]map[Client]struct{}

	RegisterCh   chan Client
	UnregisterCh chan Client
	PubSubCh     chan models.ActivityEvent

	subscriber Subscriber
	log        *zap.Logger
	done       chan struct{}
}

func NewManagerService(s Subscriber, log *zap.Logger) *ManagerService {
	return &ManagerService{
		clients:      make(map[string]map[Client]struct{}),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		PubSubCh:     make(chan models.ActivityEvent, 64),
		subscriber:   s,
		log:          log,
		done:         make(chan struct{}),
	}
}

// ClientCount reports how many connections userID has open.
func (m *ManagerService) ClientCount(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID])
}

// Done is closed once Run has returned.
func (m *ManagerService) Done() <-chan struct{} {
	return m.done
}

// Run owns client registration and delivery until ctx is cancelled.
func (m *ManagerService) Run(ctx context.Context) {
	defer close(m.done)
	if m.subscriber != nil {
		m.StartPubSubListener(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return

		case c := <-m.RegisterCh:
			m.mu.Lock()
			set, ok := m.clients[c.GetUserID()]
			if !ok {
				set = make(map[Client]struct{})
				m.clients[c.GetUserID()] = set
			}
			set[c] = struct{}{}
			m.mu.Unlock()
			m.log.Debug("activity client registered", zap.String("user", c.GetUserID()))

		case c := <-m.UnregisterCh:
			m.remove(c)

		case ev := <-m.PubSubCh:
			m.deliver(ev)
		}
	}
}

func (m *ManagerService) deliver(ev models.ActivityEvent) {
	m.mu.RLock()
	targets := make([]Client, 0, len(m.clients[ev.MlaID]))
	for c := range m.clients[ev.MlaID] {
		targets = append(targets, c)
	}
	m.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.GetSendChannel() <- ev:
		default:
			// slow client
			m.log.Warn("dropping slow activity client", zap.String("user", c.GetUserID()))
			m.remove(c)
		}
	}
}

func (m *ManagerService) remove(c Client) {
	m.mu.Lock()
	set, ok := m.clients[c.GetUserID()]
	if ok {
		if _, ok = set[c]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(m.clients, c.GetUserID())
			}
		}
	}
	m.mu.Unlock()

	if ok {
		c.Close()
	}
}

func (m *ManagerService) closeAll() {
	m.mu.Lock()
	all := m.clients
	m.clients = make(map[string]map[Client]struct{})
	m.mu.Unlock()

	for _, set := range all {
		for c := range set {
			c.Close()
		}
	}
}
