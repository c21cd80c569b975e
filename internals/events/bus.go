// Package events is a small in-process pub/sub bridge. League mutations
// (picks, trades) are published here and fanned out to subscribers such
// as the websocket hub and the leaderboard cache invalidator.
package events

import (
	"encoding/json"
	"sync"
)

const (
	TopicDraftPick     = "draft.pick"
	TopicDraftComplete = "draft.complete"
	TopicTradeExecuted = "trade.executed"
)

type Event struct {
	Topic    string          `json:"topic"`
	LeagueID string          `json:"league_id"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

type Handler func(Event)

type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]Handler
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]map[int]Handler),
	}
}

// Subscribe registers handler for a topic and returns a function that
// removes the subscription. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(topic string, handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.subs[topic][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

// Publish delivers the event to every subscriber of its topic, in the
// caller's goroutine. Handlers that need to block should hand off.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs[event.Topic]))
	for _, h := range b.subs[event.Topic] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}
