package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishReachesSubscribers(t *testing.T) {
	bus := NewBus()

	var got []string
	bus.Subscribe(TopicTradeExecuted, func(e Event) {
		got = append(got, e.LeagueID)
	})
	bus.Subscribe(TopicTradeExecuted, func(e Event) {
		got = append(got, e.LeagueID)
	})

	bus.Publish(Event{Topic: TopicTradeExecuted, LeagueID: "abc"})
	assert.Equal(t, []string{"abc", "abc"}, got)
}

func TestBus_TopicsAreIsolated(t *testing.T) {
	bus := NewBus()

	calls := 0
	bus.Subscribe(TopicDraftPick, func(Event) { calls++ })

	bus.Publish(Event{Topic: TopicTradeExecuted, LeagueID: "abc"})
	assert.Zero(t, calls)

	bus.Publish(Event{Topic: TopicDraftPick, LeagueID: "abc"})
	assert.Equal(t, 1, calls)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsubscribe := bus.Subscribe(TopicDraftPick, func(Event) { calls++ })

	bus.Publish(Event{Topic: TopicDraftPick})
	unsubscribe()
	bus.Publish(Event{Topic: TopicDraftPick})
	unsubscribe() // second call is a no-op

	assert.Equal(t, 1, calls)
}
