// bus/bus_test.go
package bus

import (
	"testing"
)

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection()

	sub := conn.Subscribe(T("config", "animator"))
	conn.Publish(&Message{Topic: T("config", "animator"), Payload: "hello"})

	got, ok := sub.Poll()
	if !ok {
		t.Fatal("no message")
	}
	if got.Payload.(string) != "hello" {
		t.Errorf("expected payload 'hello', got %v", got.Payload)
	}
	if _, ok := sub.Poll(); ok {
		t.Fatal("queue should be empty after Poll")
	}
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection()

	conn.PublishRetained(T("config", "heartbeat"), "persist")

	sub := conn.Subscribe(T("config", "heartbeat"))
	got, ok := sub.Poll()
	if !ok || got.Payload.(string) != "persist" {
		t.Fatalf("retained = %v, %v", got, ok)
	}

	m, ok := conn.Retained(T("config", "heartbeat"))
	if !ok || m.Payload.(string) != "persist" {
		t.Fatalf("Retained() = %v, %v", m, ok)
	}

	// nil payload clears.
	conn.PublishRetained(T("config", "heartbeat"), nil)
	if _, ok := conn.Retained(T("config", "heartbeat")); ok {
		t.Fatal("retained message not cleared")
	}
}

func TestExactMatchOnly(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection()
	parent := c.Subscribe(T("status"))
	child := c.Subscribe(T("status", "animator"))

	c.Publish(&Message{Topic: T("status", "animator"), Payload: 1})
	if _, ok := parent.Poll(); ok {
		t.Fatal("parent topic must not receive child messages")
	}
	if _, ok := child.Poll(); !ok {
		t.Fatal("child did not receive")
	}

	// Non-retained publish to an unknown topic is a no-op.
	c.Publish(&Message{Topic: T("nobody", "here"), Payload: 1})
	if _, ok := b.Retained(T("nobody", "here")); ok {
		t.Fatal("unexpected retained")
	}
}

func TestFullQueueDropsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection()
	sub := c.Subscribe(T("a"))

	for i := 1; i <= 5; i++ {
		c.Publish(&Message{Topic: T("a"), Payload: i})
	}
	m1 := <-sub.ch
	m2 := <-sub.ch
	if m1.Payload.(int) != 4 || m2.Payload.(int) != 5 {
		t.Fatalf("got %v,%v want 4,5", m1.Payload, m2.Payload)
	}
}

func TestPollReturnsNewest(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection()
	sub := c.Subscribe(T("a"))
	for i := 1; i <= 3; i++ {
		c.Publish(&Message{Topic: T("a"), Payload: i})
	}
	m, ok := sub.Poll()
	if !ok || m.Payload.(int) != 3 {
		t.Fatalf("Poll = %v, %v; want 3", m, ok)
	}
}

func TestTopicString(t *testing.T) {
	if got := T("config", "animator").String(); got != "config/animator" {
		t.Fatalf("String() = %q", got)
	}
}

func TestSubscribeAfterRetainedOnlyGetsLatest(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection()
	c.PublishRetained(T("status", "net"), "first")
	c.PublishRetained(T("status", "net"), "second")

	sub := c.Subscribe(T("status", "net"))
	m, ok := sub.Poll()
	if !ok || m.Payload.(string) != "second" {
		t.Fatalf("Poll = %v, %v; want second", m, ok)
	}
	if _, ok := sub.Poll(); ok {
		t.Fatal("retained message delivered twice")
	}
}
