// bus.go
package bus

import (
	"strings"
	"sync"
)

// -----------------------------------------------------------------------------
// Topics
// -----------------------------------------------------------------------------

// Topic is a path of string tokens, e.g. {"config", "animator"}.
type Topic []string

// T builds a Topic.
func T(tokens ...string) Topic { return Topic(tokens) }

func (t Topic) String() string { return strings.Join(t, "/") }

// -----------------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------------

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
}

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

// Subscription lives as long as the bus; the task set is fixed, so nothing
// ever unsubscribes.
type Subscription struct {
	topic Topic
	ch    chan *Message
}

// Poll returns the newest queued message without blocking, discarding older
// ones. Cooperative tasks call it at the top of a step instead of selecting.
func (s *Subscription) Poll() (*Message, bool) {
	var last *Message
	for {
		select {
		case m := <-s.ch:
			last = m
		default:
			return last, last != nil
		}
	}
}

// -----------------------------------------------------------------------------
// Trie node
// -----------------------------------------------------------------------------

type node struct {
	children map[string]*node
	subs     []*Subscription
	retained *Message
}

// -----------------------------------------------------------------------------
// Bus
// -----------------------------------------------------------------------------

type Bus struct {
	mu   sync.Mutex
	root *node
	qLen int
}

// NewBus creates a new bus with the given subscription queue length.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 4
	}
	return &Bus{root: &node{}, qLen: queueLen}
}

// walk returns the node for topic, creating it when create is set.
func (b *Bus) walk(topic Topic, create bool) *node {
	n := b.root
	for _, tok := range topic {
		child, ok := n.children[tok]
		if !ok {
			if !create {
				return nil
			}
			if n.children == nil {
				n.children = make(map[string]*node)
			}
			child = &node{}
			n.children[tok] = child
		}
		n = child
	}
	return n
}

func (b *Bus) addSubscription(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.walk(sub.topic, true)
	n.subs = append(n.subs, sub)

	// Deliver retained message if present.
	if n.retained != nil {
		deliver(sub, n.retained)
	}
}

// Publish delivers msg to all subscribers of its exact topic. A retained
// message replaces the stored one; a retained nil payload clears it.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.walk(msg.Topic, msg.Retained)
	if n == nil {
		return
	}
	for _, sub := range n.subs {
		deliver(sub, msg)
	}
	if msg.Retained {
		if msg.Payload == nil {
			n.retained = nil
		} else {
			n.retained = msg
		}
	}
}

// Retained returns the retained message on topic, if any.
func (b *Bus) Retained(topic Topic) (*Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.walk(topic, false)
	if n == nil || n.retained == nil {
		return nil, false
	}
	return n.retained, true
}

// deliver never blocks: when the queue is full the oldest message is dropped.
func deliver(sub *Subscription, msg *Message) {
	select {
	case sub.ch <- msg:
	default:
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- msg
	}
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

// Connection is one task's handle on the bus.
type Connection struct {
	bus *Bus
}

// NewConnection creates a new connection bound to this bus.
func (b *Bus) NewConnection() *Connection {
	return &Connection{bus: b}
}

// Publish sends a message via the bus.
func (c *Connection) Publish(msg *Message) { c.bus.Publish(msg) }

// PublishRetained is shorthand for a retained Publish.
func (c *Connection) PublishRetained(topic Topic, payload any) {
	c.bus.Publish(&Message{Topic: topic, Payload: payload, Retained: true})
}

// Retained reads the retained message on topic without subscribing.
func (c *Connection) Retained(topic Topic) (*Message, bool) { return c.bus.Retained(topic) }

// Subscribe registers a subscription for topic. A retained message, if any,
// is queued immediately.
func (c *Connection) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{
		topic: topic,
		ch:    make(chan *Message, c.bus.qLen),
	}
	c.bus.addSubscription(sub)
	return sub
}
