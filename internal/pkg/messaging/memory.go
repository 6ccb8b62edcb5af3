package messaging

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const memoryBuffer = 64

// Memory is an in-process Messaging. Each consumer group receives every
// message published after it subscribed; members of a group share them.
// Messages published to a topic without subscribers are discarded and Nack
// does not redeliver.
type Memory struct {
	mu     sync.RWMutex
	groups map[string]map[string]*memoryGroup

	closed    atomic.Bool
	done      chan struct{}
	published atomic.Int64
	dropped   atomic.Int64
	private   atomic.Int64
}

type memoryGroup struct {
	ch      chan *memoryMessage
	members int
}

// NewMemory returns an empty in-process bus.
func NewMemory() *Memory {
	return &Memory{
		groups: map[string]map[string]*memoryGroup{},
		done:   make(chan struct{}),
	}
}

// Close stops every consumer.
func (m *Memory) Close() error {
	if m.closed.CompareAndSwap(false, true) {
		close(m.done)
	}
	return nil
}

// Stats returns how many messages were published and how many found no
// subscriber.
func (m *Memory) Stats() (published, dropped int64) {
	return m.published.Load(), m.dropped.Load()
}

// Groups returns how many consumer groups are subscribed to topic.
func (m *Memory) Groups(topic string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.groups[topic])
}

// Publish hands msg to every group subscribed to topic. It blocks while a
// group's buffer is full.
func (m *Memory) Publish(ctx context.Context, topic string, msg OutgoingMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if m.closed.Load() {
		return ErrClosed
	}

	m.mu.RLock()
	targets := make([]*memoryGroup, 0, len(m.groups[topic]))
	for _, g := range m.groups[topic] {
		targets = append(targets, g)
	}
	m.mu.RUnlock()

	m.published.Inc()
	if len(targets) == 0 {
		m.dropped.Inc()
		return nil
	}

	now := time.Now()
	for _, g := range targets {
		mm := &memoryMessage{topic: topic, body: msg.Body, key: msg.Key, headers: msg.Headers, at: now}
		select {
		case g.ch <- mm:
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return ErrClosed
		}
	}
	return nil
}

// Consume subscribes handler to topic until ctx is done or m is closed.
// An empty group gets a private group of its own.
func (m *Memory) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	if m.closed.Load() {
		return ErrClosed
	}

	co := newConsumeOptions(opts...)
	group := co.group
	if group == "" {
		group = "_private." + strconv.FormatInt(m.private.Inc(), 10)
	}

	g := m.join(topic, group, co.maxInFlight)
	defer m.leave(topic, group)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-m.done:
					return
				case msg := <-g.ch:
					_ = dispatch(ctx, "memory", handler, msg, co.autoAck)
				}
			}
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrClosed
}

func (m *Memory) join(topic, group string, buffer int) *memoryGroup {
	m.mu.Lock()
	defer m.mu.Unlock()

	byGroup, ok := m.groups[topic]
	if !ok {
		byGroup = map[string]*memoryGroup{}
		m.groups[topic] = byGroup
	}
	g, ok := byGroup[group]
	if !ok {
		g = &memoryGroup{ch: make(chan *memoryMessage, max(buffer, memoryBuffer))}
		byGroup[group] = g
	}
	g.members++
	return g
}

func (m *Memory) leave(topic, group string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[topic][group]
	if !ok {
		return
	}
	g.members--
	if g.members == 0 {
		delete(m.groups[topic], group)
	}
}

type memoryMessage struct {
	responder

	topic   string
	body    []byte
	key     []byte
	headers map[string]string
	at      time.Time
}

func (m *memoryMessage) Body() []byte             { return m.body }
func (m *memoryMessage) Key() []byte              { return m.key }
func (m *memoryMessage) Header(key string) string { return m.headers[key] }
func (m *memoryMessage) Topic() string            { return m.topic }
func (m *memoryMessage) Timestamp() time.Time     { return m.at }

func (m *memoryMessage) Ack(context.Context) error {
	m.respond()
	return nil
}

func (m *memoryMessage) Nack(context.Context) error {
	m.respond()
	return nil
}
