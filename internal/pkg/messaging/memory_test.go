package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryDeliversToEachGroup(t *testing.T) {
	// Arrange
	bus := NewMemory()
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	got := map[string][]string{}
	var wg sync.WaitGroup
	wg.Add(2)

	for _, group := range []string{"email", "audit"} {
		go func() {
			_ = bus.Consume(ctx, "otp.issued", func(_ context.Context, msg Message) error {
				mu.Lock()
				got[group] = append(got[group], string(msg.Body())+"|"+msg.Header("cID"))
				mu.Unlock()
				wg.Done()
				return nil
			}, WithGroup(group), WithAutoAck(true))
		}()
	}
	waitSubscribed(t, bus, "otp.issued", 2)

	// Act
	err := bus.Publish(ctx, "otp.issued", OutgoingMessage{Body: []byte("hello"), Headers: map[string]string{"cID": "c-1"}})

	// Assert
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	waitTimeout(t, &wg)

	mu.Lock()
	defer mu.Unlock()
	for _, group := range []string{"email", "audit"} {
		if len(got[group]) != 1 || got[group][0] != "hello|c-1" {
			t.Fatalf("group %s got %v", group, got[group])
		}
	}
}

func TestMemoryDropsWithoutSubscribers(t *testing.T) {
	bus := NewMemory()

	if err := bus.Publish(context.Background(), "nobody", OutgoingMessage{Body: []byte("x")}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	published, dropped := bus.Stats()
	if published != 1 || dropped != 1 {
		t.Fatalf("published=%d dropped=%d", published, dropped)
	}
}

func TestMemoryRecoversHandlerPanic(t *testing.T) {
	bus := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{}, 2)
	go func() {
		_ = bus.Consume(ctx, "t", func(_ context.Context, msg Message) error {
			defer func() { done <- struct{}{} }()
			if string(msg.Body()) == "boom" {
				panic("boom")
			}
			return nil
		}, WithGroup("g"), WithAutoAck(true))
	}()
	waitSubscribed(t, bus, "t", 1)

	for _, body := range []string{"boom", "fine"} {
		if err := bus.Publish(ctx, "t", OutgoingMessage{Body: []byte(body)}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	for range 2 {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("consumer stopped after panic")
		}
	}
}

func TestMemoryConsumeReturnsOnClose(t *testing.T) {
	bus := NewMemory()
	errCh := make(chan error, 1)

	go func() {
		errCh <- bus.Consume(context.Background(), "t", func(context.Context, Message) error { return nil })
	}()
	waitSubscribed(t, bus, "t", 1)

	_ = bus.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("consume = %v, want ErrClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("consume did not return after close")
	}

	if err := bus.Publish(context.Background(), "t", OutgoingMessage{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("publish after close = %v", err)
	}
}

func TestMemoryValidation(t *testing.T) {
	bus := NewMemory()
	ctx := context.Background()

	if err := bus.Publish(ctx, "", OutgoingMessage{}); !errors.Is(err, ErrTopicRequired) {
		t.Fatalf("publish = %v", err)
	}
	if err := bus.Consume(ctx, "t", nil); !errors.Is(err, ErrHandlerRequired) {
		t.Fatalf("consume = %v", err)
	}
}

func TestNewFromDriver(t *testing.T) {
	m, err := NewFromDriver("", FactoryOptions{})
	if err != nil {
		t.Fatalf("default driver: %v", err)
	}
	if _, ok := m.(*Memory); !ok {
		t.Fatalf("default driver = %T, want *Memory", m)
	}

	if _, err := NewFromDriver("carrier-pigeon", FactoryOptions{}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("unknown driver = %v", err)
	}
	if _, err := NewFromDriver(DriverKafka, FactoryOptions{}); !errors.Is(err, ErrKafkaBrokersRequired) {
		t.Fatalf("kafka without brokers = %v", err)
	}
}

func waitSubscribed(t *testing.T, bus *Memory, topic string, groups int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if bus.Groups(topic) >= groups {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d groups on %s", groups, topic)
}

func waitTimeout(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for deliveries")
	}
}
