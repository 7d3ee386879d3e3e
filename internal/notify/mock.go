package notify

import (
	"context"
	"sync"
)

// MockNotifier records sends for testing.
type MockNotifier struct {
	SendFunc func(ctx context.Context, topic, text string) error
	Sent     []SentMessage
	mu       sync.Mutex
}

// SentMessage records one Send invocation.
type SentMessage struct {
	Topic string
	Text  string
}

// NewMockNotifier creates a mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Send implements service.Notifier.
func (m *MockNotifier) Send(ctx context.Context, topic, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, topic, text); err != nil {
			return err
		}
	}
	m.Sent = append(m.Sent, SentMessage{Topic: topic, Text: text})
	return nil
}

// SentTo returns the messages delivered to one topic.
func (m *MockNotifier) SentTo(topic string) []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []SentMessage
	for _, msg := range m.Sent {
		if msg.Topic == topic {
			out = append(out, msg)
		}
	}
	return out
}
