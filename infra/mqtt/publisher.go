package mqtt

import (
	"context"
	"fmt"
	"sync"

	coremqtt "github.com/kilianp07/regcast/core/mqtt"
)

// MockPublisher records published messages. It is used in tests.
type MockPublisher struct {
	Messages []coremqtt.ForecastMessage
	// FailCategories makes publishing fail for the listed categories.
	FailCategories map[string]bool
	mu             sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailCategories: make(map[string]bool)}
}

// PublishForecast records msg or returns an error if configured to fail.
func (m *MockPublisher) PublishForecast(_ context.Context, msg coremqtt.ForecastMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCategories[msg.Category] {
		return "", fmt.Errorf("publish failed")
	}
	if msg.MessageID == "" {
		msg.MessageID = fmt.Sprintf("msg-%d", len(m.Messages)+1)
	}
	m.Messages = append(m.Messages, msg)
	return msg.MessageID, nil
}

// Published returns a copy of the recorded messages.
func (m *MockPublisher) Published() []coremqtt.ForecastMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]coremqtt.ForecastMessage(nil), m.Messages...)
}
