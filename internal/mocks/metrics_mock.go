package mocks

import (
	"sync"
	"time"
)

// MockMetrics is a mock implementation of the operation and statement recorders for testing
type MockMetrics struct {
	mu         sync.Mutex
	Operations []string // "entity/op/outcome"
	Statements []string
	Errors     int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{}
}

func (m *MockMetrics) RecordOperation(entity, op, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Operations = append(m.Operations, entity+"/"+op+"/"+outcome)
}

func (m *MockMetrics) ObserveStatement(op string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Statements = append(m.Statements, op)
	if err != nil {
		m.Errors++
	}
}
