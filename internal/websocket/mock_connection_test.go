package websocket

import (
	"errors"
	"sync"
	"time"
)

// mockConnection is an in-memory Connection
type mockConnection struct {
	mu sync.Mutex

	written  [][]byte
	reads    [][]byte
	readIdx  int
	closed   bool
	limit    int64
	deadline time.Time
}

func newMockConnection(reads ...string) *mockConnection {
	m := &mockConnection{}
	for _, r := range reads {
		m.reads = append(m.reads, []byte(r))
	}
	return m
}

func (m *mockConnection) WriteMessage(_ int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("connection closed")
	}
	m.written = append(m.written, data)
	return nil
}

func (m *mockConnection) ReadMessage() (int, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.readIdx >= len(m.reads) {
		return 0, nil, errors.New("no more messages")
	}
	msg := m.reads[m.readIdx]
	m.readIdx++
	return 1, msg, nil
}

func (m *mockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConnection) SetReadDeadline(t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deadline = t
	return nil
}

func (m *mockConnection) SetWriteDeadline(time.Time) error { return nil }

func (m *mockConnection) SetReadLimit(limit int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limit = limit
}

func (m *mockConnection) SetPongHandler(func(string) error) {}

func (m *mockConnection) RemoteAddr() string { return "127.0.0.1:9000" }

func (m *mockConnection) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
