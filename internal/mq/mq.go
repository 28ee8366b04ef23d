// Package mq publishes marketplace lifecycle events to a message
// broker. The apiserver only emits; downstream consumers (notification
// senders, search indexers) live in other processes.
package mq

import "context"

// Backend defines the broker-agnostic publish operations used by the
// app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// MQ wraps a backend with a stable API.
type MQ struct {
	backend Backend
}

// New constructs an MQ wrapper for the provided backend.
func New(backend Backend) *MQ {
	return &MQ{backend: backend}
}

// Publish sends a message to the named channel.
func (m *MQ) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return m.backend.Publish(ctx, channel, data, attrs)
}

// Close closes the underlying backend.
func (m *MQ) Close() error {
	return m.backend.Close()
}
