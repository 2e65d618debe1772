package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/DrZedd42/fiat-gateway/pkg/logger"
	"github.com/DrZedd42/fiat-gateway/pkg/redis"
)

// Channel is the Redis pub/sub channel integrators subscribe to. Events
// are the gateway's asynchronous acknowledgment surface: oracle request
// envelopes, assigned ids and lifecycle transitions all go out here.
const Channel = "gateway.events"

// Event types
const (
	TypeMethodAdded     = "method.added"
	TypeMakerRegistered = "maker.registered"
	TypeOrderCreated    = "order.created"
	TypeOrderCancelled  = "order.cancelled"
	TypeOrderSettled    = "order.settled"
	TypeOracleRequest   = "oracle.request"
	TypeOracleFulfilled = "oracle.fulfilled"
)

// Envelope wraps every published event
type Envelope struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Publisher emits gateway events to external observers
type Publisher interface {
	Publish(ctx context.Context, eventType string, data interface{})
}

// RedisPublisher publishes events on a Redis channel
type RedisPublisher struct{}

// NewRedisPublisher creates a publisher over the shared Redis client
func NewRedisPublisher() *RedisPublisher {
	return &RedisPublisher{}
}

// Publish marshals and emits one event. Publishing is best-effort:
// a broker outage must not fail the state transition that triggered it.
func (p *RedisPublisher) Publish(ctx context.Context, eventType string, data interface{}) {
	payload, err := json.Marshal(Envelope{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		logger.Error(ctx, "failed to marshal event", zap.String("type", eventType), zap.Error(err))
		return
	}

	if err := redis.Publish(ctx, Channel, payload); err != nil {
		logger.Error(ctx, "failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}
