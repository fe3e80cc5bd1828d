// Package events defines the outbound event envelope and the publisher
// surface the usecases emit through. Publication is best-effort; failures
// are logged, never propagated into the workflow that triggered them.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gearstack/asset-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	GroupCreated           = "asset_group.created"
	GroupMemberAdded       = "asset_group.member_added"
	GroupMembersBulkAdded  = "asset_group.members_bulk_added"
	WorkOrderStatusChanged = "work_order.status_changed"
)

type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

type Envelope struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Emit marshals and publishes an envelope. A nil publisher is a no-op so
// the service can run without a broker in local setups.
func Emit(ctx context.Context, pub Publisher, log logger.ZapLogger, eventType, key string, payload interface{}) {
	if pub == nil {
		return
	}
	env := Envelope{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
	data, err := json.Marshal(env)
	if err != nil {
		log.Error("failed to marshal event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	if err := pub.Publish(ctx, []byte(key), data); err != nil {
		log.Error("failed to publish event", zap.String("event_type", eventType), zap.Error(err))
	}
}
