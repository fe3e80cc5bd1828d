package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gearstack/asset-service/internal/workorder"
	"github.com/gearstack/asset-service/internal/workorder/dto"
	"github.com/gearstack/asset-service/pkg/broker"
	"github.com/gearstack/asset-service/pkg/logger"
	"go.uber.org/zap"
)

// MaintenanceListener consumes maintenance scheduler events and opens work
// orders for them.
type MaintenanceListener struct {
	consumer *broker.KafkaConsumer
	uc       workorder.UseCase
	logger   logger.ZapLogger
}

func NewMaintenanceListener(consumer *broker.KafkaConsumer, uc workorder.UseCase, logger logger.ZapLogger) *MaintenanceListener {
	return &MaintenanceListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *MaintenanceListener) Start(ctx context.Context) {
	l.logger.Info("Starting Maintenance Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Maintenance Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type MaintenanceDueEvent struct {
	EventID   string             `json:"event_id"`
	EventType string             `json:"event_type"`
	Payload   MaintenancePayload `json:"payload"`
	Timestamp time.Time          `json:"timestamp"`
}

type MaintenancePayload struct {
	AssetID     string     `json:"asset_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueAt       *time.Time `json:"due_at"`
}

func (l *MaintenanceListener) processMessage(ctx context.Context, value []byte) {
	var event MaintenanceDueEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "MaintenanceDue" {
		return
	}

	l.logger.Info("Processing MaintenanceDue event", zap.String("asset_id", event.Payload.AssetID))

	input := &dto.CreateWorkOrderInput{
		AssetID:     event.Payload.AssetID,
		Title:       event.Payload.Title,
		Description: event.Payload.Description,
		Priority:    event.Payload.Priority,
		DueAt:       event.Payload.DueAt,
		OpenedBy:    "maintenance-scheduler",
	}
	if input.Title == "" {
		input.Title = "Scheduled maintenance"
	}

	if _, err := l.uc.CreateWorkOrder(ctx, input); err != nil {
		l.logger.Error("Failed to create work order from event",
			zap.String("asset_id", event.Payload.AssetID),
			zap.Error(err),
		)
	}
}
