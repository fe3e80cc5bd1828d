package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gearstack/asset-service/internal/apperr"
	"github.com/gearstack/asset-service/internal/asset"
	"github.com/gearstack/asset-service/internal/events"
	"github.com/gearstack/asset-service/internal/model"
	"github.com/gearstack/asset-service/internal/workorder"
	"github.com/gearstack/asset-service/internal/workorder/dto"
	"github.com/gearstack/asset-service/pkg/cache"
	"github.com/gearstack/asset-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type workOrderUseCase struct {
	repo      workorder.Repository
	assetRepo asset.Repository
	cache     *cache.RedisClient
	publisher events.Publisher
	logger    logger.ZapLogger
}

func NewWorkOrderUseCase(repo workorder.Repository, assetRepo asset.Repository, cache *cache.RedisClient, publisher events.Publisher, log logger.ZapLogger) workorder.UseCase {
	return &workOrderUseCase{
		repo:      repo,
		assetRepo: assetRepo,
		cache:     cache,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *workOrderUseCase) CreateWorkOrder(ctx context.Context, input *dto.CreateWorkOrderInput) (*model.WorkOrder, error) {
	a, err := uc.assetRepo.FindByID(ctx, input.AssetID)
	if err != nil {
		return nil, apperr.Persistence(err, "load asset")
	}
	if a == nil {
		return nil, apperr.NotFound("asset %s not found", input.AssetID)
	}

	priority := input.Priority
	if priority == "" {
		priority = "normal"
	}
	openedBy := input.OpenedBy
	if openedBy == "" {
		openedBy = "system"
	}

	now := time.Now()
	wo := &model.WorkOrder{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		AssetID:    input.AssetID,
		Title:      input.Title,
		Status:     model.WorkOrderOpen,
		Priority:   priority,
		AssignedTo: input.AssignedTo,
		OpenedBy:   openedBy,
		DueAt:      input.DueAt,
	}
	if input.Description != "" {
		wo.Description = &input.Description
	}

	if err := uc.repo.Create(ctx, wo); err != nil {
		return nil, apperr.Persistence(err, "create work order")
	}

	return wo, nil
}

func (uc *workOrderUseCase) GetWorkOrder(ctx context.Context, id string) (*model.WorkOrder, error) {
	wo, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence(err, "load work order")
	}
	if wo == nil {
		return nil, apperr.NotFound("work order %s not found", id)
	}
	return wo, nil
}

func (uc *workOrderUseCase) ListWorkOrders(ctx context.Context, filters *dto.WorkOrderFilters) ([]model.WorkOrder, int, error) {
	orders, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperr.Persistence(err, "list work orders")
	}
	return orders, count, nil
}

// TransitionWorkOrder moves a work order along the status table. A short
// redis lock serializes concurrent transitions on the same order; without
// it two racing callers could both pass the table check.
func (uc *workOrderUseCase) TransitionWorkOrder(ctx context.Context, id string, next model.WorkOrderStatus, actor string) (*model.WorkOrder, error) {
	if uc.cache != nil {
		lockKey := fmt.Sprintf("lock:workorder:%s", id)
		lockValue := uuid.New().String()

		acquired := false
		for i := 0; i < 3; i++ {
			ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
			if err != nil {
				uc.logger.Error("failed to acquire work order lock", zap.Error(err))
			}
			if ok {
				acquired = true
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
		if !acquired {
			return nil, apperr.Invalid("work order %s is being updated, try again", id)
		}
		defer uc.cache.ReleaseLock(ctx, lockKey, lockValue)
	}

	wo, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence(err, "load work order")
	}
	if wo == nil {
		return nil, apperr.NotFound("work order %s not found", id)
	}

	if err := workorder.EnsureTransition(wo.Status, next); err != nil {
		return nil, err
	}

	previous := wo.Status
	now := time.Now()
	wo.Status = next
	wo.UpdatedAt = now
	if next == model.WorkOrderClosed || next == model.WorkOrderCanceled {
		wo.ClosedAt = &now
	} else {
		wo.ClosedAt = nil // Reopening clears the close stamp
	}

	if err := uc.repo.Update(ctx, wo); err != nil {
		return nil, apperr.Persistence(err, "update work order")
	}

	go events.Emit(context.Background(), uc.publisher, uc.logger, events.WorkOrderStatusChanged, wo.ID, map[string]interface{}{
		"work_order_id": wo.ID,
		"asset_id":      wo.AssetID,
		"from":          previous,
		"to":            next,
		"actor":         actor,
	})

	return wo, nil
}
