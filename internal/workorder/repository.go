package workorder

import (
	"context"

	"github.com/gearstack/asset-service/internal/model"
	"github.com/gearstack/asset-service/internal/workorder/dto"
)

type Repository interface {
	Create(ctx context.Context, wo *model.WorkOrder) error
	FindByID(ctx context.Context, id string) (*model.WorkOrder, error)
	FindAll(ctx context.Context, filters *dto.WorkOrderFilters) ([]model.WorkOrder, int, error)
	Update(ctx context.Context, wo *model.WorkOrder) error
}
