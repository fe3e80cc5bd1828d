package workorder

import (
	"context"

	"github.com/gearstack/asset-service/internal/model"
	"github.com/gearstack/asset-service/internal/workorder/dto"
)

type UseCase interface {
	CreateWorkOrder(ctx context.Context, input *dto.CreateWorkOrderInput) (*model.WorkOrder, error)
	GetWorkOrder(ctx context.Context, id string) (*model.WorkOrder, error)
	ListWorkOrders(ctx context.Context, filters *dto.WorkOrderFilters) ([]model.WorkOrder, int, error)
	TransitionWorkOrder(ctx context.Context, id string, next model.WorkOrderStatus, actor string) (*model.WorkOrder, error)
}
