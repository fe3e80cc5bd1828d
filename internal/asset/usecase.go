package asset

import (
	"context"

	"github.com/gearstack/asset-service/internal/asset/dto"
	"github.com/gearstack/asset-service/internal/model"
)

type UseCase interface {
	CreateAsset(ctx context.Context, input *dto.CreateAssetInput) (*model.Asset, error)
	GetAsset(ctx context.Context, id string) (*model.Asset, error)
	ListAssets(ctx context.Context, filters *dto.AssetFilters) ([]model.Asset, int, error)
	UpdateAsset(ctx context.Context, input *dto.UpdateAssetInput) (*model.Asset, error)
	DeleteAsset(ctx context.Context, id string) error
}
