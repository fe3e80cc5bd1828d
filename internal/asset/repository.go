package asset

import (
	"context"

	"github.com/gearstack/asset-service/internal/asset/dto"
	"github.com/gearstack/asset-service/internal/model"
)

// Repository is the persistence collaborator for assets. FindByID returns
// nil without error when the id does not resolve.
type Repository interface {
	Create(ctx context.Context, asset *model.Asset) error
	FindByID(ctx context.Context, id string) (*model.Asset, error)
	FindAll(ctx context.Context, filters *dto.AssetFilters) ([]model.Asset, int, error)
	Update(ctx context.Context, asset *model.Asset) error
	Delete(ctx context.Context, id string) error
	IsAssetNumberUnique(ctx context.Context, assetNumber, excludeID string) (bool, error)
	IsBarcodeUnique(ctx context.Context, barcode, excludeID string) (bool, error)
}
