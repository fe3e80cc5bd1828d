package group

import (
	"context"

	"github.com/gearstack/asset-service/internal/group/dto"
	"github.com/gearstack/asset-service/internal/model"
)

// Repository is the persistence collaborator for groups. Updates are
// last-write-wins; there is no version column.
type Repository interface {
	Create(ctx context.Context, group *model.AssetGroup) error
	FindByID(ctx context.Context, id string) (*model.AssetGroup, error)
	FindAll(ctx context.Context, filters *dto.GroupFilters) ([]model.AssetGroup, int, error)
	Update(ctx context.Context, group *model.AssetGroup) error

	// BulkCreateForGroup creates count assets from the base template and
	// appends them to the group's member list in one transaction. Atomicity
	// of the batch is this layer's property, not the caller's.
	BulkCreateForGroup(ctx context.Context, groupID string, count int, base *model.Asset) ([]model.Asset, error)

	// ReassignToGroup moves an asset between groups as a single
	// persistence-level operation, keeping both member counts consistent.
	ReassignToGroup(ctx context.Context, assetID, fromGroupID, toGroupID string) error
}
