package group

import (
	"context"

	"github.com/gearstack/asset-service/internal/group/dto"
	"github.com/gearstack/asset-service/internal/model"
)

type UseCase interface {
	CreateGroup(ctx context.Context, input *dto.CreateGroupInput) (*model.AssetGroup, error)
	GetGroup(ctx context.Context, id string) (*model.AssetGroup, error)
	ListGroups(ctx context.Context, filters *dto.GroupFilters) ([]model.AssetGroup, int, error)
	UpdateGroup(ctx context.Context, input *dto.UpdateGroupInput) (*model.AssetGroup, error)

	// Membership workflows.
	ConvertAssetToGroup(ctx context.Context, assetID string, input *dto.ConvertAssetInput) (*dto.ConversionResult, error)
	CreateGroupMembers(ctx context.Context, groupID string, count int, input *dto.CreateMembersInput) ([]model.Asset, error)
	AddAssetToGroup(ctx context.Context, assetID, groupID string) (*model.Asset, error)
	ReassignAsset(ctx context.Context, assetID, toGroupID string) (*model.Asset, error)

	NextGroupBarcode(ctx context.Context) (string, error)
}
