package group

import (
	"github.com/gearstack/asset-service/internal/apperr"
	"github.com/gearstack/asset-service/internal/model"
)

// EnsureAssetCanJoinGroup checks join eligibility. targetGroupID is the
// group being joined; membership in that same group is allowed so re-adds
// stay idempotent. Empty targetGroupID means a brand-new group.
func EnsureAssetCanJoinGroup(a *model.Asset, targetGroupID string) error {
	if a.IsKitParent {
		return apperr.Invalid("asset %s is a kit parent and cannot join a group", a.ID)
	}
	if a.Grouped() && *a.GroupID != targetGroupID {
		return apperr.Invalid("asset %s already belongs to group %s", a.ID, *a.GroupID)
	}
	return nil
}

// EnsureAssetMatchesGroupType rejects a join when the asset's type differs
// from the group's; all members of a group share its asset type.
func EnsureAssetMatchesGroupType(a *model.Asset, g *model.AssetGroup) error {
	if a.AssetTypeID != g.AssetTypeID {
		return apperr.Invalid("asset type %s does not match group asset type %s", a.AssetTypeID, g.AssetTypeID)
	}
	return nil
}

func EnsurePositiveMemberCount(count int) error {
	if count <= 0 {
		return apperr.Invalid("member count must be a positive integer, got %d", count)
	}
	return nil
}
