package dto

import "github.com/gearstack/asset-service/internal/model"

type GroupFilters struct {
	AssetTypeID string
	Search      string // Matches name or group number
	Page        int
	PageSize    int
}

// ConversionResult pairs the group created by a conversion with the updated
// first member.
type ConversionResult struct {
	Group *model.AssetGroup `json:"group"`
	Asset *model.Asset      `json:"asset"`
}
