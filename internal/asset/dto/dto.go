package dto

type AssetFilters struct {
	AssetTypeID string `json:"asset_type_id"`
	GroupID     string `json:"group_id"`
	SearchQuery string `json:"search_query"`
	Ungrouped   bool   `json:"ungrouped"` // Only assets with no group
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}
