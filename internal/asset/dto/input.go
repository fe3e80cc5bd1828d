package dto

import "github.com/gearstack/asset-service/internal/model"

type CreateAssetInput struct {
	AssetNumber       string                  `json:"asset_number" binding:"required"`
	Name              string                  `json:"name" binding:"required"`
	AssetTypeID       string                  `json:"asset_type_id" binding:"required"`
	AssetTypeName     string                  `json:"asset_type_name"`
	Manufacturer      string                  `json:"manufacturer"`
	Model             string                  `json:"model"`
	Description       string                  `json:"description"`
	Barcode           string                  `json:"barcode"`
	QRCode            string                  `json:"qr_code"`
	CustomFieldValues model.CustomFieldValues `json:"custom_field_values"`
	IsKitParent       bool                    `json:"is_kit_parent"`
	Bookable          bool                    `json:"bookable"`
	WarrantyMonths    *int                    `json:"warranty_months"`
}

// UpdateAssetInput is a partial update; nil pointers mean the field was
// omitted and keeps its stored value. An explicit empty string clears it.
type UpdateAssetInput struct {
	ID                string
	Name              string                  `json:"name"`
	Manufacturer      *string                 `json:"manufacturer"`
	Model             *string                 `json:"model"`
	Description       *string                 `json:"description"`
	Barcode           *string                 `json:"barcode"`
	CustomFieldValues model.CustomFieldValues `json:"custom_field_values"`
	Bookable          *bool                   `json:"bookable"`
	WarrantyMonths    *int                    `json:"warranty_months"`
}
