package dto

import "github.com/gearstack/asset-service/internal/model"

type CreateGroupInput struct {
	Name                  string                  `json:"name" binding:"required"`
	GroupNumber           *string                 `json:"group_number"`
	Barcode               *string                 `json:"barcode"`
	AssetTypeID           string                  `json:"asset_type_id" binding:"required"`
	AssetTypeName         string                  `json:"asset_type_name"`
	Manufacturer          *string                 `json:"manufacturer"`
	Model                 *string                 `json:"model"`
	Description           *string                 `json:"description"`
	InheritanceRules      model.RuleSet           `json:"inheritance_rules"`
	CustomFieldRules      model.RuleSet           `json:"custom_field_rules"`
	SharedCustomFields    model.CustomFieldValues `json:"shared_custom_fields"`
	DefaultWarrantyMonths *int                    `json:"default_warranty_months"`
	DefaultBookable       bool                    `json:"default_bookable"`
}

type UpdateGroupInput struct {
	ID                    string
	Name                  string                  `json:"name"`
	Manufacturer          *string                 `json:"manufacturer"`
	Model                 *string                 `json:"model"`
	Description           *string                 `json:"description"`
	InheritanceRules      model.RuleSet           `json:"inheritance_rules"`
	CustomFieldRules      model.RuleSet           `json:"custom_field_rules"`
	SharedCustomFields    model.CustomFieldValues `json:"shared_custom_fields"`
	DefaultWarrantyMonths *int                    `json:"default_warranty_months"`
	DefaultBookable       *bool                   `json:"default_bookable"`
}

// ConvertAssetInput configures the conversion of a standalone asset into a
// group of one. Everything is optional; unset values fall back to the
// asset's own data and the default rule set.
type ConvertAssetInput struct {
	Name               string                  `json:"name"`
	GroupNumber        *string                 `json:"group_number"`
	Barcode            *string                 `json:"barcode"`
	InheritanceRules   model.RuleSet           `json:"inheritance_rules"`
	CustomFieldRules   model.RuleSet           `json:"custom_field_rules"`
	SharedCustomFields model.CustomFieldValues `json:"shared_custom_fields"`
	DefaultBookable    *bool                   `json:"default_bookable"`
	WarrantyMonths     *int                    `json:"warranty_months"`
}

// MemberBaseData is the caller-supplied part of the bulk-creation template.
// Explicit custom field values win over the group's shared defaults.
type MemberBaseData struct {
	Name              string                  `json:"name"`
	AssetTypeID       string                  `json:"asset_type_id"`
	AssetTypeName     string                  `json:"asset_type_name"`
	CustomFieldValues model.CustomFieldValues `json:"custom_field_values"`
	Bookable          *bool                   `json:"bookable"`
}

type CreateMembersInput struct {
	BaseData                *MemberBaseData `json:"base_data"`
	ApplySharedCustomFields *bool           `json:"apply_shared_custom_fields"` // default true
}
