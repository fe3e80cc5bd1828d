package model

import "github.com/lib/pq"

// AssetGroup is the template/container ("model") for a family of
// interchangeable assets. Template values for manufacturer/model/description
// are only meaningful for fields whose rule is inherited.
type AssetGroup struct {
	BaseModel
	GroupNumber           *string           `db:"group_number" json:"group_number"` // Stable business identifier
	Name                  string            `db:"name" json:"name"`
	Barcode               string            `db:"barcode" json:"barcode"` // Unique, allocated from the group range
	AssetTypeID           string            `db:"asset_type_id" json:"asset_type_id"`
	AssetTypeName         string            `db:"asset_type_name" json:"asset_type_name"`
	Manufacturer          *string           `db:"manufacturer" json:"manufacturer"`
	Model                 *string           `db:"model" json:"model"`
	Description           *string           `db:"description" json:"description"`
	InheritanceRules      RuleSet           `db:"inheritance_rules" json:"inheritance_rules"`
	CustomFieldRules      RuleSet           `db:"custom_field_rules" json:"custom_field_rules"`
	SharedCustomFields    CustomFieldValues `db:"shared_custom_fields" json:"shared_custom_fields"`
	MemberAssetIDs        pq.StringArray    `db:"member_asset_ids" json:"member_asset_ids"`
	MemberCount           int               `db:"member_count" json:"member_count"`
	DefaultWarrantyMonths *int              `db:"default_warranty_months" json:"default_warranty_months"`
	DefaultBookable       bool              `db:"default_bookable" json:"default_bookable"`
}

// HasMember reports whether the asset id is already in the member list.
func (g *AssetGroup) HasMember(assetID string) bool {
	for _, id := range g.MemberAssetIDs {
		if id == assetID {
			return true
		}
	}
	return false
}

// RuleFor returns the effective rule for a field key, checking built-in
// rules first and custom field rules second.
func (g *AssetGroup) RuleFor(key string) (InheritanceRule, bool) {
	if r, ok := g.InheritanceRules[key]; ok {
		return r.Effective(), true
	}
	if r, ok := g.CustomFieldRules[key]; ok {
		return r.Effective(), true
	}
	return InheritanceRule{}, false
}
