package model

// GroupRef is the denormalized back-reference an asset keeps to its group.
type GroupRef struct {
	ID          string  `db:"group_id" json:"id"`
	GroupNumber *string `db:"group_number" json:"group_number"`
	Name        string  `db:"group_name" json:"name"`
}

type Asset struct {
	BaseModel
	AssetNumber       string            `db:"asset_number" json:"asset_number"`
	Name              string            `db:"name" json:"name"`
	AssetTypeID       string            `db:"asset_type_id" json:"asset_type_id"`
	AssetTypeName     string            `db:"asset_type_name" json:"asset_type_name"`
	Manufacturer      *string           `db:"manufacturer" json:"manufacturer"` // Nullable
	Model             *string           `db:"model" json:"model"`               // Nullable
	Description       *string           `db:"description" json:"description"`
	Barcode           *string           `db:"barcode" json:"barcode"`
	QRCode            *string           `db:"qr_code" json:"qr_code"`
	CustomFieldValues CustomFieldValues `db:"custom_field_values" json:"custom_field_values"`
	FieldSources      FieldSources      `db:"field_sources" json:"field_sources"`
	GroupID           *string           `db:"group_id" json:"group_id"`         // Nullable
	GroupNumber       *string           `db:"group_number" json:"group_number"` // Denormalized from group
	GroupName         *string           `db:"group_name" json:"group_name"`     // Denormalized from group
	IsKitParent       bool              `db:"is_kit_parent" json:"is_kit_parent"`
	Bookable          bool              `db:"bookable" json:"bookable"`
	WarrantyMonths    *int              `db:"warranty_months" json:"warranty_months"`
}

// Grouped reports whether the asset currently belongs to a group.
func (a *Asset) Grouped() bool {
	return a.GroupID != nil && *a.GroupID != ""
}

// Group returns the back-reference, or nil for standalone assets.
func (a *Asset) Group() *GroupRef {
	if !a.Grouped() {
		return nil
	}
	ref := &GroupRef{ID: *a.GroupID, GroupNumber: a.GroupNumber}
	if a.GroupName != nil {
		ref.Name = *a.GroupName
	}
	return ref
}
