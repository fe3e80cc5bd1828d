package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FieldSource says where an asset's value for a governed field comes from.
type FieldSource string

const (
	// SourceGroup: the value is inherited and tracks the group's current value.
	SourceGroup FieldSource = "group"
	// SourceLocal: the asset owns the value; the group rule does not apply.
	SourceLocal FieldSource = "local"
	// SourceOverride: the asset explicitly overrides an inherited value.
	// Only valid while the field's rule is inherited and overridable.
	SourceOverride FieldSource = "override"
)

// Built-in field keys governed by group inheritance rules.
const (
	FieldCategory     = "category"
	FieldManufacturer = "manufacturer"
	FieldModel        = "model"
	FieldDescription  = "description"
)

// BuiltinFieldKeys in stable order, used when iterating rule maps.
var BuiltinFieldKeys = []string{FieldCategory, FieldManufacturer, FieldModel, FieldDescription}

// InheritanceRule governs one field of a group. Overridable is only honored
// while Inherited is true; Effective normalizes that.
type InheritanceRule struct {
	Inherited   bool `json:"inherited"`
	Overridable bool `json:"overridable"`
}

// Effective returns the rule with the inherited=false implies
// overridable=false invariant applied.
func (r InheritanceRule) Effective() InheritanceRule {
	if !r.Inherited {
		return InheritanceRule{}
	}
	return r
}

// RuleSet maps a field key (built-in name or custom field id) to its rule.
// Stored as JSONB.
type RuleSet map[string]InheritanceRule

func (rs RuleSet) Value() (driver.Value, error) {
	if rs == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(rs)
}

func (rs *RuleSet) Scan(src interface{}) error {
	return scanJSON(src, rs)
}

// CustomFieldValues maps a custom field id to its value. Values are limited
// to the scalar union string | number | bool | []string. Stored as JSONB.
type CustomFieldValues map[string]interface{}

func (cv CustomFieldValues) Value() (driver.Value, error) {
	if cv == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(cv)
}

func (cv *CustomFieldValues) Scan(src interface{}) error {
	return scanJSON(src, cv)
}

// FieldSources maps a field key to its resolved source. Stored as JSONB.
type FieldSources map[string]FieldSource

func (fs FieldSources) Value() (driver.Value, error) {
	if fs == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(fs)
}

func (fs *FieldSources) Scan(src interface{}) error {
	return scanJSON(src, fs)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into JSON column", src)
	}
}
