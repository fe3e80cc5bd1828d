// Package inheritance implements the asset-group field governance engine:
// the default rule set, field-source resolution for group members, and
// derivation of shared custom-field defaults. Everything here is pure; all
// I/O lives in the group and asset usecases.
package inheritance

import "github.com/gearstack/asset-service/internal/model"

// defaultBuiltinRules is the process-wide default rule table. Never handed
// out directly; DefaultBuiltinRules and MergeRuleDefaults copy it.
var defaultBuiltinRules = map[string]model.InheritanceRule{
	model.FieldCategory:     {Inherited: true, Overridable: false},
	model.FieldManufacturer: {Inherited: true, Overridable: false},
	model.FieldModel:        {Inherited: true, Overridable: false},
	model.FieldDescription:  {Inherited: true, Overridable: true},
}

// neverOverridable lists the built-ins that can not be made overridable,
// whatever the caller asks for.
var neverOverridable = map[string]bool{
	model.FieldCategory:     true,
	model.FieldManufacturer: true,
	model.FieldModel:        true,
}

// DefaultBuiltinRules returns a fresh copy of the default rule set.
func DefaultBuiltinRules() model.RuleSet {
	rs := make(model.RuleSet, len(defaultBuiltinRules))
	for k, v := range defaultBuiltinRules {
		rs[k] = v
	}
	return rs
}

// MergeRuleDefaults overlays caller-supplied built-in rules on the defaults.
// The result always holds exactly the four built-in keys; unknown keys in
// the input are ignored, and category/manufacturer/model stay
// non-overridable regardless of input.
func MergeRuleDefaults(overrides model.RuleSet) model.RuleSet {
	rs := DefaultBuiltinRules()
	for key, rule := range overrides {
		if _, ok := rs[key]; !ok {
			continue
		}
		if neverOverridable[key] {
			rule.Overridable = false
		}
		rs[key] = rule.Effective()
	}
	return rs
}

// NormalizeCustomFieldRules applies the inherited=false implies
// overridable=false invariant across a custom-field rule map. A nil input
// yields the default empty rule set.
func NormalizeCustomFieldRules(rules model.RuleSet) model.RuleSet {
	out := make(model.RuleSet, len(rules))
	for id, rule := range rules {
		out[id] = rule.Effective()
	}
	return out
}
