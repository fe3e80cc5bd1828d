package inheritance

import "github.com/gearstack/asset-service/internal/model"

// ComputeFieldSources resolves the authoritative source for every field the
// group governs: the four built-ins plus each key in the group's
// custom-field rules.
//
// Fields whose rule is not inherited are omitted from the result; the
// asset's own value stands and its source is implicitly local. Inherited
// fields resolve to "group", except that an existing "override" entry is
// preserved when the rule still allows overrides. If the rule was tightened
// after the override was set, the stale override is demoted to "group";
// only the source is touched, never the underlying value.
//
// existing may be nil (fresh membership, no override to preserve).
func ComputeFieldSources(group *model.AssetGroup, existing model.FieldSources) model.FieldSources {
	sources := make(model.FieldSources)

	for _, key := range model.BuiltinFieldKeys {
		rule, ok := group.InheritanceRules[key]
		if !ok {
			continue
		}
		applyRule(sources, existing, key, rule.Effective())
	}

	for id, rule := range group.CustomFieldRules {
		applyRule(sources, existing, id, rule.Effective())
	}

	return sources
}

func applyRule(sources, existing model.FieldSources, key string, rule model.InheritanceRule) {
	if !rule.Inherited {
		return
	}
	if rule.Overridable && existing[key] == model.SourceOverride {
		sources[key] = model.SourceOverride
		return
	}
	sources[key] = model.SourceGroup
}
