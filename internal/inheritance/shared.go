package inheritance

import "github.com/gearstack/asset-service/internal/model"

// DeriveSharedCustomFields picks the subset of an asset's custom field
// values eligible to become the group's shared defaults: the field's rule
// must be inherited, the asset must have a value, and the value must fit
// the scalar union. Ineligible entries are skipped, not rejected.
func DeriveSharedCustomFields(values model.CustomFieldValues, rules model.RuleSet) model.CustomFieldValues {
	shared := make(model.CustomFieldValues)
	for id, rule := range rules {
		if !rule.Effective().Inherited {
			continue
		}
		v, ok := values[id]
		if !ok {
			continue
		}
		if !ValidCustomFieldValue(v) {
			continue
		}
		shared[id] = v
	}
	return shared
}

// ValidCustomFieldValue reports whether v fits the custom field value
// union: string, number, bool, or array of strings. JSON-decoded numeric
// types and []interface{} string arrays are accepted.
func ValidCustomFieldValue(v interface{}) bool {
	switch val := v.(type) {
	case string, bool:
		return true
	case int, int32, int64, float32, float64:
		return true
	case []string:
		return true
	case []interface{}:
		for _, el := range val {
			if _, ok := el.(string); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}
