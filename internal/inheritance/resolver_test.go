package inheritance

import (
	"testing"

	"github.com/gearstack/asset-service/internal/model"
	"github.com/stretchr/testify/assert"
)

func groupWithRules(builtin, custom model.RuleSet) *model.AssetGroup {
	return &model.AssetGroup{
		InheritanceRules: builtin,
		CustomFieldRules: custom,
	}
}

func TestComputeFieldSources_FreshMembership(t *testing.T) {
	t.Parallel()

	g := groupWithRules(MergeRuleDefaults(nil), model.RuleSet{
		"cf1": {Inherited: true},
	})

	sources := ComputeFieldSources(g, nil)

	assert.Equal(t, model.SourceGroup, sources[model.FieldCategory])
	assert.Equal(t, model.SourceGroup, sources[model.FieldManufacturer])
	assert.Equal(t, model.SourceGroup, sources[model.FieldModel])
	assert.Equal(t, model.SourceGroup, sources[model.FieldDescription])
	assert.Equal(t, model.SourceGroup, sources["cf1"])
}

func TestComputeFieldSources_NonInheritedOmitted(t *testing.T) {
	t.Parallel()

	g := groupWithRules(model.RuleSet{
		model.FieldManufacturer: {Inherited: false},
		model.FieldDescription:  {Inherited: true, Overridable: true},
	}, model.RuleSet{
		"cf1": {Inherited: false},
	})

	sources := ComputeFieldSources(g, nil)

	assert.NotContains(t, sources, model.FieldManufacturer)
	assert.NotContains(t, sources, "cf1")
	assert.Equal(t, model.SourceGroup, sources[model.FieldDescription])
}

func TestComputeFieldSources_OverridePreserved(t *testing.T) {
	t.Parallel()

	g := groupWithRules(model.RuleSet{
		model.FieldDescription: {Inherited: true, Overridable: true},
	}, nil)
	existing := model.FieldSources{model.FieldDescription: model.SourceOverride}

	sources := ComputeFieldSources(g, existing)

	assert.Equal(t, model.SourceOverride, sources[model.FieldDescription])
}

func TestComputeFieldSources_OverrideDemotedWhenRuleTightened(t *testing.T) {
	t.Parallel()

	g := groupWithRules(model.RuleSet{
		model.FieldManufacturer: {Inherited: true, Overridable: false},
	}, nil)
	existing := model.FieldSources{model.FieldManufacturer: model.SourceOverride}

	sources := ComputeFieldSources(g, existing)

	assert.Equal(t, model.SourceGroup, sources[model.FieldManufacturer])
}

func TestComputeFieldSources_OverrideOnNonInheritedDropped(t *testing.T) {
	t.Parallel()

	// An override flag on a field that is no longer inherited is a
	// contradiction; the field just leaves governance.
	g := groupWithRules(model.RuleSet{
		model.FieldDescription: {Inherited: false, Overridable: true},
	}, nil)
	existing := model.FieldSources{model.FieldDescription: model.SourceOverride}

	sources := ComputeFieldSources(g, existing)

	assert.NotContains(t, sources, model.FieldDescription)
}

func TestComputeFieldSources_CustomOverridePreserved(t *testing.T) {
	t.Parallel()

	g := groupWithRules(nil, model.RuleSet{
		"cf1": {Inherited: true, Overridable: true},
		"cf2": {Inherited: true, Overridable: false},
	})
	existing := model.FieldSources{
		"cf1": model.SourceOverride,
		"cf2": model.SourceOverride,
	}

	sources := ComputeFieldSources(g, existing)

	assert.Equal(t, model.SourceOverride, sources["cf1"])
	assert.Equal(t, model.SourceGroup, sources["cf2"])
}
