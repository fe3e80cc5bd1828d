package usecase

import (
	"context"
	"testing"

	"github.com/gearstack/asset-service/internal/apperr"
	assetdto "github.com/gearstack/asset-service/internal/asset/dto"
	"github.com/gearstack/asset-service/internal/group/dto"
	"github.com/gearstack/asset-service/internal/inheritance"
	"github.com/gearstack/asset-service/internal/model"
	"github.com/gearstack/asset-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGroupRepo is a mock implementation of group.Repository.
type MockGroupRepo struct {
	mock.Mock
}

func (m *MockGroupRepo) Create(ctx context.Context, g *model.AssetGroup) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockGroupRepo) FindByID(ctx context.Context, id string) (*model.AssetGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AssetGroup), args.Error(1)
}

func (m *MockGroupRepo) FindAll(ctx context.Context, f *dto.GroupFilters) ([]model.AssetGroup, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.AssetGroup), args.Int(1), args.Error(2)
}

func (m *MockGroupRepo) Update(ctx context.Context, g *model.AssetGroup) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockGroupRepo) BulkCreateForGroup(ctx context.Context, groupID string, count int, base *model.Asset) ([]model.Asset, error) {
	args := m.Called(ctx, groupID, count, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Asset), args.Error(1)
}

func (m *MockGroupRepo) ReassignToGroup(ctx context.Context, assetID, fromGroupID, toGroupID string) error {
	return m.Called(ctx, assetID, fromGroupID, toGroupID).Error(0)
}

// MockAssetRepo is a mock implementation of asset.Repository.
type MockAssetRepo struct {
	mock.Mock
}

func (m *MockAssetRepo) Create(ctx context.Context, a *model.Asset) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAssetRepo) FindByID(ctx context.Context, id string) (*model.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetRepo) FindAll(ctx context.Context, f *assetdto.AssetFilters) ([]model.Asset, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Asset), args.Int(1), args.Error(2)
}

func (m *MockAssetRepo) Update(ctx context.Context, a *model.Asset) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAssetRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAssetRepo) IsAssetNumberUnique(ctx context.Context, assetNumber, excludeID string) (bool, error) {
	args := m.Called(ctx, assetNumber, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssetRepo) IsBarcodeUnique(ctx context.Context, barcode, excludeID string) (bool, error) {
	args := m.Called(ctx, barcode, excludeID)
	return args.Bool(0), args.Error(1)
}

func newTestLogger() logger.ZapLogger {
	return logger.NewZapLogger(&logger.ZapLoggerConfig{Level: "error", Encoding: "json"})
}

func str(s string) *string { return &s }

func standaloneAsset() *model.Asset {
	return &model.Asset{
		BaseModel:     model.BaseModel{ID: "asset-1"},
		AssetNumber:   "AX-100",
		Name:          "Handheld transmitter",
		AssetTypeID:   "type-mic",
		AssetTypeName: "Wireless microphone",
		Manufacturer:  str("Shure"),
		Model:         str("QLXD"),
		Description:   str("Rack unit"),
		CustomFieldValues: model.CustomFieldValues{
			"cf-freq": "G50",
			"cf-junk": map[string]interface{}{"bad": true},
		},
		FieldSources: model.FieldSources{},
	}
}

func TestConvertAssetToGroup_GroupOfOne(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	assetRepo.On("FindByID", mock.Anything, "asset-1").Return(standaloneAsset(), nil)
	groupRepo.On("FindAll", mock.Anything, mock.Anything).Return([]model.AssetGroup{}, 0, nil)
	groupRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.AssetGroup")).Return(nil)
	assetRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Asset")).Return(nil)

	result, err := uc.ConvertAssetToGroup(context.Background(), "asset-1", &dto.ConvertAssetInput{
		CustomFieldRules: model.RuleSet{"cf-freq": {Inherited: true}, "cf-junk": {Inherited: true}},
	})

	require.NoError(t, err)
	require.NotNil(t, result)

	g := result.Group
	require.NotNil(t, g.Manufacturer)
	assert.Equal(t, "Shure", *g.Manufacturer)
	require.NotNil(t, g.Model)
	assert.Equal(t, "QLXD", *g.Model)
	assert.Equal(t, []string{"asset-1"}, []string(g.MemberAssetIDs))
	assert.Equal(t, 1, g.MemberCount)
	require.NotNil(t, g.GroupNumber)
	assert.Equal(t, "AX-100", *g.GroupNumber, "group number falls back to the asset number")
	assert.Equal(t, "07000000", g.Barcode)

	// Shared values were derived through the custom field rules; the
	// malformed value was dropped.
	assert.Equal(t, model.CustomFieldValues{"cf-freq": "G50"}, g.SharedCustomFields)

	a := result.Asset
	require.NotNil(t, a.GroupID)
	assert.Equal(t, g.ID, *a.GroupID)
	assert.Equal(t, model.SourceGroup, a.FieldSources[model.FieldManufacturer])
	assert.Equal(t, model.SourceGroup, a.FieldSources[model.FieldModel])
}

func TestConvertAssetToGroup_AssetNotFound(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	assetRepo.On("FindByID", mock.Anything, "missing").Return(nil, nil)

	_, err := uc.ConvertAssetToGroup(context.Background(), "missing", nil)

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	groupRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConvertAssetToGroup_AlreadyGrouped(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	a := standaloneAsset()
	a.GroupID = str("group-9")
	assetRepo.On("FindByID", mock.Anything, "asset-1").Return(a, nil)

	_, err := uc.ConvertAssetToGroup(context.Background(), "asset-1", nil)

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	groupRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assetRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestConvertAssetToGroup_KitParentRejected(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	a := standaloneAsset()
	a.IsKitParent = true
	assetRepo.On("FindByID", mock.Anything, "asset-1").Return(a, nil)

	_, err := uc.ConvertAssetToGroup(context.Background(), "asset-1", nil)

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateGroup_MalformedSharedValueRejected(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	_, err := uc.CreateGroup(context.Background(), &dto.CreateGroupInput{
		Name:        "QLXD handhelds",
		AssetTypeID: "type-mic",
		SharedCustomFields: model.CustomFieldValues{
			"cf1": map[string]interface{}{"nested": true},
		},
	})

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	groupRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConvertAssetToGroup_MalformedSharedValueRejected(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	assetRepo.On("FindByID", mock.Anything, "asset-1").Return(standaloneAsset(), nil)
	groupRepo.On("FindAll", mock.Anything, mock.Anything).Return([]model.AssetGroup{}, 0, nil)

	_, err := uc.ConvertAssetToGroup(context.Background(), "asset-1", &dto.ConvertAssetInput{
		SharedCustomFields: model.CustomFieldValues{
			"cf1": map[string]interface{}{"nested": true},
		},
	})

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	groupRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assetRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateGroup_OmittedFieldsPreserved(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	groupRepo.On("FindByID", mock.Anything, "group-1").Return(memberGroup(), nil)
	groupRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	// Rename only: the omitted template values must keep their stored state.
	g, err := uc.UpdateGroup(context.Background(), &dto.UpdateGroupInput{
		ID:   "group-1",
		Name: "Renamed",
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", g.Name)
	require.NotNil(t, g.Manufacturer)
	assert.Equal(t, "Shure", *g.Manufacturer)
	require.NotNil(t, g.Model)
	assert.Equal(t, "QLXD", *g.Model)
	require.NotNil(t, g.Description)
	assert.Equal(t, "Rack unit", *g.Description)
}

func memberGroup() *model.AssetGroup {
	return &model.AssetGroup{
		BaseModel:          model.BaseModel{ID: "group-1"},
		GroupNumber:        str("GRP-7"),
		Name:               "QLXD handhelds",
		Barcode:            "07000003",
		AssetTypeID:        "type-mic",
		AssetTypeName:      "Wireless microphone",
		Manufacturer:       str("Shure"),
		Model:              str("QLXD"),
		Description:        str("Rack unit"),
		InheritanceRules:   inheritance.MergeRuleDefaults(nil),
		CustomFieldRules:   model.RuleSet{"cf1": {Inherited: true, Overridable: true}},
		SharedCustomFields: model.CustomFieldValues{"cf1": "Shared"},
		MemberAssetIDs:     []string{"asset-1"},
		MemberCount:        1,
		DefaultBookable:    true,
	}
}

func TestCreateGroupMembers_MergePrecedence(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	groupRepo.On("FindByID", mock.Anything, "group-1").Return(memberGroup(), nil)

	var captured *model.Asset
	groupRepo.On("BulkCreateForGroup", mock.Anything, "group-1", 3, mock.AnythingOfType("*model.Asset")).
		Run(func(args mock.Arguments) {
			captured = args.Get(3).(*model.Asset)
		}).
		Return(make([]model.Asset, 3), nil)

	created, err := uc.CreateGroupMembers(context.Background(), "group-1", 3, &dto.CreateMembersInput{
		BaseData: &dto.MemberBaseData{
			CustomFieldValues: model.CustomFieldValues{"cf2": "Local"},
		},
	})

	require.NoError(t, err)
	assert.Len(t, created, 3)
	require.NotNil(t, captured)

	// Shared defaults merge under explicit values.
	assert.Equal(t, model.CustomFieldValues{"cf1": "Shared", "cf2": "Local"}, captured.CustomFieldValues)
	require.NotNil(t, captured.Manufacturer)
	assert.Equal(t, "Shure", *captured.Manufacturer)
	assert.Equal(t, "type-mic", captured.AssetTypeID)
	assert.Equal(t, model.SourceGroup, captured.FieldSources[model.FieldManufacturer])
	require.NotNil(t, captured.GroupID)
	assert.Equal(t, "group-1", *captured.GroupID)
}

func TestCreateGroupMembers_ExplicitValuesWinOverShared(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	groupRepo.On("FindByID", mock.Anything, "group-1").Return(memberGroup(), nil)

	var captured *model.Asset
	groupRepo.On("BulkCreateForGroup", mock.Anything, "group-1", 1, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(3).(*model.Asset)
		}).
		Return(make([]model.Asset, 1), nil)

	_, err := uc.CreateGroupMembers(context.Background(), "group-1", 1, &dto.CreateMembersInput{
		BaseData: &dto.MemberBaseData{
			CustomFieldValues: model.CustomFieldValues{"cf1": "Mine"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Mine", captured.CustomFieldValues["cf1"])
}

func TestCreateGroupMembers_NonPositiveCount(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	for _, count := range []int{0, -3} {
		_, err := uc.CreateGroupMembers(context.Background(), "group-1", count, nil)
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	}
	groupRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCreateGroupMembers_AssetTypeConflict(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	groupRepo.On("FindByID", mock.Anything, "group-1").Return(memberGroup(), nil)

	_, err := uc.CreateGroupMembers(context.Background(), "group-1", 2, &dto.CreateMembersInput{
		BaseData: &dto.MemberBaseData{AssetTypeID: "type-speaker"},
	})

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	groupRepo.AssertNotCalled(t, "BulkCreateForGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddAssetToGroup_Idempotent(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	newcomer := standaloneAsset()
	newcomer.ID = "asset-2"

	g := memberGroup()
	assetRepo.On("FindByID", mock.Anything, "asset-2").Return(newcomer, nil)
	groupRepo.On("FindByID", mock.Anything, "group-1").Return(g, nil)
	assetRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	groupRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	first, err := uc.AddAssetToGroup(context.Background(), "asset-2", "group-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"asset-1", "asset-2"}, []string(g.MemberAssetIDs))
	assert.Equal(t, 2, g.MemberCount)
	require.NotNil(t, first.GroupID)

	// Second add of the same pair: asset already carries the membership and
	// the group list already holds it; no second membership write happens.
	second, err := uc.AddAssetToGroup(context.Background(), "asset-2", "group-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"asset-1", "asset-2"}, []string(g.MemberAssetIDs))
	assert.Equal(t, 2, g.MemberCount)
	require.NotNil(t, second.GroupID)

	groupRepo.AssertNumberOfCalls(t, "Update", 1)
}

func TestAddAssetToGroup_TypeMismatchNoWrites(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	misfit := standaloneAsset()
	misfit.ID = "asset-3"
	misfit.AssetTypeID = "type-speaker"

	assetRepo.On("FindByID", mock.Anything, "asset-3").Return(misfit, nil)
	groupRepo.On("FindByID", mock.Anything, "group-1").Return(memberGroup(), nil)

	_, err := uc.AddAssetToGroup(context.Background(), "asset-3", "group-1")

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assetRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	groupRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAddAssetToGroup_PreservesExistingOverride(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	rejoiner := standaloneAsset()
	rejoiner.ID = "asset-4"
	rejoiner.FieldSources = model.FieldSources{
		model.FieldDescription:  model.SourceOverride,
		model.FieldManufacturer: model.SourceOverride,
	}

	assetRepo.On("FindByID", mock.Anything, "asset-4").Return(rejoiner, nil)
	groupRepo.On("FindByID", mock.Anything, "group-1").Return(memberGroup(), nil)
	assetRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	groupRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	updated, err := uc.AddAssetToGroup(context.Background(), "asset-4", "group-1")

	require.NoError(t, err)
	// description is overridable by default, manufacturer never is.
	assert.Equal(t, model.SourceOverride, updated.FieldSources[model.FieldDescription])
	assert.Equal(t, model.SourceGroup, updated.FieldSources[model.FieldManufacturer])
}

func TestReassignAsset(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	mover := standaloneAsset()
	mover.ID = "asset-5"
	mover.GroupID = str("group-0")
	mover.FieldSources = model.FieldSources{model.FieldDescription: model.SourceOverride}

	assetRepo.On("FindByID", mock.Anything, "asset-5").Return(mover, nil)
	groupRepo.On("FindByID", mock.Anything, "group-1").Return(memberGroup(), nil)
	groupRepo.On("ReassignToGroup", mock.Anything, "asset-5", "group-0", "group-1").Return(nil)
	assetRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	updated, err := uc.ReassignAsset(context.Background(), "asset-5", "group-1")

	require.NoError(t, err)
	require.NotNil(t, updated.GroupID)
	assert.Equal(t, "group-1", *updated.GroupID)
	// The override carries across because description stays overridable.
	assert.Equal(t, model.SourceOverride, updated.FieldSources[model.FieldDescription])
	groupRepo.AssertCalled(t, "ReassignToGroup", mock.Anything, "asset-5", "group-0", "group-1")
}

func TestReassignAsset_UngroupedRejected(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	assetRepo.On("FindByID", mock.Anything, "asset-6").Return(standaloneAsset(), nil)
	groupRepo.On("FindByID", mock.Anything, "group-1").Return(memberGroup(), nil)

	_, err := uc.ReassignAsset(context.Background(), "asset-6", "group-1")

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	groupRepo.AssertNotCalled(t, "ReassignToGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReassignAsset_SameGroupNoOp(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	stayer := standaloneAsset()
	stayer.ID = "asset-7"
	stayer.GroupID = str("group-1")

	assetRepo.On("FindByID", mock.Anything, "asset-7").Return(stayer, nil)
	groupRepo.On("FindByID", mock.Anything, "group-1").Return(memberGroup(), nil)

	a, err := uc.ReassignAsset(context.Background(), "asset-7", "group-1")

	require.NoError(t, err)
	assert.Equal(t, "asset-7", a.ID)
	groupRepo.AssertNotCalled(t, "ReassignToGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assetRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestNextGroupBarcode(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	existing := []model.AssetGroup{
		{Barcode: "07000000"},
		{Barcode: "07000001"},
		{Barcode: "07000003"},
		{Barcode: "not-numeric"},
	}
	groupRepo.On("FindAll", mock.Anything, mock.Anything).Return(existing, len(existing), nil)

	barcode, err := uc.NextGroupBarcode(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "07000002", barcode, "first gap at or above the base is taken")
	for _, g := range existing {
		assert.NotEqual(t, g.Barcode, barcode)
	}
}

func TestNextGroupBarcode_EmptyStore(t *testing.T) {
	t.Parallel()

	groupRepo := new(MockGroupRepo)
	assetRepo := new(MockAssetRepo)
	uc := NewGroupUseCase(groupRepo, assetRepo, nil, nil, newTestLogger())

	groupRepo.On("FindAll", mock.Anything, mock.Anything).Return([]model.AssetGroup{}, 0, nil)

	barcode, err := uc.NextGroupBarcode(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "07000000", barcode)
}
