package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gearstack/asset-service/internal/apperr"
	"github.com/gearstack/asset-service/internal/asset"
	"github.com/gearstack/asset-service/internal/events"
	"github.com/gearstack/asset-service/internal/group"
	"github.com/gearstack/asset-service/internal/group/dto"
	"github.com/gearstack/asset-service/internal/inheritance"
	"github.com/gearstack/asset-service/internal/model"
	"github.com/gearstack/asset-service/pkg/cache"
	"github.com/gearstack/asset-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const groupCacheTTL = 5 * time.Minute

type groupUseCase struct {
	repo      group.Repository
	assetRepo asset.Repository
	cache     *cache.RedisClient
	publisher events.Publisher
	logger    logger.ZapLogger
}

func NewGroupUseCase(repo group.Repository, assetRepo asset.Repository, cache *cache.RedisClient, publisher events.Publisher, log logger.ZapLogger) group.UseCase {
	return &groupUseCase{
		repo:      repo,
		assetRepo: assetRepo,
		cache:     cache,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *groupUseCase) CreateGroup(ctx context.Context, input *dto.CreateGroupInput) (*model.AssetGroup, error) {
	for id, v := range input.SharedCustomFields {
		if !inheritance.ValidCustomFieldValue(v) {
			return nil, apperr.Invalid("custom field %s has a malformed value", id)
		}
	}

	barcode := ""
	if input.Barcode != nil && *input.Barcode != "" {
		barcode = *input.Barcode
	} else {
		var err error
		barcode, err = uc.NextGroupBarcode(ctx)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	g := &model.AssetGroup{
		BaseModel:             model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		GroupNumber:           input.GroupNumber,
		Name:                  input.Name,
		Barcode:               barcode,
		AssetTypeID:           input.AssetTypeID,
		AssetTypeName:         input.AssetTypeName,
		Manufacturer:          input.Manufacturer,
		Model:                 input.Model,
		Description:           input.Description,
		InheritanceRules:      inheritance.MergeRuleDefaults(input.InheritanceRules),
		CustomFieldRules:      inheritance.NormalizeCustomFieldRules(input.CustomFieldRules),
		SharedCustomFields:    input.SharedCustomFields,
		MemberAssetIDs:        []string{},
		MemberCount:           0,
		DefaultWarrantyMonths: input.DefaultWarrantyMonths,
		DefaultBookable:       input.DefaultBookable,
	}
	if g.SharedCustomFields == nil {
		g.SharedCustomFields = model.CustomFieldValues{}
	}

	if err := uc.repo.Create(ctx, g); err != nil {
		return nil, apperr.Persistence(err, "create group")
	}

	go events.Emit(context.Background(), uc.publisher, uc.logger, events.GroupCreated, g.ID, g)

	return g, nil
}

func (uc *groupUseCase) GetGroup(ctx context.Context, id string) (*model.AssetGroup, error) {
	if uc.cache != nil {
		if val, err := uc.cache.Client.Get(ctx, groupCacheKey(id)).Result(); err == nil {
			var g model.AssetGroup
			if err := json.Unmarshal([]byte(val), &g); err == nil {
				return &g, nil
			}
		}
	}

	g, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence(err, "load group")
	}
	if g == nil {
		return nil, apperr.NotFound("group %s not found", id)
	}

	if uc.cache != nil {
		if data, err := json.Marshal(g); err == nil {
			uc.cache.Client.Set(ctx, groupCacheKey(id), data, groupCacheTTL)
		}
	}

	return g, nil
}

func (uc *groupUseCase) ListGroups(ctx context.Context, filters *dto.GroupFilters) ([]model.AssetGroup, int, error) {
	groups, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperr.Persistence(err, "list groups")
	}
	return groups, count, nil
}

func (uc *groupUseCase) UpdateGroup(ctx context.Context, input *dto.UpdateGroupInput) (*model.AssetGroup, error) {
	g, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, apperr.Persistence(err, "load group")
	}
	if g == nil {
		return nil, apperr.NotFound("group %s not found", input.ID)
	}

	if input.Name != "" {
		g.Name = input.Name
	}
	if input.Manufacturer != nil {
		g.Manufacturer = input.Manufacturer
	}
	if input.Model != nil {
		g.Model = input.Model
	}
	if input.Description != nil {
		g.Description = input.Description
	}
	if input.InheritanceRules != nil {
		g.InheritanceRules = inheritance.MergeRuleDefaults(input.InheritanceRules)
	}
	if input.CustomFieldRules != nil {
		g.CustomFieldRules = inheritance.NormalizeCustomFieldRules(input.CustomFieldRules)
	}
	if input.SharedCustomFields != nil {
		for id, v := range input.SharedCustomFields {
			if !inheritance.ValidCustomFieldValue(v) {
				return nil, apperr.Invalid("custom field %s has a malformed value", id)
			}
		}
		g.SharedCustomFields = input.SharedCustomFields
	}
	if input.DefaultWarrantyMonths != nil {
		g.DefaultWarrantyMonths = input.DefaultWarrantyMonths
	}
	if input.DefaultBookable != nil {
		g.DefaultBookable = *input.DefaultBookable
	}
	g.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, g); err != nil {
		return nil, apperr.Persistence(err, "update group")
	}

	uc.invalidateGroupCache(ctx, g.ID)
	return g, nil
}

// ConvertAssetToGroup turns a standalone asset into the first member of a
// brand-new group. The group write happens before the asset write; if the
// asset update then fails, the group is left referencing a member whose
// back-reference was never set. There is no compensation step.
func (uc *groupUseCase) ConvertAssetToGroup(ctx context.Context, assetID string, input *dto.ConvertAssetInput) (*dto.ConversionResult, error) {
	if input == nil {
		input = &dto.ConvertAssetInput{}
	}

	a, err := uc.assetRepo.FindByID(ctx, assetID)
	if err != nil {
		return nil, apperr.Persistence(err, "load asset")
	}
	if a == nil {
		return nil, apperr.NotFound("asset %s not found", assetID)
	}
	if err := group.EnsureAssetCanJoinGroup(a, ""); err != nil {
		return nil, err
	}

	rules := inheritance.MergeRuleDefaults(input.InheritanceRules)
	cfRules := inheritance.NormalizeCustomFieldRules(input.CustomFieldRules)

	// Group number falls back to the asset's own number; the barcode falls
	// back to the next free value in the group range.
	groupNumber := a.AssetNumber
	if input.GroupNumber != nil && *input.GroupNumber != "" {
		groupNumber = *input.GroupNumber
	}
	barcode := ""
	if input.Barcode != nil && *input.Barcode != "" {
		barcode = *input.Barcode
	} else {
		barcode, err = uc.NextGroupBarcode(ctx)
		if err != nil {
			return nil, err
		}
	}

	shared := input.SharedCustomFields
	if shared == nil {
		shared = inheritance.DeriveSharedCustomFields(a.CustomFieldValues, cfRules)
	} else {
		for id, v := range shared {
			if !inheritance.ValidCustomFieldValue(v) {
				return nil, apperr.Invalid("custom field %s has a malformed value", id)
			}
		}
	}

	name := input.Name
	if name == "" {
		name = a.Name
	}

	now := time.Now()
	g := &model.AssetGroup{
		BaseModel:          model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		GroupNumber:        &groupNumber,
		Name:               name,
		Barcode:            barcode,
		AssetTypeID:        a.AssetTypeID,
		AssetTypeName:      a.AssetTypeName,
		InheritanceRules:   rules,
		CustomFieldRules:   cfRules,
		SharedCustomFields: shared,
		MemberAssetIDs:     []string{a.ID},
		MemberCount:        1,
		DefaultBookable:    a.Bookable,
	}
	if input.DefaultBookable != nil {
		g.DefaultBookable = *input.DefaultBookable
	}
	if input.WarrantyMonths != nil {
		g.DefaultWarrantyMonths = input.WarrantyMonths
	} else {
		g.DefaultWarrantyMonths = a.WarrantyMonths
	}

	// Template values come from the asset, but only for inherited fields.
	if rules[model.FieldManufacturer].Inherited {
		g.Manufacturer = a.Manufacturer
	}
	if rules[model.FieldModel].Inherited {
		g.Model = a.Model
	}
	if rules[model.FieldDescription].Inherited {
		g.Description = a.Description
	}

	if err := uc.repo.Create(ctx, g); err != nil {
		return nil, apperr.Persistence(err, "create group")
	}

	a.GroupID = &g.ID
	a.GroupNumber = g.GroupNumber
	a.GroupName = &g.Name
	a.FieldSources = inheritance.ComputeFieldSources(g, nil)
	a.UpdatedAt = now

	if err := uc.assetRepo.Update(ctx, a); err != nil {
		return nil, apperr.Persistence(err, "update converted asset")
	}

	go events.Emit(context.Background(), uc.publisher, uc.logger, events.GroupCreated, g.ID, g)

	return &dto.ConversionResult{Group: g, Asset: a}, nil
}

// CreateGroupMembers bulk-creates count fresh assets under an existing
// group. Batch atomicity is the repository's property; nothing is rolled
// back here.
func (uc *groupUseCase) CreateGroupMembers(ctx context.Context, groupID string, count int, input *dto.CreateMembersInput) ([]model.Asset, error) {
	if err := group.EnsurePositiveMemberCount(count); err != nil {
		return nil, err
	}
	if input == nil {
		input = &dto.CreateMembersInput{}
	}
	baseData := input.BaseData
	if baseData == nil {
		baseData = &dto.MemberBaseData{}
	}

	g, err := uc.repo.FindByID(ctx, groupID)
	if err != nil {
		return nil, apperr.Persistence(err, "load group")
	}
	if g == nil {
		return nil, apperr.NotFound("group %s not found", groupID)
	}

	if baseData.AssetTypeID != "" && baseData.AssetTypeID != g.AssetTypeID {
		return nil, apperr.Invalid("asset type %s does not match group asset type %s", baseData.AssetTypeID, g.AssetTypeID)
	}

	// Shared defaults merge UNDER explicit per-asset values.
	values := model.CustomFieldValues{}
	if input.ApplySharedCustomFields == nil || *input.ApplySharedCustomFields {
		for id, v := range g.SharedCustomFields {
			values[id] = v
		}
	}
	for id, v := range baseData.CustomFieldValues {
		if !inheritance.ValidCustomFieldValue(v) {
			return nil, apperr.Invalid("custom field %s has a malformed value", id)
		}
		values[id] = v
	}

	name := baseData.Name
	if name == "" {
		name = g.Name
	}
	bookable := g.DefaultBookable
	if baseData.Bookable != nil {
		bookable = *baseData.Bookable
	}

	base := &model.Asset{
		Name:              name,
		AssetTypeID:       g.AssetTypeID,
		AssetTypeName:     g.AssetTypeName,
		CustomFieldValues: values,
		FieldSources:      inheritance.ComputeFieldSources(g, nil),
		GroupID:           &g.ID,
		GroupNumber:       g.GroupNumber,
		GroupName:         &g.Name,
		Bookable:          bookable,
		WarrantyMonths:    g.DefaultWarrantyMonths,
	}

	// Template values propagate only for inherited fields.
	if g.InheritanceRules[model.FieldManufacturer].Effective().Inherited {
		base.Manufacturer = g.Manufacturer
	}
	if g.InheritanceRules[model.FieldModel].Effective().Inherited {
		base.Model = g.Model
	}
	if g.InheritanceRules[model.FieldDescription].Effective().Inherited {
		base.Description = g.Description
	}

	created, err := uc.repo.BulkCreateForGroup(ctx, groupID, count, base)
	if err != nil {
		return nil, apperr.Persistence(err, "bulk create members")
	}

	uc.invalidateGroupCache(ctx, groupID)
	go events.Emit(context.Background(), uc.publisher, uc.logger, events.GroupMembersBulkAdded, groupID, map[string]interface{}{
		"group_id": groupID,
		"count":    len(created),
	})

	return created, nil
}

// AddAssetToGroup moves an existing standalone asset into a group. This is
// the one path where a previously set override can survive: the asset's
// current field sources feed the resolver.
func (uc *groupUseCase) AddAssetToGroup(ctx context.Context, assetID, groupID string) (*model.Asset, error) {
	var a *model.Asset
	var g *model.AssetGroup

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		a, err = uc.assetRepo.FindByID(egCtx, assetID)
		return err
	})
	eg.Go(func() error {
		var err error
		g, err = uc.repo.FindByID(egCtx, groupID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, apperr.Persistence(err, "load asset and group")
	}
	if a == nil {
		return nil, apperr.NotFound("asset %s not found", assetID)
	}
	if g == nil {
		return nil, apperr.NotFound("group %s not found", groupID)
	}

	if err := group.EnsureAssetCanJoinGroup(a, groupID); err != nil {
		return nil, err
	}
	if err := group.EnsureAssetMatchesGroupType(a, g); err != nil {
		return nil, err
	}

	now := time.Now()
	a.GroupID = &g.ID
	a.GroupNumber = g.GroupNumber
	a.GroupName = &g.Name
	a.FieldSources = inheritance.ComputeFieldSources(g, a.FieldSources)
	a.UpdatedAt = now

	if err := uc.assetRepo.Update(ctx, a); err != nil {
		return nil, apperr.Persistence(err, "update asset")
	}

	if !g.HasMember(a.ID) {
		g.MemberAssetIDs = append(g.MemberAssetIDs, a.ID)
		g.MemberCount = len(g.MemberAssetIDs)
		g.UpdatedAt = now
		if err := uc.repo.Update(ctx, g); err != nil {
			return nil, apperr.Persistence(err, "update group membership")
		}

		uc.invalidateGroupCache(ctx, groupID)
		go events.Emit(context.Background(), uc.publisher, uc.logger, events.GroupMemberAdded, groupID, map[string]interface{}{
			"group_id": groupID,
			"asset_id": assetID,
		})
	}

	return a, nil
}

// ReassignAsset moves a grouped asset into another group. The move itself is
// a single repository operation; this layer validates the target and then
// refreshes the asset's field sources under the new group's rules.
func (uc *groupUseCase) ReassignAsset(ctx context.Context, assetID, toGroupID string) (*model.Asset, error) {
	var a *model.Asset
	var g *model.AssetGroup

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		a, err = uc.assetRepo.FindByID(egCtx, assetID)
		return err
	})
	eg.Go(func() error {
		var err error
		g, err = uc.repo.FindByID(egCtx, toGroupID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, apperr.Persistence(err, "load asset and group")
	}
	if a == nil {
		return nil, apperr.NotFound("asset %s not found", assetID)
	}
	if g == nil {
		return nil, apperr.NotFound("group %s not found", toGroupID)
	}

	if !a.Grouped() {
		return nil, apperr.Invalid("asset %s is not in a group; add it instead of reassigning", assetID)
	}
	if *a.GroupID == toGroupID {
		return a, nil
	}
	if err := group.EnsureAssetMatchesGroupType(a, g); err != nil {
		return nil, err
	}

	fromGroupID := *a.GroupID
	if err := uc.repo.ReassignToGroup(ctx, assetID, fromGroupID, toGroupID); err != nil {
		return nil, apperr.Persistence(err, "reassign asset")
	}

	a.GroupID = &g.ID
	a.GroupNumber = g.GroupNumber
	a.GroupName = &g.Name
	a.FieldSources = inheritance.ComputeFieldSources(g, a.FieldSources)
	a.UpdatedAt = time.Now()
	if err := uc.assetRepo.Update(ctx, a); err != nil {
		return nil, apperr.Persistence(err, "update reassigned asset")
	}

	uc.invalidateGroupCache(ctx, fromGroupID)
	uc.invalidateGroupCache(ctx, toGroupID)
	go events.Emit(context.Background(), uc.publisher, uc.logger, events.GroupMemberAdded, toGroupID, map[string]interface{}{
		"group_id":        toGroupID,
		"asset_id":        assetID,
		"reassigned_from": fromGroupID,
	})

	return a, nil
}

func groupCacheKey(id string) string {
	return fmt.Sprintf("groups:%s", id)
}

func (uc *groupUseCase) invalidateGroupCache(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Client.Del(ctx, groupCacheKey(id)).Err(); err != nil {
		uc.logger.Warn("failed to invalidate group cache", zap.String("group_id", id), zap.Error(err))
	}
}
