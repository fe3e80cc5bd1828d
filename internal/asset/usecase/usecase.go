package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gearstack/asset-service/internal/apperr"
	"github.com/gearstack/asset-service/internal/asset"
	"github.com/gearstack/asset-service/internal/asset/dto"
	"github.com/gearstack/asset-service/internal/inheritance"
	"github.com/gearstack/asset-service/internal/model"
	"github.com/gearstack/asset-service/pkg/cache"
	"github.com/gearstack/asset-service/pkg/logger"
	"github.com/gearstack/asset-service/pkg/search"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const assetIndex = "assets"

type assetUseCase struct {
	repo   asset.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger
}

func NewAssetUseCase(repo asset.Repository, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) asset.UseCase {
	return &assetUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *assetUseCase) CreateAsset(ctx context.Context, input *dto.CreateAssetInput) (*model.Asset, error) {
	unique, err := uc.repo.IsAssetNumberUnique(ctx, input.AssetNumber, "")
	if err != nil {
		return nil, apperr.Persistence(err, "check asset number")
	}
	if !unique {
		return nil, apperr.Invalid("asset number %s already exists", input.AssetNumber)
	}

	if input.Barcode != "" {
		unique, err := uc.repo.IsBarcodeUnique(ctx, input.Barcode, "")
		if err != nil {
			return nil, apperr.Persistence(err, "check barcode")
		}
		if !unique {
			return nil, apperr.Invalid("barcode %s already exists", input.Barcode)
		}
	}

	for id, v := range input.CustomFieldValues {
		if !inheritance.ValidCustomFieldValue(v) {
			return nil, apperr.Invalid("custom field %s has a malformed value", id)
		}
	}

	now := time.Now()
	a := &model.Asset{
		BaseModel:         model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		AssetNumber:       input.AssetNumber,
		Name:              input.Name,
		AssetTypeID:       input.AssetTypeID,
		AssetTypeName:     input.AssetTypeName,
		Manufacturer:      optional(input.Manufacturer),
		Model:             optional(input.Model),
		Description:       optional(input.Description),
		Barcode:           optional(input.Barcode),
		QRCode:            optional(input.QRCode),
		CustomFieldValues: input.CustomFieldValues,
		FieldSources:      model.FieldSources{},
		IsKitParent:       input.IsKitParent,
		Bookable:          input.Bookable,
		WarrantyMonths:    input.WarrantyMonths,
	}
	if a.CustomFieldValues == nil {
		a.CustomFieldValues = model.CustomFieldValues{}
	}

	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, apperr.Persistence(err, "create asset")
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), a)

	return a, nil
}

func (uc *assetUseCase) GetAsset(ctx context.Context, id string) (*model.Asset, error) {
	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence(err, "load asset")
	}
	if a == nil {
		return nil, apperr.NotFound("asset %s not found", id)
	}
	return a, nil
}

func (uc *assetUseCase) ListAssets(ctx context.Context, filters *dto.AssetFilters) ([]model.Asset, int, error) {
	cacheKey := uc.listCacheKey(filters)
	if uc.cache != nil && cacheKey != "" {
		if val, err := uc.cache.Client.Get(ctx, cacheKey).Result(); err == nil {
			var result struct {
				Assets []model.Asset
				Count  int
			}
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Assets, result.Count, nil
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		assets, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return assets, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	assets, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperr.Persistence(err, "list assets")
	}

	if uc.cache != nil && cacheKey != "" {
		cacheData := struct {
			Assets []model.Asset
			Count  int
		}{Assets: assets, Count: count}
		if data, err := json.Marshal(cacheData); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return assets, count, nil
}

func (uc *assetUseCase) UpdateAsset(ctx context.Context, input *dto.UpdateAssetInput) (*model.Asset, error) {
	a, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, apperr.Persistence(err, "load asset")
	}
	if a == nil {
		return nil, apperr.NotFound("asset %s not found", input.ID)
	}

	if input.Barcode != nil && *input.Barcode != "" && (a.Barcode == nil || *a.Barcode != *input.Barcode) {
		unique, err := uc.repo.IsBarcodeUnique(ctx, *input.Barcode, a.ID)
		if err != nil {
			return nil, apperr.Persistence(err, "check barcode")
		}
		if !unique {
			return nil, apperr.Invalid("barcode %s already exists", *input.Barcode)
		}
	}
	for id, v := range input.CustomFieldValues {
		if !inheritance.ValidCustomFieldValue(v) {
			return nil, apperr.Invalid("custom field %s has a malformed value", id)
		}
	}

	// Omitted fields keep their stored values; only present keys are applied.
	if input.Name != "" {
		a.Name = input.Name
	}
	if input.Manufacturer != nil {
		a.Manufacturer = optional(*input.Manufacturer)
	}
	if input.Model != nil {
		a.Model = optional(*input.Model)
	}
	if input.Description != nil {
		a.Description = optional(*input.Description)
	}
	if input.Barcode != nil {
		a.Barcode = optional(*input.Barcode)
	}
	if input.CustomFieldValues != nil {
		a.CustomFieldValues = input.CustomFieldValues
	}
	if input.Bookable != nil {
		a.Bookable = *input.Bookable
	}
	if input.WarrantyMonths != nil {
		a.WarrantyMonths = input.WarrantyMonths
	}
	a.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, apperr.Persistence(err, "update asset")
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), a)

	return a, nil
}

func (uc *assetUseCase) DeleteAsset(ctx context.Context, id string) error {
	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return apperr.Persistence(err, "load asset")
	}
	if a == nil {
		return nil // Already gone
	}
	if a.Grouped() {
		return apperr.Invalid("asset %s belongs to group %s and cannot be deleted directly", id, *a.GroupID)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return apperr.Persistence(err, "delete asset")
	}

	go uc.invalidateListCache(context.Background())
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), assetIndex, id); err != nil {
				uc.logger.Error("failed to delete asset from ES", zap.Error(err))
			}
		}()
	}

	return nil
}

func (uc *assetUseCase) searchElastic(ctx context.Context, filters *dto.AssetFilters) ([]model.Asset, int, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"name^3", "asset_number", "barcode", "manufacturer", "model", "description"},
			},
		},
	}
	if filters.AssetTypeID != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"asset_type_id": filters.AssetTypeID},
		})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
		"from": (filters.Page - 1) * filters.PageSize,
	}
	if filters.PageSize > 0 {
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, assetIndex, q)
	if err != nil {
		return nil, 0, err
	}

	var assets []model.Asset
	for _, hit := range res.Hits.Hits {
		var a model.Asset
		if err := json.Unmarshal(hit.Source, &a); err == nil {
			assets = append(assets, a)
		}
	}
	return assets, res.Hits.Total.Value, nil
}

func (uc *assetUseCase) syncToElastic(ctx context.Context, a *model.Asset) {
	if uc.es == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"asset_number": { "type": "keyword" },
				"name": { "type": "text" },
				"manufacturer": { "type": "text" },
				"model": { "type": "text" },
				"description": { "type": "text" },
				"barcode": { "type": "keyword" },
				"asset_type_id": { "type": "keyword" },
				"group_id": { "type": "keyword" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, assetIndex, mapping)

	if err := uc.es.Index(ctx, assetIndex, a.ID, a); err != nil {
		uc.logger.Error("failed to index asset", zap.Error(err))
	}
}

func (uc *assetUseCase) listCacheKey(filters *dto.AssetFilters) string {
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("assets:list:%x", md5.Sum(data))
}

func (uc *assetUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "assets:list:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
