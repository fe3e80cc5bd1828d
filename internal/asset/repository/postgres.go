package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gearstack/asset-service/internal/asset/dto"
	"github.com/gearstack/asset-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, a *model.Asset) error {
	query := `
        INSERT INTO assets (id, asset_number, name, asset_type_id, asset_type_name,
            manufacturer, model, description, barcode, qr_code, custom_field_values,
            field_sources, group_id, group_number, group_name, is_kit_parent,
            bookable, warranty_months, created_at, updated_at)
        VALUES (:id, :asset_number, :name, :asset_type_id, :asset_type_name,
            :manufacturer, :model, :description, :barcode, :qr_code, :custom_field_values,
            :field_sources, :group_id, :group_number, :group_name, :is_kit_parent,
            :bookable, :warranty_months, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, a)
	return errors.Wrap(err, "insert asset")
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Asset, error) {
	var a model.Asset
	err := r.DB.GetContext(ctx, &a, `SELECT * FROM assets WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select asset")
	}
	return &a, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.AssetFilters) ([]model.Asset, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.AssetTypeID != "" {
		conditions = append(conditions, "asset_type_id = :asset_type_id")
		args["asset_type_id"] = f.AssetTypeID
	}
	if f.GroupID != "" {
		conditions = append(conditions, "group_id = :group_id")
		args["group_id"] = f.GroupID
	}
	if f.Ungrouped {
		conditions = append(conditions, "group_id IS NULL")
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR asset_number ILIKE :search OR barcode ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM assets"+whereClause, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count assets")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, errors.Wrap(err, "scan assets count")
		}
	}

	query := "SELECT * FROM assets" + whereClause + " ORDER BY asset_number ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "prepare assets query")
	}
	defer nstmt.Close()

	var assets []model.Asset
	if err := nstmt.SelectContext(ctx, &assets, args); err != nil {
		return nil, 0, errors.Wrap(err, "select assets")
	}

	return assets, count, nil
}

func (r *PGRepository) Update(ctx context.Context, a *model.Asset) error {
	query := `
        UPDATE assets
        SET name = :name,
            manufacturer = :manufacturer,
            model = :model,
            description = :description,
            barcode = :barcode,
            qr_code = :qr_code,
            custom_field_values = :custom_field_values,
            field_sources = :field_sources,
            group_id = :group_id,
            group_number = :group_number,
            group_name = :group_name,
            is_kit_parent = :is_kit_parent,
            bookable = :bookable,
            warranty_months = :warranty_months,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, a)
	return errors.Wrap(err, "update asset")
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	return errors.Wrap(err, "delete asset")
}

func (r *PGRepository) IsAssetNumberUnique(ctx context.Context, assetNumber, excludeID string) (bool, error) {
	var count int
	err := r.DB.GetContext(ctx, &count,
		`SELECT count(*) FROM assets WHERE asset_number = $1 AND id != $2`, assetNumber, excludeID)
	if err != nil {
		return false, errors.Wrap(err, "check asset_number uniqueness")
	}
	return count == 0, nil
}

func (r *PGRepository) IsBarcodeUnique(ctx context.Context, barcode, excludeID string) (bool, error) {
	var count int
	err := r.DB.GetContext(ctx, &count,
		`SELECT count(*) FROM assets WHERE barcode = $1 AND id != $2`, barcode, excludeID)
	if err != nil {
		return false, errors.Wrap(err, "check barcode uniqueness")
	}
	return count == 0, nil
}
