package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gearstack/asset-service/internal/group/dto"
	"github.com/gearstack/asset-service/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const groupColumns = `
    id, group_number, name, barcode, asset_type_id, asset_type_name,
    manufacturer, model, description, inheritance_rules, custom_field_rules,
    shared_custom_fields, member_asset_ids, member_count,
    default_warranty_months, default_bookable, created_at, updated_at
`

func (r *PGRepository) Create(ctx context.Context, g *model.AssetGroup) error {
	query := `
        INSERT INTO asset_groups (` + groupColumns + `)
        VALUES (:id, :group_number, :name, :barcode, :asset_type_id, :asset_type_name,
                :manufacturer, :model, :description, :inheritance_rules, :custom_field_rules,
                :shared_custom_fields, :member_asset_ids, :member_count,
                :default_warranty_months, :default_bookable, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, g)
	return errors.Wrap(err, "insert asset_group")
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.AssetGroup, error) {
	var g model.AssetGroup
	err := r.DB.GetContext(ctx, &g, `SELECT * FROM asset_groups WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select asset_group")
	}
	return &g, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.GroupFilters) ([]model.AssetGroup, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.AssetTypeID != "" {
		conditions = append(conditions, "asset_type_id = :asset_type_id")
		args["asset_type_id"] = f.AssetTypeID
	}
	if f.Search != "" {
		conditions = append(conditions, "(name ILIKE :search OR group_number ILIKE :search)")
		args["search"] = "%" + f.Search + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM asset_groups"+whereClause, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count asset_groups")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, errors.Wrap(err, "scan asset_groups count")
		}
	}

	query := "SELECT * FROM asset_groups" + whereClause + " ORDER BY name ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "prepare asset_groups query")
	}
	defer nstmt.Close()

	var groups []model.AssetGroup
	if err := nstmt.SelectContext(ctx, &groups, args); err != nil {
		return nil, 0, errors.Wrap(err, "select asset_groups")
	}

	return groups, count, nil
}

func (r *PGRepository) Update(ctx context.Context, g *model.AssetGroup) error {
	query := `
        UPDATE asset_groups
        SET group_number = :group_number,
            name = :name,
            manufacturer = :manufacturer,
            model = :model,
            description = :description,
            inheritance_rules = :inheritance_rules,
            custom_field_rules = :custom_field_rules,
            shared_custom_fields = :shared_custom_fields,
            member_asset_ids = :member_asset_ids,
            member_count = :member_count,
            default_warranty_months = :default_warranty_months,
            default_bookable = :default_bookable,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, g)
	return errors.Wrap(err, "update asset_group")
}

// BulkCreateForGroup clones the base template count times inside one
// transaction and appends the new ids to the group's member list. Asset
// numbers are derived from the group number so batch members sort together.
func (r *PGRepository) BulkCreateForGroup(ctx context.Context, groupID string, count int, base *model.Asset) ([]model.Asset, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin bulk create")
	}
	defer tx.Rollback()

	var g model.AssetGroup
	if err := tx.GetContext(ctx, &g, `SELECT * FROM asset_groups WHERE id = $1 FOR UPDATE`, groupID); err != nil {
		return nil, errors.Wrap(err, "lock asset_group")
	}

	numberPrefix := g.Barcode
	if g.GroupNumber != nil && *g.GroupNumber != "" {
		numberPrefix = *g.GroupNumber
	}

	insert := `
        INSERT INTO assets (id, asset_number, name, asset_type_id, asset_type_name,
            manufacturer, model, description, barcode, qr_code, custom_field_values,
            field_sources, group_id, group_number, group_name, is_kit_parent,
            bookable, warranty_months, created_at, updated_at)
        VALUES (:id, :asset_number, :name, :asset_type_id, :asset_type_name,
            :manufacturer, :model, :description, :barcode, :qr_code, :custom_field_values,
            :field_sources, :group_id, :group_number, :group_name, :is_kit_parent,
            :bookable, :warranty_months, :created_at, :updated_at)
    `

	now := time.Now()
	created := make([]model.Asset, 0, count)
	for i := 0; i < count; i++ {
		a := *base
		a.ID = uuid.New().String()
		a.AssetNumber = fmt.Sprintf("%s-%03d", numberPrefix, g.MemberCount+i+1)
		a.CreatedAt = now
		a.UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insert, &a); err != nil {
			return nil, errors.Wrap(err, "insert bulk asset")
		}
		created = append(created, a)
	}

	ids := make([]string, len(created))
	for i, a := range created {
		ids[i] = a.ID
	}
	_, err = tx.ExecContext(ctx, `
        UPDATE asset_groups
        SET member_asset_ids = member_asset_ids || $1,
            member_count = cardinality(member_asset_ids || $1),
            updated_at = $2
        WHERE id = $3
    `, pq.Array(ids), now, groupID)
	if err != nil {
		return nil, errors.Wrap(err, "append bulk members")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit bulk create")
	}
	return created, nil
}

// ReassignToGroup moves an asset between groups in one transaction, keeping
// both member lists and counts consistent.
func (r *PGRepository) ReassignToGroup(ctx context.Context, assetID, fromGroupID, toGroupID string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin reassign")
	}
	defer tx.Rollback()

	var target model.AssetGroup
	if err := tx.GetContext(ctx, &target, `SELECT * FROM asset_groups WHERE id = $1 FOR UPDATE`, toGroupID); err != nil {
		return errors.Wrap(err, "lock target group")
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
        UPDATE asset_groups
        SET member_asset_ids = array_remove(member_asset_ids, $1),
            member_count = cardinality(array_remove(member_asset_ids, $1)),
            updated_at = $2
        WHERE id = $3
    `, assetID, now, fromGroupID)
	if err != nil {
		return errors.Wrap(err, "detach member")
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE asset_groups
        SET member_asset_ids = array_append(array_remove(member_asset_ids, $1), $1),
            member_count = cardinality(array_append(array_remove(member_asset_ids, $1), $1)),
            updated_at = $2
        WHERE id = $3
    `, assetID, now, toGroupID)
	if err != nil {
		return errors.Wrap(err, "attach member")
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE assets
        SET group_id = $1, group_number = $2, group_name = $3, updated_at = $4
        WHERE id = $5
    `, toGroupID, target.GroupNumber, target.Name, now, assetID)
	if err != nil {
		return errors.Wrap(err, "update asset back-reference")
	}

	return errors.Wrap(tx.Commit(), "commit reassign")
}
