package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gearstack/asset-service/internal/model"
	"github.com/gearstack/asset-service/internal/workorder/dto"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, wo *model.WorkOrder) error {
	query := `
        INSERT INTO work_orders (id, asset_id, title, description, status, priority,
            assigned_to, opened_by, due_at, closed_at, created_at, updated_at)
        VALUES (:id, :asset_id, :title, :description, :status, :priority,
            :assigned_to, :opened_by, :due_at, :closed_at, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, wo)
	return errors.Wrap(err, "insert work_order")
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.WorkOrder, error) {
	var wo model.WorkOrder
	err := r.DB.GetContext(ctx, &wo, `SELECT * FROM work_orders WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select work_order")
	}
	return &wo, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.WorkOrderFilters) ([]model.WorkOrder, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.AssetID != "" {
		conditions = append(conditions, "asset_id = :asset_id")
		args["asset_id"] = f.AssetID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.AssignedTo != "" {
		conditions = append(conditions, "assigned_to = :assigned_to")
		args["assigned_to"] = f.AssignedTo
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM work_orders"+whereClause, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count work_orders")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, errors.Wrap(err, "scan work_orders count")
		}
	}

	query := "SELECT * FROM work_orders" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "prepare work_orders query")
	}
	defer nstmt.Close()

	var orders []model.WorkOrder
	if err := nstmt.SelectContext(ctx, &orders, args); err != nil {
		return nil, 0, errors.Wrap(err, "select work_orders")
	}

	return orders, count, nil
}

func (r *PGRepository) Update(ctx context.Context, wo *model.WorkOrder) error {
	query := `
        UPDATE work_orders
        SET title = :title,
            description = :description,
            status = :status,
            priority = :priority,
            assigned_to = :assigned_to,
            due_at = :due_at,
            closed_at = :closed_at,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, wo)
	return errors.Wrap(err, "update work_order")
}
