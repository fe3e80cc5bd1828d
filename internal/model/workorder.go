package model

import "time"

type WorkOrderStatus string

const (
	WorkOrderOpen       WorkOrderStatus = "open"
	WorkOrderInProgress WorkOrderStatus = "in_progress"
	WorkOrderBlocked    WorkOrderStatus = "blocked"
	WorkOrderCompleted  WorkOrderStatus = "completed"
	WorkOrderClosed     WorkOrderStatus = "closed"
	WorkOrderCanceled   WorkOrderStatus = "canceled"
)

type WorkOrder struct {
	BaseModel
	AssetID     string          `db:"asset_id" json:"asset_id"`
	Title       string          `db:"title" json:"title"`
	Description *string         `db:"description" json:"description"`
	Status      WorkOrderStatus `db:"status" json:"status"`
	Priority    string          `db:"priority" json:"priority"` // low | normal | high | urgent
	AssignedTo  *string         `db:"assigned_to" json:"assigned_to"`
	OpenedBy    string          `db:"opened_by" json:"opened_by"`
	DueAt       *time.Time      `db:"due_at" json:"due_at"`
	ClosedAt    *time.Time      `db:"closed_at" json:"closed_at"`
}
