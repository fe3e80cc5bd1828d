package dto

import "time"

type CreateWorkOrderInput struct {
	AssetID     string     `json:"asset_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"` // Defaults to normal
	AssignedTo  *string    `json:"assigned_to"`
	DueAt       *time.Time `json:"due_at"`
	OpenedBy    string     `json:"-"` // Filled from the auth context
}

type TransitionInput struct {
	Status string `json:"status" binding:"required"`
}
