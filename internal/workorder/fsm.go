// Package workorder implements maintenance work orders and their status
// workflow. Transitions outside the table below are validation failures.
package workorder

import (
	"github.com/gearstack/asset-service/internal/apperr"
	"github.com/gearstack/asset-service/internal/model"
)

// transitions is the allowed next-status table. Terminal states (closed,
// canceled) have no outgoing edges.
var transitions = map[model.WorkOrderStatus][]model.WorkOrderStatus{
	model.WorkOrderOpen:       {model.WorkOrderInProgress, model.WorkOrderCanceled},
	model.WorkOrderInProgress: {model.WorkOrderBlocked, model.WorkOrderCompleted, model.WorkOrderCanceled},
	model.WorkOrderBlocked:    {model.WorkOrderInProgress, model.WorkOrderCanceled},
	model.WorkOrderCompleted:  {model.WorkOrderClosed, model.WorkOrderInProgress},
}

// CanTransition reports whether from -> to is an allowed edge.
func CanTransition(from, to model.WorkOrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the legal next statuses from the given one.
func AllowedTransitions(from model.WorkOrderStatus) []model.WorkOrderStatus {
	return transitions[from]
}

// EnsureTransition validates a requested status change.
func EnsureTransition(from, to model.WorkOrderStatus) error {
	if from == to {
		return apperr.Invalid("work order is already %s", from)
	}
	if !CanTransition(from, to) {
		return apperr.Invalid("cannot transition work order from %s to %s", from, to)
	}
	return nil
}
