package dto

type WorkOrderFilters struct {
	AssetID    string
	Status     string
	AssignedTo string
	Page       int
	PageSize   int
}
