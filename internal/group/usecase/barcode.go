package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gearstack/asset-service/internal/apperr"
	"github.com/gearstack/asset-service/internal/group/dto"
)

// Group barcodes live in a dedicated numeric range above the per-asset
// range so a scan can tell them apart.
const (
	groupBarcodeBase  = 7_000_000
	groupBarcodeWidth = 8
)

// NextGroupBarcode returns the first unused barcode at or above the base,
// zero-padded to a fixed width. It scans existing groups rather than
// holding a counter, so concurrent callers can race; the duplicate then
// surfaces as a unique-constraint failure on insert, not here.
func (uc *groupUseCase) NextGroupBarcode(ctx context.Context) (string, error) {
	groups, _, err := uc.repo.FindAll(ctx, &dto.GroupFilters{})
	if err != nil {
		return "", apperr.Persistence(err, "scan group barcodes")
	}

	used := make(map[int]bool, len(groups))
	for _, g := range groups {
		if n, err := strconv.Atoi(g.Barcode); err == nil {
			used[n] = true
		}
	}

	next := groupBarcodeBase
	for used[next] {
		next++
	}
	return fmt.Sprintf("%0*d", groupBarcodeWidth, next), nil
}
