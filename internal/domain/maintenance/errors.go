package maintenance

import "errors"

var (
	// ErrNotFound means the asset has no valid service history. Callers treat it as "no prior state".
	ErrNotFound = errors.New("no valid service record for asset")

	ErrAssetIDRequired     = errors.New("asset id is required")
	ErrInvalidServiceDate  = errors.New("invalid service date")
	ErrInvalidServiceLevel = errors.New("invalid service level")
)
