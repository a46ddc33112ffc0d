// Package repository holds the MongoDB-backed stores. Each repository wraps
// one collection and translates driver errors into the shared domain errors.
package repository

import (
	"fmt"

	"projectmate-service/internal/models"
)

// storeErr tags an underlying driver failure as ErrStoreUnavailable while
// keeping the cause in the chain. The core never retries these; the caller
// decides.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrStoreUnavailable, err)
}
