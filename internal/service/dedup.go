package service

import (
	"math"
	"strings"
	"time"

	"finsight/internal/models"
)

// HeuristicDuplicate reports whether a candidate row matches an existing
// transaction on the preview heuristic: same calendar date, same description
// after trimming and case folding, and original amounts within a cent.
//
// This is a preview heuristic for bulk import; the storage layer's composite
// uniqueness constraint is the authoritative dedup. Legitimately repeated
// transactions (two identical taxi rides the same day) are indistinguishable
// under this key and get flagged as duplicates.
func HeuristicDuplicate(date time.Time, description string, amount float64, existing []*models.Transaction) bool {
	desc := strings.ToLower(strings.TrimSpace(description))
	y, m, d := date.Date()

	for _, tx := range existing {
		ey, em, ed := tx.Date.Date()
		if ey != y || em != m || ed != d {
			continue
		}
		if strings.ToLower(strings.TrimSpace(tx.Description)) != desc {
			continue
		}
		if math.Abs(tx.OriginalAmount-amount) < 0.01 {
			return true
		}
	}
	return false
}
