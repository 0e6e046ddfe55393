package app

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Page is one window of a filtered listing plus the unwindowed total.
type Page[T any] struct {
	Total int
	Items []T
}

const maxPageSize = 100

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func shortID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
}

// BK + yyyymmdd + 6 hex chars, e.g. BK20240601A1B2C3.
func newBookingReference(now time.Time) string {
	return "BK" + now.Format("20060102") + shortID()
}

// TXN + yyyymmddHHMMSS + 6 hex chars.
func newTransactionID(now time.Time) string {
	return "TXN" + now.Format("20060102150405") + shortID()
}
