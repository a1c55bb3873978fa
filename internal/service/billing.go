package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/kvadrat/estate_go_server/internal/model"
)

// AddBillingPeriod returns the end of the access window opened at t.
// Calendar arithmetic, not a fixed day count: monthly advances one calendar
// month, yearly one calendar year. When the source day does not exist in the
// target month the date clamps to that month's last day (Jan 31 + 1 month =
// Feb 28, or Feb 29 in a leap year).
func AddBillingPeriod(t time.Time, period string) time.Time {
	switch period {
	case model.PeriodYearly:
		return addMonthsClamped(t, 12)
	default:
		return addMonthsClamped(t, 1)
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()

	// Anchor on the first of the target month; time.Date normalizes month
	// overflow safely there.
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > lastDay {
		d = lastDay
	}

	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// newTransactionRef issues a gateway-facing payment reference. Uniqueness is
// additionally enforced by the payments.transaction_ref index.
func newTransactionRef() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("txn_%d", time.Now().UnixNano())
	}
	return "txn_" + hex.EncodeToString(buf)
}
