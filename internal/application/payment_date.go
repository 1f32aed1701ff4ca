package application

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Accepted ISO-8601 date-time forms. Values without an offset are read as UTC.
var paymentDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// resolvePaymentDate parses a client-supplied timestamp. Missing or malformed values fall
// back to now; a bad timestamp never aborts a payment.
func resolvePaymentDate(raw string, now time.Time, log *zap.Logger) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now
	}

	for _, layout := range paymentDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}

	log.Warn("unparseable payment date, using server time", zap.String("payment_date", raw))
	return now
}
