package normalize

import (
	"strings"
	"time"
)

// ISODate is the only date layout accepted anywhere in a bill or code pack.
const ISODate = "2006-01-02"

// ParseDate parses a strict ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	return time.Parse(ISODate, strings.TrimSpace(s))
}
