package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var moneyCleaner = strings.NewReplacer("$", "", ",", "")

// ParseMoney parses a monetary string like "$1,200.00" or "1200" into
// integer cents. A leading currency symbol and thousands separators are
// tolerated. Negative amounts are rejected.
func ParseMoney(s string) (int64, error) {
	cleaned := strings.TrimSpace(moneyCleaner.Replace(s))
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative amount %q", s)
	}
	return int64(math.Round(v * 100)), nil
}

// FormatCents formats integer cents as $X,XXX.XX.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	dollars := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	lead := len(dollars) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(dollars[:lead])
	for i := lead; i < len(dollars); i += 3 {
		b.WriteByte(',')
		b.WriteString(dollars[i : i+3])
	}

	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), cents%100)
}
