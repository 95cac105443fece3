package core

import (
	"strconv"
	"strings"
)

// FormatAmount renders an amount the way it is shown to customers: the
// shortest exact decimal form, keeping one fractional digit for whole
// numbers (5 -> "5.0", 2.75 -> "2.75", -3 -> "-3.0").
func FormatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
