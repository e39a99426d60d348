package utils

import (
	"fmt"
	"strings"
)

// sizeUnitSuffixes lists the lower-case unit suffixes from bytes upward.
var sizeUnitSuffixes = []string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders byteCount as a compact lower-case size string for
// skip warnings. Scaled values below 10 keep one fractional digit with a
// trailing ".0" trimmed.
func FormatFileSize(byteCount int64) string {
	if byteCount < 1024 {
		if byteCount < 0 {
			byteCount = 0
		}
		return fmt.Sprintf("%db", byteCount)
	}

	scaledValue := float64(byteCount)
	suffixIndex := 0
	for scaledValue >= 1024 && suffixIndex < len(sizeUnitSuffixes)-1 {
		scaledValue /= 1024
		suffixIndex++
	}

	if scaledValue < 10 {
		compactValue := strings.TrimSuffix(fmt.Sprintf("%.1f", scaledValue), ".0")
		return compactValue + sizeUnitSuffixes[suffixIndex]
	}
	return fmt.Sprintf("%.0f%s", scaledValue, sizeUnitSuffixes[suffixIndex])
}
