// Package secrets redacts likely credentials from text before it reaches the payload.
package secrets

import (
	"fmt"
	"regexp"
	"strings"
)

// Redaction labels substituted in place of detected secret values. Each label
// must never match any detector that runs after the one emitting it; the
// composition test guards this invariant.
const (
	GenericRedactionLabel = "[REDACTED_SECRET]"
	OpenAIRedactionLabel  = "[REDACTED_OPENAI_KEY]"
	AWSRedactionLabel     = "[REDACTED_AWS_KEY]"
)

// Detector matches one secret shape and carries its fixed redaction label.
// When ValueGroup is set only the second capture group (the secret value) is
// replaced; otherwise the whole match is.
type Detector struct {
	Name       string
	Pattern    *regexp.Regexp
	Label      string
	ValueGroup bool
}

// DefaultDetectors returns the detector set in its fixed application order:
// generic key/value pairs, then the OpenAI key shape, then the AWS access
// key id shape.
func DefaultDetectors() []Detector {
	return []Detector{
		{
			Name:       "generic",
			Pattern:    regexp.MustCompile(`(?i)(api_?key|auth_?token|access_?key|secret|password)\s*[:=]\s*['"]([a-zA-Z0-9_\-]{8,})['"]`),
			Label:      GenericRedactionLabel,
			ValueGroup: true,
		},
		{
			Name:    "openai",
			Pattern: regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}T3BlbkFJ`),
			Label:   OpenAIRedactionLabel,
		},
		{
			Name:    "aws",
			Pattern: regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
			Label:   AWSRedactionLabel,
		},
	}
}

// Scanner applies an ordered detector list to text. Detectors are pure; the
// only side effect is one warning per file routed through the warn callback.
type Scanner struct {
	detectors []Detector
	warn      func(string)
}

// NewScanner constructs a Scanner over the provided detectors. A nil warn
// callback disables diagnostics.
func NewScanner(detectors []Detector, warn func(string)) *Scanner {
	if warn == nil {
		warn = func(string) {}
	}
	return &Scanner{detectors: detectors, warn: warn}
}

// Redact runs every detector in order over the evolving text and returns the
// sanitized result. The first match in a file emits a single warning tagged
// with filePath.
func (scanner *Scanner) Redact(content string, filePath string) string {
	sanitized := content
	foundSecret := false

	for _, detector := range scanner.detectors {
		replaced, matched := detector.apply(sanitized)
		if matched {
			foundSecret = true
			sanitized = replaced
		}
	}

	if foundSecret {
		scanner.warn(fmt.Sprintf("SECURITY ALERT: potential secret found in file: %s", filePath))
	}
	return sanitized
}

// apply returns the redacted text and whether the detector matched.
func (detector Detector) apply(input string) (string, bool) {
	if !detector.ValueGroup {
		if !detector.Pattern.MatchString(input) {
			return input, false
		}
		return detector.Pattern.ReplaceAllString(input, detector.Label), true
	}

	matchSpans := detector.Pattern.FindAllStringSubmatchIndex(input, -1)
	if len(matchSpans) == 0 {
		return input, false
	}

	var builder strings.Builder
	previousEnd := 0
	for _, span := range matchSpans {
		// Submatch index 2 holds the start/end pair of the second capture group.
		valueStart, valueEnd := span[4], span[5]
		if valueStart < 0 {
			continue
		}
		builder.WriteString(input[previousEnd:valueStart])
		builder.WriteString(detector.Label)
		previousEnd = valueEnd
	}
	builder.WriteString(input[previousEnd:])
	return builder.String(), true
}
