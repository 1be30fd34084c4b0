package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// ContentLevel defines how much user and model text reaches the logs
type ContentLevel string

const (
	// ContentLevelNone redacts all user and model text
	ContentLevelNone ContentLevel = "none"
	// ContentLevelHashed keeps text but hashes recognizable PII
	ContentLevelHashed ContentLevel = "hashed"
	// ContentLevelFull performs no sanitization
	ContentLevelFull ContentLevel = "full"
)

var sensitiveHeaders = map[string]struct{}{
	"authorization":        {},
	"cookie":               {},
	"x-api-key":            {},
	"x-amz-security-token": {},
}

// Sanitizer scrubs free text (prefecture input, prompts, model output) before
// it is logged.
type Sanitizer struct {
	level ContentLevel
	salt  string

	emailPattern      *regexp.Regexp
	phonePattern      *regexp.Regexp
	creditCardPattern *regexp.Regexp
	ipv4Pattern       *regexp.Regexp
}

// NewSanitizer creates a sanitizer; salt keeps hashes stable per deployment.
func NewSanitizer(level ContentLevel, salt string) *Sanitizer {
	return &Sanitizer{
		level:             ParseContentLevel(string(level)),
		salt:              salt,
		emailPattern:      regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		phonePattern:      regexp.MustCompile(`\b0\d{1,4}[-\s]?\d{1,4}[-\s]?\d{4}\b`),
		creditCardPattern: regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`),
		ipv4Pattern:       regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
	}
}

// ParseContentLevel maps a config value to a level, defaulting to hashed.
func ParseContentLevel(raw string) ContentLevel {
	switch ContentLevel(strings.ToLower(strings.TrimSpace(raw))) {
	case ContentLevelNone:
		return ContentLevelNone
	case ContentLevelFull:
		return ContentLevelFull
	default:
		return ContentLevelHashed
	}
}

// Level returns the effective level.
func (s *Sanitizer) Level() ContentLevel {
	return s.level
}

// Text sanitizes user input or model output.
func (s *Sanitizer) Text(input string) string {
	switch s.level {
	case ContentLevelNone:
		return "[REDACTED]"
	case ContentLevelFull:
		return input
	default:
		return s.hashPII(input)
	}
}

// Headers returns a copy of headers with credentials masked. Header values
// other than credentials are not user content and pass through.
func (s *Sanitizer) Headers(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if _, ok := sensitiveHeaders[strings.ToLower(k)]; ok {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = v
	}
	return out
}

func (s *Sanitizer) hashPII(input string) string {
	result := s.emailPattern.ReplaceAllStringFunc(input, func(match string) string {
		return fmt.Sprintf("[EMAIL:%s]", s.hash(match))
	})
	result = s.creditCardPattern.ReplaceAllString(result, "[CC:REDACTED]")
	result = s.phonePattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[PHONE:%s]", s.hash(match))
	})
	result = s.ipv4Pattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[IP:%s]", s.hash(match))
	})
	return result
}

// hash returns the first 8 hex chars of a salted SHA-256.
func (s *Sanitizer) hash(data string) string {
	h := sha256.Sum256([]byte(data + s.salt))
	return hex.EncodeToString(h[:])[:8]
}
