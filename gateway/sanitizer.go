// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package gateway

import "regexp"

// RedactionRule is one ordered substitution of the sanitizer pipeline.
// Order is load-bearing: more specific patterns must run before looser numeric
// ones, or a phone fragment gets double-masked as an ID number.
type RedactionRule struct {
	Name    string
	Pattern *regexp.Regexp
	Mask    string
}

// DefaultRedactionRules returns the platform's redaction pipeline in its
// pinned order. Mask tokens contain no digits or @, so re-running the pipeline
// over its own output is a no-op.
func DefaultRedactionRules() []RedactionRule {
	return []RedactionRule{
		{
			Name:    "email",
			Pattern: regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
			Mask:    "[EMAIL]",
		},
		{
			// Local dialing-code form: mobile numbers as dialed in-country.
			Name:    "phone_local",
			Pattern: regexp.MustCompile(`\b9[\s.-]?\d{4}[\s.-]?\d{4}\b`),
			Mask:    "[PHONE]",
		},
		{
			// Generic international grouping with a country prefix.
			Name:    "phone_intl",
			Pattern: regexp.MustCompile(`\+\d{1,3}(?:[\s.-]?\d{1,4}){2,4}`),
			Mask:    "[PHONE]",
		},
		{
			Name:    "card",
			Pattern: regexp.MustCompile(`\b(?:\d{4}[\s-]?){3}\d{4}\b`),
			Mask:    "[CARD]",
		},
		{
			// National-ID-like bare digit runs.
			Name:    "id_number",
			Pattern: regexp.MustCompile(`\b\d{6,10}\b`),
			Mask:    "[ID_NUMBER]",
		},
		{
			Name: "address",
			Pattern: regexp.MustCompile(
				`(?i)\b(?:calle|avenida|av\.?|pasaje|psje\.?|camino)\s+[^\d\n,]{0,40}\d{1,5}(?:\s*,?\s*(?:depto\.?|dpto\.?|apto\.?|of\.?|casa|piso)\s*\w{1,6})?`),
			Mask: "[ADDRESS]",
		},
		{
			// Bare 6-digit runs left over by the rules above.
			Name:    "postal_code",
			Pattern: regexp.MustCompile(`\b\d{6}\b`),
			Mask:    "[POSTAL_CODE]",
		},
	}
}

// SanitizationResult reports one redaction pass. Only Redacted propagates
// downstream; the result itself is never persisted.
type SanitizationResult struct {
	OriginalLength int
	Redacted       string
	MaskedTokens   int
}

// Sanitizer redacts personally identifiable information from free text before
// it is stored or logged. This is defense in depth, not certified
// anonymization: residual leakage through unmodeled formats is accepted at
// this layer.
type Sanitizer struct {
	rules []RedactionRule
}

// NewSanitizer creates a sanitizer with the default rule order.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{rules: DefaultRedactionRules()}
}

// NewSanitizerWithRules creates a sanitizer with an explicit rule order.
func NewSanitizerWithRules(rules []RedactionRule) *Sanitizer {
	return &Sanitizer{rules: rules}
}

// Redact runs the substitution pipeline over text.
func (s *Sanitizer) Redact(text string) SanitizationResult {
	result := SanitizationResult{OriginalLength: len(text), Redacted: text}
	for _, rule := range s.rules {
		matches := rule.Pattern.FindAllStringIndex(result.Redacted, -1)
		if len(matches) == 0 {
			continue
		}
		result.MaskedTokens += len(matches)
		result.Redacted = rule.Pattern.ReplaceAllString(result.Redacted, rule.Mask)
		promRedactionsTotal.WithLabelValues(rule.Name).Add(float64(len(matches)))
	}
	return result
}

// RedactText is Redact returning only the redacted text.
func (s *Sanitizer) RedactText(text string) string {
	return s.Redact(text).Redacted
}

// ContainsPII reports whether any rule would fire, without running the full
// substitution. Used to gate verbose diagnostic logging cheaply.
func (s *Sanitizer) ContainsPII(text string) bool {
	for _, rule := range s.rules {
		if rule.Pattern.MatchString(text) {
			return true
		}
	}
	return false
}
