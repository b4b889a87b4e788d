// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"regexp"
	"strings"
	"testing"
)

func TestRedactEmail(t *testing.T) {
	s := NewSanitizer()
	got := s.RedactText("contact a@b.com")
	if got != "contact [EMAIL]" {
		t.Errorf("got %q", got)
	}
}

func TestRedactRules(t *testing.T) {
	s := NewSanitizer()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "local mobile",
			in:   "llámame al 9 8765 4321 hoy",
			want: "llámame al [PHONE] hoy",
		},
		{
			name: "international phone",
			in:   "fono +56 9 8765 4321",
			// The local-format rule wins on the subscriber digits; the
			// country prefix alone carries no subscriber identity.
			want: "fono +56 [PHONE]",
		},
		{
			name: "card number",
			in:   "pagó con 4111 1111 1111 1111 ayer",
			want: "pagó con [CARD] ayer",
		},
		{
			name: "national id",
			in:   "su RUT es 12345678",
			want: "su RUT es [ID_NUMBER]",
		},
		{
			name: "street address",
			in:   "vive en calle Moneda 1152 depto 4 con su familia",
			want: "vive en [ADDRESS] con su familia",
		},
		{
			name: "avenue abbreviation",
			in:   "oficina en Av. Providencia 2594",
			want: "oficina en [ADDRESS]",
		},
		{
			name: "clean text untouched",
			in:   "La participante describe demoras al agendar una hora médica.",
			want: "La participante describe demoras al agendar una hora médica.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.RedactText(tt.in); got != tt.want {
				t.Errorf("RedactText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Phone patterns must run before the bare digit-run pattern, or a number with
// a country prefix degrades into an ID mask.
func TestRedactOrderPhoneBeforeIDNumber(t *testing.T) {
	s := NewSanitizer()
	got := s.RedactText("contacto: +56 223456789")
	if !strings.Contains(got, "[PHONE]") {
		t.Errorf("expected phone mask, got %q", got)
	}
	if strings.Contains(got, "[ID_NUMBER]") {
		t.Errorf("digit-run rule preempted the phone rule: %q", got)
	}
}

func TestRedactIsIdempotent(t *testing.T) {
	s := NewSanitizer()
	inputs := []string{
		"contact a@b.com",
		"fono +56 9 8765 4321, RUT 12345678",
		"vive en calle Moneda 1152 depto 4, código 832000",
		"texto sin datos personales",
		"maria.rojas@example.cl y pedro@example.org",
	}
	for _, in := range inputs {
		once := s.RedactText(in)
		twice := s.RedactText(once)
		if once != twice {
			t.Errorf("redaction not idempotent for %q:\n once=%q\ntwice=%q", in, once, twice)
		}
	}
}

func TestRedactCountsMaskedTokens(t *testing.T) {
	s := NewSanitizer()
	in := "a@b.com y c@d.org, fono 9 8765 4321"
	result := s.Redact(in)
	if result.MaskedTokens != 3 {
		t.Errorf("expected 3 masked tokens, got %d", result.MaskedTokens)
	}
	if result.OriginalLength != len(in) {
		t.Errorf("original length = %d, want %d", result.OriginalLength, len(in))
	}
}

func TestContainsPII(t *testing.T) {
	s := NewSanitizer()
	if !s.ContainsPII("escríbeme a a@b.com") {
		t.Error("email not detected")
	}
	if s.ContainsPII("resumen de la sesión sin datos sensibles") {
		t.Error("false positive on clean text")
	}
}

// Rule order is data, not code: a deployment that wants postal codes masked as
// such puts that rule ahead of the generic digit-run rule.
func TestCustomRuleOrder(t *testing.T) {
	defaults := DefaultRedactionRules()
	reordered := make([]RedactionRule, 0, len(defaults))
	reordered = append(reordered, RedactionRule{
		Name:    "postal_code",
		Pattern: regexp.MustCompile(`\b\d{6}\b`),
		Mask:    "[POSTAL_CODE]",
	})
	for _, rule := range defaults {
		if rule.Name != "postal_code" {
			reordered = append(reordered, rule)
		}
	}

	def := NewSanitizer().RedactText("vive cerca del 832000")
	if !strings.Contains(def, "[ID_NUMBER]") {
		t.Errorf("default order should mask bare six digits as ID: %q", def)
	}
	custom := NewSanitizerWithRules(reordered).RedactText("vive cerca del 832000")
	if !strings.Contains(custom, "[POSTAL_CODE]") {
		t.Errorf("custom order should mask as postal code: %q", custom)
	}
}
