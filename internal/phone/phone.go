// internal/phone/phone.go
package phone

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Dialect turns free-form phone strings into the forms stored records may use
// under one numbering plan.
type Dialect interface {
	Region() string
	Normalize(input string) string
	Variants(input string) []string
}

// MinDigits is the fewest digits a usable phone number carries.
const MinDigits = 8

// Plan is a Dialect described by numbering-plan parameters.
type Plan struct {
	RegionCode  string
	CountryCode string
	TrunkPrefix string
	// Stripped numbers longer than this are assumed to already carry the country code.
	MaxLocalLength int
}

// CoteDIvoire is the default plan: +225, trunk prefix 0, ten-digit national numbers.
var CoteDIvoire = Plan{RegionCode: "CI", CountryCode: "225", TrunkPrefix: "0", MaxLocalLength: 9}

func (p Plan) Region() string {
	return p.RegionCode
}

// Normalize strips separators and adds a leading "+" to numbers long enough to
// contain a country code.
func (p Plan) Normalize(input string) string {
	cleaned := Strip(input)
	if cleaned == "" || strings.HasPrefix(cleaned, "+") {
		return cleaned
	}
	if utf8.RuneCountInString(cleaned) > p.MaxLocalLength {
		return "+" + cleaned
	}
	return cleaned
}

// Variants returns the ordered, de-duplicated set of forms considered equivalent
// to input. Blank input yields an empty set; any other input yields at least the
// raw input itself.
func (p Plan) Variants(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	set := newVariantSet()
	set.add(input)

	normalized := p.Normalize(input)
	set.add(normalized)
	bare := strings.TrimPrefix(normalized, "+")
	set.addWithPlus(bare)

	digits := Digits(input)
	if p.CountryCode != "" && strings.HasPrefix(digits, p.CountryCode) {
		set.addWithPlus(digits)
	}
	if p.CountryCode != "" && p.TrunkPrefix != "" && strings.HasPrefix(digits, p.TrunkPrefix) {
		// Older records dropped the trunk zero, newer ones keep it after the country code.
		set.addWithPlus(p.CountryCode + strings.TrimPrefix(digits, p.TrunkPrefix))
		set.addWithPlus(p.CountryCode + digits)
	}

	return set.values
}

// Strip removes whitespace, hyphens and parentheses.
func Strip(input string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, input)
}

// Digits keeps only ASCII digits.
func Digits(input string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)
}

// Normalize applies the default plan.
func Normalize(input string) string {
	return CoteDIvoire.Normalize(input)
}

// Variants applies the default plan.
func Variants(input string) []string {
	return CoteDIvoire.Variants(input)
}

type variantSet struct {
	seen   map[string]struct{}
	values []string
}

func newVariantSet() *variantSet {
	return &variantSet{seen: make(map[string]struct{})}
}

func (s *variantSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}

func (s *variantSet) addWithPlus(bare string) {
	if bare == "" {
		return
	}
	s.add(bare)
	s.add("+" + bare)
}
