package decimal

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ramirent/faktura-extract/internal/model"
)

// thousandsSpace matches exactly one ASCII or non-breaking space between
// groups of 3 digits, e.g. the space in "167 715,20" or "1 072 715".
var thousandsSpace = regexp.MustCompile(`(\d)[ \x{00A0}](\d{3})`)

// NormalizeSwedishAmount converts a Swedish-formatted amount string to a
// signed decimal with 2 fractional digits (spec §9 "Swedish number
// normalisation").
//
// Steps, in order:
//  1. Strip outer whitespace.
//  2. If the token ends with "-", move the sign to the front.
//  3. Remove thousand-separator spaces (exactly one space between groups
//     of 3 digits).
//  4. If both "," and "." appear, the last one is the decimal separator;
//     the other is a thousands separator and is removed.
//  5. If only "," appears, it is the decimal separator.
//  6. Parse the remainder as a fixed-point decimal with 2 fractional
//     digits.
//
// Any step failing returns a *model.NormalizationError; callers treat
// that as "not an amount".
func NormalizeSwedishAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, &model.NormalizationError{Input: raw, Reason: "empty input"}
	}

	negative := false
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
		s = strings.TrimSpace(s)
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}
	if s == "" {
		return decimal.Zero, &model.NormalizationError{Input: raw, Reason: "sign with no digits"}
	}

	for thousandsSpace.MatchString(s) {
		s = thousandsSpace.ReplaceAllString(s, "$1$2")
	}

	commaIdx := strings.LastIndex(s, ",")
	dotIdx := strings.LastIndex(s, ".")

	switch {
	case commaIdx != -1 && dotIdx != -1:
		if commaIdx > dotIdx {
			// comma is the decimal separator; dot(s) before it are
			// thousands separators
			s = strings.ReplaceAll(s[:commaIdx], ".", "") + "." + s[commaIdx+1:]
		} else {
			// dot is the decimal separator; comma(s) before it are
			// thousands separators
			s = strings.ReplaceAll(s[:dotIdx], ",", "") + s[dotIdx:]
		}
	case commaIdx != -1:
		s = s[:commaIdx] + "." + s[commaIdx+1:]
	}

	if !amountShapeRe.MatchString(s) {
		return decimal.Zero, &model.NormalizationError{Input: raw, Reason: "not a recognisable amount"}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &model.NormalizationError{Input: raw, Reason: err.Error()}
	}
	d = d.Round(2)
	if negative {
		d = d.Neg()
	}
	return d, nil
}

var amountShapeRe = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
