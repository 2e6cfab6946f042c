package domain

import (
	"regexp"
	"strings"
)

// BrandUnknown is reported when no rule matches.
const BrandUnknown = "unknown"

type brandRule struct {
	brand    string
	patterns []*regexp.Regexp
}

// brandRules is evaluated top to bottom and the first match wins. Sixteen
// digit 4360, 4035, 4871, 4166 and 5454 numbers are claimed by the Visa and
// Mastercard rows before their own.
var brandRules = []brandRule{
	{"American Express", compile(`^3[47][0-9]{13}$`)},
	{"Diners", compile(`^3(?:0[0-5]|[68][0-9])[0-9]{11}$`)},
	{"Discover", compile(`^6011[0-9]{12}$`, `^65[0-9]{14}$`, `^64[4-9][0-9]{13}$`)},
	{"JCB", compile(`^35(2[89]|[3-8][0-9])[0-9]{12}$`)},
	{"Mastercard", compile(`^(5[1-5][0-9]{14}|2(2[2-9][0-9]{12}|[3-6][0-9]{13}|7[01][0-9]{12}|720[0-9]{12}))$`)},
	{"Visa", compile(`^4[0-9]{12}(?:[0-9]{3})?(?:[0-9]{3})?$`)},
	{"China UnionPay", compile(`^62[0-9]{14,17}$`)},
	{"Cartes Bancaires", compile(`^4360[0-9]{12}$`)},
	{"Cartes Bancaires / Visa Debit", compile(`^4035[0-9]{12}$`)},
	{"Bancontact / Visa", compile(`^4871[0-9]{12}$`)},
	{"Bancontact / Maestro", compile(`^6703[0-9]{12}$`)},
	{"Visa Classic", compile(`^4166[0-9]{12}$`)},
	{"Mastercard", compile(`^5454[0-9]{12}$`)},
	{"Mastercard Credit", compile(`^2222[0-9]{12}$`)},
}

func compile(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(expr)
	}
	return patterns
}

// BrandOf classifies a card number, ignoring spaces.
func BrandOf(number string) string {
	number = strings.ReplaceAll(number, " ", "")
	for _, rule := range brandRules {
		for _, p := range rule.patterns {
			if p.MatchString(number) {
				return rule.brand
			}
		}
	}
	return BrandUnknown
}
