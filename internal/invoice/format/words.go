package format

import "strings"

var (
	englishOnes = []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven",
		"eight", "nine", "ten", "eleven", "twelve", "thirteen", "fourteen",
		"fifteen", "sixteen", "seventeen", "eighteen", "nineteen",
	}
	englishTens = []string{
		"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy",
		"eighty", "ninety",
	}
	// Seven groups cover every int64 value.
	englishScales = []string{
		"", "thousand", "million", "billion", "trillion", "quadrillion",
		"quintillion",
	}

	indonesianUnits = []string{
		"", "satu", "dua", "tiga", "empat", "lima", "enam", "tujuh",
		"delapan", "sembilan", "sepuluh", "sebelas",
	}
)

// EnglishWords spells out a nonnegative integer in English.
func EnglishWords(n int64) string {
	if n == 0 {
		return "zero"
	}
	if n < 0 {
		return "minus " + EnglishWords(-n)
	}

	var groups []int64
	for n > 0 {
		groups = append(groups, n%1000)
		n /= 1000
	}

	var parts []string
	for i := len(groups) - 1; i >= 0; i-- {
		if groups[i] == 0 {
			continue
		}
		part := englishBelowThousand(groups[i])
		if englishScales[i] != "" {
			part += " " + englishScales[i]
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

func englishBelowThousand(n int64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, englishOnes[n/100]+" hundred")
		n %= 100
	}
	if n >= 20 {
		tens := englishTens[n/10]
		if n%10 != 0 {
			tens += "-" + englishOnes[n%10]
		}
		parts = append(parts, tens)
	} else if n > 0 {
		parts = append(parts, englishOnes[n])
	}
	return strings.Join(parts, " ")
}

// Terbilang spells out a nonnegative integer in Indonesian.
func Terbilang(n int64) string {
	if n == 0 {
		return "nol"
	}
	if n < 0 {
		return "minus " + Terbilang(-n)
	}
	return strings.Join(terbilangParts(n), " ")
}

func terbilangParts(n int64) []string {
	switch {
	case n < 12:
		return []string{indonesianUnits[n]}
	case n < 20:
		return append(terbilangParts(n-10), "belas")
	case n < 100:
		return append(append(terbilangParts(n/10), "puluh"), tail(n%10)...)
	case n < 200:
		return append([]string{"seratus"}, tail(n-100)...)
	case n < 1000:
		return append(append(terbilangParts(n/100), "ratus"), tail(n%100)...)
	case n < 2000:
		return append([]string{"seribu"}, tail(n-1000)...)
	case n < 1_000_000:
		return append(append(terbilangParts(n/1000), "ribu"), tail(n%1000)...)
	case n < 1_000_000_000:
		return append(append(terbilangParts(n/1_000_000), "juta"), tail(n%1_000_000)...)
	case n < 1_000_000_000_000:
		return append(append(terbilangParts(n/1_000_000_000), "miliar"), tail(n%1_000_000_000)...)
	default:
		return append(append(terbilangParts(n/1_000_000_000_000), "triliun"), tail(n%1_000_000_000_000)...)
	}
}

func tail(n int64) []string {
	if n == 0 {
		return nil
	}
	return terbilangParts(n)
}

// AmountInWordsEN renders the grand total in English words. USD amounts are
// cents; IDR amounts are whole rupiah.
func AmountInWordsEN(amount int64, currency string) string {
	if currency == "USD" {
		dollars, cents := amount/100, amount%100
		out := EnglishWords(dollars) + plural(dollars, " dollar", " dollars")
		if cents > 0 {
			out += " and " + EnglishWords(cents) + plural(cents, " cent", " cents")
		}
		return out
	}
	return EnglishWords(amount) + " rupiah"
}

// AmountInWordsID renders the grand total in Indonesian words (terbilang).
func AmountInWordsID(amount int64, currency string) string {
	if currency == "USD" {
		dollars, cents := amount/100, amount%100
		out := Terbilang(dollars) + " dolar"
		if cents > 0 {
			out += " dan " + Terbilang(cents) + " sen"
		}
		return out
	}
	return Terbilang(amount) + " rupiah"
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
