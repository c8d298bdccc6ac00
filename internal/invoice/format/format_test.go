package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVAT(t *testing.T) {
	assert.Equal(t, int64(110000), VAT(1000000, 11))
	assert.Equal(t, int64(55), VAT(500, 11))
	assert.Equal(t, int64(6), VAT(50, 11)) // 5.5 rounds up
	assert.Equal(t, int64(0), VAT(0, 11))
	assert.Equal(t, int64(0), VAT(-100, 11))
}

func TestDPPLain(t *testing.T) {
	assert.Equal(t, int64(916667), DPPLain(1000000)) // 916,666.67 rounds up
	assert.Equal(t, int64(11), DPPLain(12))
	assert.Equal(t, int64(0), DPPLain(0))
}

func TestIDRToUSDCents(t *testing.T) {
	assert.Equal(t, int64(306), IDRToUSDCents(47500, 15500)) // $3.06
	assert.Equal(t, int64(100), IDRToUSDCents(15500, 15500))
	assert.Equal(t, int64(0), IDRToUSDCents(0, 15500))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "Rp 1.110.000", FormatIDR(1110000))
	assert.Equal(t, "Rp 500", FormatIDR(500))
	assert.Equal(t, "$3.06", FormatUSD(306))
	assert.Equal(t, "$1,234.00", FormatUSD(123400))
	assert.Equal(t, "Rp 47.500", FormatMoney(47500, "IDR"))
	assert.Equal(t, "$0.05", FormatMoney(5, "USD"))
}

func TestEnglishWords(t *testing.T) {
	assert.Equal(t, "zero", EnglishWords(0))
	assert.Equal(t, "nineteen", EnglishWords(19))
	assert.Equal(t, "forty-two", EnglishWords(42))
	assert.Equal(t, "one hundred ten", EnglishWords(110))
	assert.Equal(t, "one million one hundred ten thousand", EnglishWords(1110000))
	assert.Equal(t, "two thousand one", EnglishWords(2001))
	assert.Equal(t, "one quadrillion", EnglishWords(1_000_000_000_000_000))
	assert.Equal(t, "nine quintillion", EnglishWords(9_000_000_000_000_000_000))
}

func TestTerbilang(t *testing.T) {
	assert.Equal(t, "nol", Terbilang(0))
	assert.Equal(t, "sebelas", Terbilang(11))
	assert.Equal(t, "tujuh belas", Terbilang(17))
	assert.Equal(t, "seratus sepuluh", Terbilang(110))
	assert.Equal(t, "seribu dua ratus", Terbilang(1200))
	assert.Equal(t, "satu juta seratus sepuluh ribu", Terbilang(1110000))
	assert.Equal(t, "dua puluh satu", Terbilang(21))
}

func TestAmountInWords(t *testing.T) {
	assert.Equal(t, "one million one hundred ten thousand rupiah", AmountInWordsEN(1110000, "IDR"))
	assert.Equal(t, "satu juta seratus sepuluh ribu rupiah", AmountInWordsID(1110000, "IDR"))
	assert.Equal(t, "three dollars and six cents", AmountInWordsEN(306, "USD"))
	assert.Equal(t, "tiga dolar dan enam sen", AmountInWordsID(306, "USD"))
	assert.Equal(t, "one dollar", AmountInWordsEN(100, "USD"))
}
