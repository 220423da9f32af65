package food

import (
	"time"

	"github.com/ansel1/merry"
	"github.com/shopspring/decimal"
)

// PriceDecimals is the number of fractional digits kept for every price.
const PriceDecimals = 2

const TimeFormat = "2006-01-02 15:04:05"

func FormatPrice(x decimal.Decimal) string {
	return "Rs " + x.StringFixed(PriceDecimals)
}

func FormatAmount(x decimal.Decimal) string {
	return x.StringFixed(PriceDecimals)
}

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeFormat)
}

func ParsePrice(s string) (decimal.Decimal, error) {
	x, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, merry.Appendf(err, "price %q", s)
	}
	if x.IsNegative() {
		return decimal.Zero, merry.Errorf("price %q: must not be negative", s)
	}
	if !x.Equal(x.Round(PriceDecimals)) {
		return decimal.Zero, merry.Errorf("price %q: more than %d fractional digits", s, PriceDecimals)
	}
	return x, nil
}

func MustParsePrice(s string) decimal.Decimal {
	x, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return x
}
