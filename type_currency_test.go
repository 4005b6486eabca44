package budget

import (
	"math"
	"testing"
)

func TestCurrencyFormat(t *testing.T) {
	testCases := []struct {
		name   string
		cur    Currency
		amount float64
		want   string
	}{
		{"usd grouping", USD, 1234.56, "$1,234.56"},
		{"usd zero", USD, 0, "$0.00"},
		{"usd negative", USD, -5, "-$5.00"},
		{"usd millions", USD, 1234567.891, "$1,234,567.89"},
		{"usd half rounds up", USD, 0.005, "$0.01"},
		{"usd half rounds away from zero", USD, -2.675, "-$2.68"},
		{"eur grouping", EUR, 1234.56, "1.234,56\u00a0€"},
		{"eur negative", EUR, -1234.5, "-1.234,50\u00a0€"},
		{"eur small", EUR, 0.5, "0,50\u00a0€"},
		{"gbp grouping", GBP, 1000, "£1,000.00"},
		{"gbp negative", GBP, -0.99, "-£0.99"},
		{"empty is usd", "", 42, "$42.00"},
		{"usd beyond int64 minor units", USD, 1e17, "$100,000,000,000,000,000.00"},
		{"usd huge", USD, 1e20, "$100,000,000,000,000,000,000.00"},
		{"usd huge negative", USD, -1e17, "-$100,000,000,000,000,000.00"},
		{"eur huge", EUR, 123456789012345678, "123.456.789.012.345.680,00\u00a0€"},
		{"nan", USD, math.NaN(), "$NaN"},
		{"infinity", EUR, math.Inf(-1), "-∞\u00a0€"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cur.Format(tc.amount); got != tc.want {
				t.Errorf("%q.Format(%v) = %q, want %q", tc.cur, tc.amount, got, tc.want)
			}
		})
	}
}

func TestFormatCurrencyMatchesMethod(t *testing.T) {
	amounts := []float64{0, 1, -1, 0.1, 999.999, 1e6, -123456.785}
	for _, c := range append(Currencies(), "") {
		for _, a := range amounts {
			if got, want := FormatCurrency(a, c), c.Format(a); got != want {
				t.Errorf("FormatCurrency(%v, %q) = %q, want %q", a, c, got, want)
			}
			// formatting is deterministic
			if again := FormatCurrency(a, c); again != FormatCurrency(a, c) {
				t.Errorf("FormatCurrency(%v, %q) is not deterministic", a, c)
			}
		}
	}
}

func TestParseCurrency(t *testing.T) {
	testCases := []struct {
		in      string
		want    Currency
		wantErr bool
	}{
		{in: "USD", want: USD},
		{in: "eur", want: EUR},
		{in: " gbp ", want: GBP},
		{in: "JPY", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := ParseCurrency(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseCurrency(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCurrency(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDescriptors(t *testing.T) {
	want := map[Currency][3]string{
		USD: {"en-US", "$", "US Dollar"},
		EUR: {"de-DE", "€", "Euro"},
		GBP: {"en-GB", "£", "British Pound"},
	}
	for c, w := range want {
		d, ok := c.Descriptor()
		if !ok {
			t.Fatalf("%s has no descriptor", c)
		}
		if got := [3]string{d.Locale, d.Symbol, d.Name}; got != w {
			t.Errorf("%s descriptor = %v, want %v", c, got, w)
		}
	}
	if _, ok := Currency("JPY").Descriptor(); ok {
		t.Errorf("JPY should not be supported")
	}
}
