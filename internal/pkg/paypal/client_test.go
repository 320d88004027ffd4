package paypal

import "testing"

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{250000, "2500.00"},
		{100, "1.00"},
		{99, "0.99"},
		{150050, "1500.50"},
		{5, "0.05"},
	}

	for _, tc := range cases {
		if got := formatCents(tc.cents); got != tc.want {
			t.Errorf("formatCents(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
