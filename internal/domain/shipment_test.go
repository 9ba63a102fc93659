package domain

import "testing"

func TestCentsUSD(t *testing.T) {
	cases := []struct {
		in   Cents
		want string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{185000, "$1,850.00"},
		{225000, "$2,250.00"},
		{123456789, "$1,234,567.89"},
		{-35000, "-$350.00"},
	}

	for _, tc := range cases {
		if got := tc.in.USD(); got != tc.want {
			t.Errorf("Cents(%d).USD() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAPStatusTerminal(t *testing.T) {
	for _, s := range []APStatus{APNew, APReceived, APReviewing, APDisputed} {
		if s.Terminal() {
			t.Errorf("%q reported terminal", s)
		}
	}
	for _, s := range []APStatus{APAuditPass, APPayScheduled} {
		if !s.Terminal() {
			t.Errorf("%q not reported terminal", s)
		}
	}
}

func TestHasDetention(t *testing.T) {
	sh := &Shipment{DetentionCharge: 0}
	if sh.HasDetention() {
		t.Error("zero charge reported as detention")
	}
	sh.DetentionCharge = 100
	if !sh.HasDetention() {
		t.Error("non-zero charge not reported as detention")
	}
}
