package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"$85", 8500, false},
		{"$ 85.5", 8550, false},
		{"12.345", 1234, false},
		{"12.346", 1235, false},
		{"0", 0, false},
		{".5", 50, false},
		{"", 0, true},
		{"-3", 0, true},
		{"+3", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDecimalToCents(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimalToCents(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCentsFromFloat(t *testing.T) {
	if got, err := CentsFromFloat(85.0); err != nil || got != 8500 {
		t.Fatalf("CentsFromFloat(85.0) = %d, %v", got, err)
	}
	if got, err := CentsFromFloat(10.005); err != nil || got != 1001 {
		t.Fatalf("CentsFromFloat(10.005) = %d, %v", got, err)
	}
	if _, err := CentsFromFloat(-1); err == nil {
		t.Fatal("CentsFromFloat(-1): expected error")
	}
}

func TestMoneyFormat(t *testing.T) {
	if got := (Money{Cents: 8500}).Format(); got != "$85.00" {
		t.Errorf("Format = %q", got)
	}
	if got := (Money{Cents: 5}).Format(); got != "$0.05" {
		t.Errorf("Format = %q", got)
	}
}
