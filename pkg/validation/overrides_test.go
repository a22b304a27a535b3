package validation

import "testing"

func TestParsePositiveInt(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expected  int
		expectErr bool
	}{
		{"empty", "", 0, false},
		{"eleven", "11", 11, false},
		{"padded", " 9 ", 9, false},
		{"zero", "0", 0, true},
		{"negative", "-3", 0, true},
		{"fraction", "10.5", 0, true},
		{"text", "eleven", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePositiveInt("rosterSize", tt.value)
			if (err != nil) != tt.expectErr {
				t.Fatalf("ParsePositiveInt(%q) error = %v, expectErr %v", tt.value, err, tt.expectErr)
			}
			if got != tt.expected {
				t.Errorf("ParsePositiveInt(%q) = %d, expected %d", tt.value, got, tt.expected)
			}
		})
	}
}

func TestParsePositiveFloat(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expected  float64
		expectErr bool
	}{
		{"empty", "", 0, false},
		{"budget", "95.5", 95.5, false},
		{"whole", "100", 100, false},
		{"zero", "0", 0, true},
		{"negative", "-1", 0, true},
		{"nan", "NaN", 0, true},
		{"inf", "Inf", 0, true},
		{"text", "lots", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePositiveFloat("maxCredits", tt.value)
			if (err != nil) != tt.expectErr {
				t.Fatalf("ParsePositiveFloat(%q) error = %v, expectErr %v", tt.value, err, tt.expectErr)
			}
			if got != tt.expected {
				t.Errorf("ParsePositiveFloat(%q) = %v, expected %v", tt.value, got, tt.expected)
			}
		})
	}
}
