package household

import (
	"errors"
	"testing"
)

func TestRegister(t *testing.T) {
	tests := []struct {
		houseNo string
		address string
		wantErr error
	}{
		{"B-12", "Sector 4, Dwarka, New Delhi", nil},
		{"  B-12 ", " Dwarka ", nil},
		{"", "Dwarka", ErrMissingHouseNo},
		{"B-12", "   ", ErrMissingAddress},
		{"", "", ErrMissingHouseNo},
	}

	for _, tt := range tests {
		r, err := Register(tt.houseNo, tt.address)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("Register(%q, %q) error = %v, want %v", tt.houseNo, tt.address, err, tt.wantErr)
			continue
		}
		if err == nil && (r.HouseNo == "" || r.Address == "" || r.SavedAt.IsZero()) {
			t.Errorf("incomplete registration: %+v", r)
		}
	}
}

func TestRegisterTrims(t *testing.T) {
	r, err := Register("  7 ", " Main Road ")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if r.String() != "7, Main Road" {
		t.Errorf("unexpected registration: %q", r.String())
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input       string
		wantHouse   string
		wantAddress string
	}{
		{"B-12 | Sector 4, Dwarka", "B-12", "Sector 4, Dwarka"},
		{"B-12|Dwarka|Delhi", "B-12", "Dwarka|Delhi"},
		{"B-12", "B-12", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		house, address := Parse(tt.input)
		if house != tt.wantHouse || address != tt.wantAddress {
			t.Errorf("Parse(%q) = (%q, %q), want (%q, %q)", tt.input, house, address, tt.wantHouse, tt.wantAddress)
		}
	}
}
