// Package household validates the address registration form.
package household

import (
	"errors"
	"strings"
	"time"
)

const SavedMessage = "Address details saved successfully!"

var (
	ErrMissingHouseNo = errors.New("house number is required")
	ErrMissingAddress = errors.New("address is required")
)

type Registration struct {
	HouseNo string
	Address string
	SavedAt time.Time
}

// Register validates the form. Both fields are required; surrounding whitespace is dropped.
func Register(houseNo, address string) (Registration, error) {
	houseNo = strings.TrimSpace(houseNo)
	address = strings.TrimSpace(address)

	if houseNo == "" {
		return Registration{}, ErrMissingHouseNo
	}
	if address == "" {
		return Registration{}, ErrMissingAddress
	}

	return Registration{
		HouseNo: houseNo,
		Address: address,
		SavedAt: time.Now(),
	}, nil
}

// Parse splits "<house no> | <address>" as typed into a chat.
func Parse(input string) (houseNo, address string) {
	houseNo, address, found := strings.Cut(input, "|")
	if !found {
		return strings.TrimSpace(input), ""
	}
	return strings.TrimSpace(houseNo), strings.TrimSpace(address)
}

func (r Registration) String() string {
	return r.HouseNo + ", " + r.Address
}
