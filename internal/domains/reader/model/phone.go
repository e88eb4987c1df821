package model

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var errNotValidNumber = errors.New("not a valid number for its region")

// NormalizePhone parses raw in defaultRegion and formats it as E.164.
// Numbers with a leading + keep their own country code.
func NormalizePhone(raw, defaultRegion string) (string, error) {
	raw = strings.TrimSpace(raw)

	num, err := phonenumbers.Parse(raw, strings.ToUpper(defaultRegion))
	if err != nil {
		return "", NewInvalidPhoneError(raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", NewInvalidPhoneError(raw, errNotValidNumber)
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
