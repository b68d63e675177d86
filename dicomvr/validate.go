package dicomvr

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// validators check the format of one value of a text VR. Length is checked
// separately against VR.MaxLength.
var validators = map[string]func(string) error{
	"AS": validateAge,
	"CS": validateCodeString,
	"DA": validateDate,
	"DS": validateDecimal,
	"DT": validateDateTime,
	"IS": validateInteger,
	"TM": validateTime,
	"UI": validateUID,
}

var (
	ageRE        = regexp.MustCompile(`^[0-9]{3}[DWMY]$`)
	codeStringRE = regexp.MustCompile(`^[A-Z0-9 _]*$`)
	uidRE        = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)
	// PS3.5 6.2 DS: fixed or floating point, leading/trailing spaces allowed
	decimalRE = regexp.MustCompile(`^ *[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)? *$`)
)

func validateAge(s string) error {
	if !ageRE.MatchString(s) {
		return errors.New("malformed age, expect nnnD, nnnW, nnnM or nnnY")
	}
	return nil
}

func validateCodeString(s string) error {
	if !codeStringRE.MatchString(s) {
		return errors.New("code strings allow upper case letters, digits, space and underscore only")
	}
	return nil
}

func validateDecimal(s string) error {
	if !decimalRE.MatchString(s) {
		return errors.New("malformed decimal string, expect [+-]digits[.digits][E[+-]digits]")
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("malformed decimal string: %v", err)
	}
	return nil
}

func validateInteger(s string) error {
	if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32); err != nil {
		return fmt.Errorf("malformed integer string: %v", err)
	}
	return nil
}

func validateUID(s string) error {
	if !uidRE.MatchString(s) {
		return errors.New("UIDs contain digits separated by dots only")
	}
	return nil
}

func validateDate(s string) error {
	_, err := ParseDate(s)
	return err
}

func validateTime(s string) error {
	_, err := ParseTime(s)
	return err
}

func validateDateTime(s string) error {
	_, err := ParseDateTime(s)
	return err
}
