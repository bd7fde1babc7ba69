package typing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DatetimeFormat is how datetimes are written when they are staged.
const DatetimeFormat = "2006-01-02 15:04:05.999999999"

var missingValues = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

var boolValues = map[string]bool{
	"True":  true,
	"TRUE":  true,
	"true":  true,
	"False": false,
	"FALSE": false,
	"false": false,
}

// Time zone aware layouts come first so that offsets are not dropped.
var supportedDatetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

func IsMissing(value string) bool {
	return missingValues[value]
}

func ParseInt(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

// IsIntegerOverflow returns true if [err] came from [ParseInt] on an integer that does not fit in an int64.
func IsIntegerOverflow(err error) bool {
	return errors.Is(err, strconv.ErrRange)
}

// ParseFloat accepts decimal and scientific notation as well as inf/infinity.
// Values outside the float64 range become ±inf or 0.
func ParseFloat(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if strings.ContainsAny(value, "xX_") {
		return 0, fmt.Errorf("%q is not a decimal number", value)
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}

	if math.IsNaN(floatVal) {
		return 0, fmt.Errorf("%q is not a number", value)
	}

	return floatVal, nil
}

func ParseBool(value string) (bool, error) {
	boolVal, isOk := boolValues[value]
	if !isOk {
		return false, fmt.Errorf("%q is not a boolean", value)
	}

	return boolVal, nil
}

func ParseDatetime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range supportedDatetimeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("failed to parse %q as a datetime", value)
}

func FormatDatetime(ts time.Time) string {
	return ts.UTC().Format(DatetimeFormat)
}
