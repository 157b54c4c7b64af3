package dateutil

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/ginjaninja78/library-loan-reports/internal/types"
)

// MaxRangeDays is the largest count DateRange accepts: the number of days
// from 0001-01-01 through 9999-12-31.
const MaxRangeDays = 3652059

// Dated pairs a value with a calendar date.
type Dated[V any] struct {
	Date  Date
	Value V
}

// DateRange returns n consecutive dates starting at start (YYYY-MM-DD):
// start, start+1 day, ..., start+(n-1) days.
//
// A count of zero or less yields an empty slice. A start that is not a valid
// YYYY-MM-DD date fails with a ParseFailure error; a count above MaxRangeDays
// fails with an InvalidArgumentType error.
func DateRange(start string, n int) ([]Date, error) {
	first, err := ParseDate(ISOInputLayout, start)
	if err != nil {
		return nil, &types.Error{
			Kind:   types.KindParseFailure,
			Op:     "date range",
			Column: "start",
			Value:  start,
			Err:    err,
		}
	}

	if n <= 0 {
		return []Date{}, nil
	}
	if n > MaxRangeDays {
		return nil, &types.Error{
			Kind:   types.KindInvalidArgumentType,
			Op:     "date range",
			Column: "n",
			Value:  strconv.Itoa(n),
			Err:    fmt.Errorf("number of days must be at most %d", MaxRangeDays),
		}
	}

	dates := make([]Date, n)
	for i := range dates {
		dates[i] = first.AddDays(i)
	}
	return dates, nil
}

// DateRangeOf is DateRange for loosely typed arguments, such as values decoded
// from YAML or JSON. start must be a string and n a Go integer of any width;
// anything else fails with an InvalidArgumentType error before start is
// parsed. Floats and booleans are rejected even when integral.
func DateRangeOf(start, n any) ([]Date, error) {
	s, err := startArg("date range", start)
	if err != nil {
		return nil, err
	}
	count, err := countArg("date range", n)
	if err != nil {
		return nil, err
	}
	return DateRange(s, count)
}

// AddDateRange pairs each element of values with a daily date starting at
// start: values[0] with start, values[1] with start+1 day, and so on.
// values is not modified.
func AddDateRange[V any](values []V, start string) ([]Dated[V], error) {
	dates, err := DateRange(start, len(values))
	if err != nil {
		return nil, err
	}

	pairs := make([]Dated[V], len(dates))
	for i, d := range dates {
		pairs[i] = Dated[V]{Date: d, Value: values[i]}
	}
	return pairs, nil
}

// AddDateRangeOf is AddDateRange with a loosely typed start date. A start
// that is not a string fails with an InvalidArgumentType error.
func AddDateRangeOf[V any](values []V, start any) ([]Dated[V], error) {
	s, err := startArg("add date range", start)
	if err != nil {
		return nil, err
	}
	return AddDateRange(values, s)
}

// startArg checks that a start date argument is a string.
func startArg(op string, start any) (string, error) {
	s, ok := start.(string)
	if !ok {
		return "", &types.Error{
			Kind:   types.KindInvalidArgumentType,
			Op:     op,
			Column: "start",
			Value:  fmt.Sprintf("%v", start),
			Err:    fmt.Errorf("start date must be a string, got %T", start),
		}
	}
	return s, nil
}

// countArg checks that a day count argument is a whole number that fits an int.
func countArg(op string, n any) (int, error) {
	invalid := func(reason string) error {
		return &types.Error{
			Kind:   types.KindInvalidArgumentType,
			Op:     op,
			Column: "n",
			Value:  fmt.Sprintf("%v", n),
			Err:    fmt.Errorf("%s, got %T", reason, n),
		}
	}

	if n == nil {
		return 0, invalid("number of days must be an integer")
	}

	v := reflect.ValueOf(n)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		if i < math.MinInt || i > math.MaxInt {
			return 0, invalid("number of days overflows int")
		}
		return int(i), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > math.MaxInt {
			return 0, invalid("number of days overflows int")
		}
		return int(u), nil
	default:
		return 0, invalid("number of days must be an integer")
	}
}
