package dateutil

import (
	"strconv"

	"github.com/ginjaninja78/library-loan-reports/internal/types"
)

// ReformatDates converts each YYYY-MM-DD string in dates to DD Mon YYYY,
// e.g. "2001-01-01" becomes "01 Jan 2001". Unpadded months and days
// ("2001-1-1") are accepted.
//
// The result has the same length and order as dates; dates itself is not
// modified. The first element that does not parse fails the whole call with
// a ParseFailure error naming its index and value.
func ReformatDates(dates []string) ([]string, error) {
	return Reformat(dates, ISOInputLayout, DisplayLayout)
}

// Reformat converts each element of dates from the from layout to the to
// layout. It is the general form of ReformatDates.
func Reformat(dates []string, from, to string) ([]string, error) {
	out := make([]string, 0, len(dates))

	for i, value := range dates {
		d, err := ParseDate(from, value)
		if err != nil {
			return nil, &types.Error{
				Kind:   types.KindParseFailure,
				Op:     "reformat dates",
				Column: "dates[" + strconv.Itoa(i) + "]",
				Value:  value,
				Err:    err,
			}
		}
		out = append(out, d.Format(to))
	}

	return out, nil
}
