package config

import "errors"

// Configuration validation errors, returned (wrapped) by Config.Validate so
// callers can test for them with errors.Is.
var (
	// ErrInvalidDailyRate is returned when fees.daily_rate is not a positive
	// decimal number.
	ErrInvalidDailyRate = errors.New("invalid daily rate: must be a positive decimal")

	// ErrInvalidPlaces is returned when fees.currency_places is negative.
	ErrInvalidPlaces = errors.New("invalid currency places: must be non-negative")

	// ErrInvalidLayout is returned when a date layout is empty or does not
	// round-trip a date.
	ErrInvalidLayout = errors.New("invalid date layout")

	// ErrInvalidDelimiter is returned when csv.delimiter is not a single
	// usable character.
	ErrInvalidDelimiter = errors.New("invalid csv delimiter")

	// ErrInvalidLogLevel is returned for a log_level other than debug, info,
	// warn or error.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn or error")

	// ErrInvalidNameFormat is returned when report_name_format is empty.
	ErrInvalidNameFormat = errors.New("invalid report name format: must not be empty")
)
