package lens

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Converter parses a raw string into T and formats T back into a string.
// Parse never falls back to a default: any rejected input is an error.
type Converter[T any] struct {
	Parse  func(string) (T, error)
	Format func(T) string
}

// Layouts used by the date converters.
const (
	DateLayout          = "2006-01-02"
	DateTimeLayout      = "2006-01-02T15:04:05.999999999"
	dateTimeShortLayout = "2006-01-02T15:04"
)

// Built-in converters.
var (
	String = Converter[string]{
		Parse:  identity[string],
		Format: func(s string) string { return s },
	}

	Int = Converter[int]{
		Parse: func(s string) (int, error) {
			n, err := strconv.ParseInt(s, 10, strconv.IntSize)
			return int(n), err
		},
		Format: strconv.Itoa,
	}

	Int32 = Converter[int32]{
		Parse: func(s string) (int32, error) {
			n, err := strconv.ParseInt(s, 10, 32)
			return int32(n), err
		},
		Format: func(n int32) string { return strconv.FormatInt(int64(n), 10) },
	}

	Int64 = Converter[int64]{
		Parse:  func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) },
		Format: func(n int64) string { return strconv.FormatInt(n, 10) },
	}

	Float32 = Converter[float32]{
		Parse: func(s string) (float32, error) {
			f, err := strconv.ParseFloat(s, 32)
			return float32(f), err
		},
		Format: func(f float32) string { return strconv.FormatFloat(float64(f), 'g', -1, 32) },
	}

	Float64 = Converter[float64]{
		Parse:  func(s string) (float64, error) { return strconv.ParseFloat(s, 64) },
		Format: func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) },
	}

	Bool = Converter[bool]{
		Parse:  parseBool,
		Format: strconv.FormatBool,
	}

	Duration = Converter[time.Duration]{
		Parse:  time.ParseDuration,
		Format: time.Duration.String,
	}

	// Date parses calendar dates such as 2024-03-01 as midnight UTC.
	Date = Converter[time.Time]{
		Parse: func(s string) (time.Time, error) {
			return time.ParseInLocation(DateLayout, s, time.UTC)
		},
		Format: func(t time.Time) string { return t.Format(DateLayout) },
	}

	// DateTime parses zone-less ISO date-times (seconds optional) as UTC.
	DateTime = Converter[time.Time]{
		Parse: func(s string) (time.Time, error) {
			t, err := time.ParseInLocation(DateTimeLayout, s, time.UTC)
			if err != nil {
				if short, serr := time.ParseInLocation(dateTimeShortLayout, s, time.UTC); serr == nil {
					return short, nil
				}
			}
			return t, err
		},
		Format: func(t time.Time) string { return t.Format(DateTimeLayout) },
	}

	// ZonedDateTime parses RFC 3339 timestamps, keeping their offset.
	ZonedDateTime = Converter[time.Time]{
		Parse:  func(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) },
		Format: func(t time.Time) string { return t.Format(time.RFC3339Nano) },
	}

	UUID = Converter[uuid.UUID]{
		Parse:  uuid.Parse,
		Format: uuid.UUID.String,
	}
)

// parseBool accepts only "true" or "false" in any letter case. strconv's
// ParseBool also takes "1", "t" and friends, which is too lenient for
// request input.
func parseBool(s string) (bool, error) {
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	default:
		return false, &strconv.NumError{Func: "ParseBool", Num: s, Err: strconv.ErrSyntax}
	}
}
