// Package timex holds JSON-friendly time types: Duration for configuration
// files and EpochMillis for client timestamps.
package timex

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dmitrijs2005/travelbook/internal/common"
)

// Duration unmarshals from either a Go duration string ("72h", "15m") or an
// integer number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// EpochMillis is a point in time sent by clients as milliseconds since the
// Unix epoch, either as a JSON number or a numeric string.
type EpochMillis struct {
	time.Time
	Valid bool
}

func (e *EpochMillis) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*e = EpochMillis{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*e = EpochMillis{}
			return nil
		}
		b = []byte(s)
	}
	t, err := ParseEpochMillis(string(b))
	if err != nil {
		return err
	}
	*e = EpochMillis{Time: t, Valid: true}
	return nil
}

// Bounds of EpochMillis values: years 0 through 9999, the range
// time.Time.MarshalJSON can render.
var (
	minEpochMillis = time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	maxEpochMillis = time.Date(9999, 12, 31, 23, 59, 59, 999_000_000, time.UTC).UnixMilli()
)

// ParseEpochMillis parses a decimal millisecond timestamp. Fractional parts
// are truncated. Non-finite and out-of-range values wrap
// common.ErrorValidation.
func ParseEpochMillis(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return time.Time{}, fmt.Errorf("%w: invalid epoch milliseconds %q", common.ErrorValidation, s)
		}
		if f < float64(minEpochMillis) || f > float64(maxEpochMillis) {
			return time.Time{}, fmt.Errorf("%w: epoch milliseconds %q out of range", common.ErrorValidation, s)
		}
		ms = int64(f)
	}
	if ms < minEpochMillis || ms > maxEpochMillis {
		return time.Time{}, fmt.Errorf("%w: epoch milliseconds %q out of range", common.ErrorValidation, s)
	}
	return time.UnixMilli(ms).UTC(), nil
}
