package core

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Timestamp is a point in time persisted as Unix epoch milliseconds.
// The zero Timestamp is encoded as 0.
type Timestamp struct {
	time.Time
}

// At truncates t to millisecond precision, the resolution that survives persistence.
func At(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Time: time.UnixMilli(t.UnixMilli()).UTC()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("0"), nil
	}
	return strconv.AppendInt(nil, t.UnixMilli(), 10), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var ms float64
	if err := json.Unmarshal(b, &ms); err != nil {
		return err
	}
	if ms == 0 {
		*t = Timestamp{}
		return nil
	}
	*t = Timestamp{Time: time.UnixMilli(int64(ms)).UTC()}
	return nil
}
