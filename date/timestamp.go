package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// timestampFormats are tried in order. The API sends naive ISO-8601 datetimes
// (no zone), which are read as UTC.
var timestampFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is an instant reported by the server.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses a server datetime.
func ParseTimestamp(str string) (Timestamp, error) {
	for _, layout := range timestampFormats {
		t, err := time.Parse(layout, str)
		if err == nil {
			return Timestamp{t.UTC()}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", str)
}

// Date returns the UTC day of the timestamp.
func (t Timestamp) Date() Date { return New(t.UTC().Date()) }

func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func (t *Timestamp) UnmarshalJSON(bytes []byte) error {
	if string(bytes) == "null" {
		return nil
	}
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

var _ json.Marshaler = (*Timestamp)(nil)
var _ json.Unmarshaler = (*Timestamp)(nil)
