package date

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Frequency is the recurrence period of a recurring transaction.
type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Monthly
)

func (p Frequency) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	default:
		panic(fmt.Sprintf("unknown frequency %d", p))
	}
}

// ParseFrequency reads a frequency, accepting the noun forms too ("day", "week", "month").
func ParseFrequency(p string) (Frequency, error) {
	p = strings.ToLower(p)
	switch p {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	default:
		return Daily, fmt.Errorf("unknown frequency %q", p)
	}
}

// Next returns the occurrence following d.
func (p Frequency) Next(d Date) Date {
	switch p {
	case Weekly:
		return d.Add(7)
	case Monthly:
		// clamped to the end of a shorter month: Jan 31 is followed by Feb 28.
		last := NewMonth(d.y, d.m+1).Last()
		if d.d > last.d {
			return last
		}
		return New(d.y, d.m+1, d.d)
	default:
		return d.Add(1)
	}
}

func (p *Frequency) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	f, err := ParseFrequency(str)
	if err != nil {
		return err
	}
	*p = f
	return nil
}

func (p Frequency) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }
