package entry

import "time"

// Timestamp captures a wall-clock instant at construction time.
type Timestamp struct {
	at time.Time
}

// Now constructs a Timestamp capturing the current instant.
func Now() Timestamp { return Timestamp{at: time.Now()} }

// CloseValue implements ValueClosable: the instant was already fixed at
// construction.
func (t Timestamp) CloseValue() Value { return TimestampValue(t.at) }

// TimestampOnClose defers capture to snapshot time instead of construction
// time.
type TimestampOnClose struct{}

func (TimestampOnClose) CloseValue() Value { return TimestampValue(time.Now()) }
