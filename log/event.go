package log

import "time"

// Event is a single line of container output ready to be shipped.
// It is built per line, published once and then dropped.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Millis returns the timestamp as milliseconds since the Unix epoch.
func (e Event) Millis() int64 {
	return e.Timestamp.UnixMilli()
}
