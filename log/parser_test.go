package log

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantTS  time.Time
		wantMsg string
		wantOK  bool
	}{
		{
			name:    "docker timestamp",
			line:    "2024-01-02T03:04:05.000000006Z build started",
			wantTS:  time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC),
			wantMsg: "build started",
			wantOK:  true,
		},
		{
			name:    "timestamp only",
			line:    "2024-01-02T03:04:05Z",
			wantTS:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			wantMsg: "",
			wantOK:  true,
		},
		{
			name:    "plain line",
			line:    "hello world",
			wantMsg: "hello world",
		},
		{
			name:    "empty line",
			line:    "",
			wantMsg: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, msg, ok := splitTimestamp(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMsg, msg)
			if tt.wantOK {
				assert.True(t, tt.wantTS.Equal(ts), "got %s", ts)
			}
		})
	}
}

func TestNormalizeLine(t *testing.T) {
	assert.Equal(t, "hello", normalizeLine("hello\r"))
	assert.Equal(t, "a�b", normalizeLine("a\xfe\xffb"))
	assert.Equal(t, "ünïcødé", normalizeLine("ünïcødé"))
}

func TestEvent_Millis(t *testing.T) {
	e := Event{Timestamp: time.UnixMilli(1714564800123)}
	assert.Equal(t, int64(1714564800123), e.Millis())
}
