package game

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// MaxLogEntries bounds the in-memory event log.
const MaxLogEntries = 1000

// Log categories.
const (
	CategoryEvent       = "event"
	CategoryJournalist  = "journalist"
	CategoryGolden      = "golden"
	CategoryZone        = "zone"
	CategoryAchievement = "achievement"
	CategoryArrest      = "arrest"
	CategoryTrial       = "trial"
	CategoryVictory     = "victory"
	CategoryReset       = "reset"
)

// Entry is one notable occurrence during play.
type Entry struct {
	Seq      uint64    `json:"seq"`
	Time     time.Time `json:"time"`
	Category string    `json:"category"`
	Text     string    `json:"text"`
}

// EventLog keeps the most recent entries in order.
type EventLog struct {
	mu      sync.Mutex
	entries []Entry
	seq     uint64
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

// Record appends an entry. A nil log discards it.
func (l *EventLog) Record(at time.Time, category, format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.entries = append(l.entries, Entry{
		Seq:      l.seq,
		Time:     at,
		Category: category,
		Text:     fmt.Sprintf(format, args...),
	})
	if len(l.entries) > MaxLogEntries {
		l.entries = l.entries[len(l.entries)-MaxLogEntries:]
	}
}

// Since returns entries with a sequence number greater than seq.
func (l *EventLog) Since(seq uint64) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Entry
	for _, e := range l.entries {
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out
}

// Recent returns up to n of the newest entries, oldest first.
func (l *EventLog) Recent(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Seq returns the sequence number of the newest entry.
func (l *EventLog) Seq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}

// Load replaces the log with previously saved entries, oldest first.
func (l *EventLog) Load(entries []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(entries) > MaxLogEntries {
		entries = entries[len(entries)-MaxLogEntries:]
	}
	l.entries = append([]Entry(nil), entries...)
	l.seq = 0
	for _, e := range l.entries {
		if e.Seq > l.seq {
			l.seq = e.Seq
		}
	}
}

// FormatCount renders a whole amount with thousands separators, truncating
// the fraction and saturating at the int64 range.
func FormatCount(v float64) string {
	return humanize.Comma(wholeInt(v))
}

// FormatMoney is FormatCount with a dollar sign.
func FormatMoney(v float64) string {
	return "$" + FormatCount(v)
}

func wholeInt(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(v)
}
