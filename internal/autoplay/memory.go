package autoplay

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/claimrush/internal/game"
)

const maxRecords = 20

// StepRecord captures one non-click decision. Clicks are only counted.
type StepRecord struct {
	Time      time.Time  `json:"time"`
	Action    ActionKind `json:"action"`
	Target    string     `json:"target,omitempty"`
	Risk      Risk       `json:"risk"`
	Money     float64    `json:"money"`
	Rationale string     `json:"rationale,omitempty"`
}

// Memory tallies what the bot has done, across restarts when saved.
type Memory struct {
	Counts  map[ActionKind]int `json:"counts"`
	Arrests []game.Arrest      `json:"arrests"`
	Records []StepRecord       `json:"records"`
}

// NewMemory returns empty memory.
func NewMemory() *Memory {
	return &Memory{Counts: make(map[ActionKind]int)}
}

// LoadMemory reads the memory file. A missing or corrupt file yields empty
// memory.
func LoadMemory(path string) *Memory {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewMemory()
	}
	mem := NewMemory()
	if err := json.Unmarshal(data, mem); err != nil {
		slog.Warn("autoplayer memory corrupted, starting fresh", "error", err)
		return NewMemory()
	}
	if mem.Counts == nil {
		mem.Counts = make(map[ActionKind]int)
	}
	return mem
}

// Save writes the memory to path.
func (m *Memory) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal memory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write memory: %w", err)
	}
	return nil
}

// Record counts an action and keeps the last records of the rare ones.
func (m *Memory) Record(r StepRecord) {
	m.Counts[r.Action]++
	if r.Action == ActionClick || r.Action == ActionNone {
		return
	}
	m.Records = append(m.Records, r)
	if len(m.Records) > maxRecords {
		m.Records = m.Records[len(m.Records)-maxRecords:]
	}
}

// RecordArrest keeps the trial outcome, trimming to the last maxRecords.
func (m *Memory) RecordArrest(a game.Arrest) {
	m.Arrests = append(m.Arrests, a)
	if len(m.Arrests) > maxRecords {
		m.Arrests = m.Arrests[len(m.Arrests)-maxRecords:]
	}
}

// Summary is a one-line report for logs.
func (m *Memory) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s clicks, %d upgrades, %d zones, %d golden",
		humanize.Comma(int64(m.Counts[ActionClick])),
		m.Counts[ActionUpgrade],
		m.Counts[ActionUnlock],
		m.Counts[ActionGolden],
	)
	if n := len(m.Arrests); n > 0 {
		last := m.Arrests[n-1]
		var seized float64
		for _, a := range m.Arrests {
			seized += a.Seized + a.Fee
		}
		fmt.Fprintf(&b, ", %d trials (last %s, %d years), $%s lost",
			m.Counts[ActionTrial], last.Outcome, last.Sentence, game.FormatCount(seized))
	}
	return b.String()
}
