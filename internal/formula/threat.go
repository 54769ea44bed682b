package formula

import "fmt"

// ThreatLevel is the discretized risk tier derived from exposure.
type ThreatLevel uint8

const (
	ThreatSafe ThreatLevel = iota
	ThreatLocalBlogger
	ThreatGainingTraction
	ThreatRegionalNews
	ThreatNationalStory
	ThreatViral
	ThreatTheVideo
)

// threatThresholds[i] is the minimum views for ThreatLevel(i+1).
var threatThresholds = [...]float64{
	10_000,
	100_000,
	1_000_000,
	10_000_000,
	50_000_000,
	95_000_000,
}

var threatNames = [...]string{
	"safe",
	"local-blogger",
	"gaining-traction",
	"regional-news",
	"national-story",
	"viral",
	"the-video",
}

// Threat maps exposure onto its threat level. It is a pure step function.
func Threat(views float64) ThreatLevel {
	level := ThreatSafe
	for i, t := range threatThresholds {
		if views >= t {
			level = ThreatLevel(i + 1)
		}
	}
	return level
}

// ThreatThreshold returns the minimum views for a level.
func ThreatThreshold(level ThreatLevel) float64 {
	if level == ThreatSafe || int(level) > len(threatThresholds) {
		return 0
	}
	return threatThresholds[level-1]
}

func (t ThreatLevel) String() string {
	if int(t) < len(threatNames) {
		return threatNames[t]
	}
	return "unknown"
}

// ParseThreat is the inverse of String.
func ParseThreat(name string) (ThreatLevel, bool) {
	for i, n := range threatNames {
		if n == name {
			return ThreatLevel(i), true
		}
	}
	return ThreatSafe, false
}

// MarshalText renders the level by name in JSON and YAML.
func (t ThreatLevel) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (t *ThreatLevel) UnmarshalText(text []byte) error {
	level, ok := ParseThreat(string(text))
	if !ok {
		return fmt.Errorf("unknown threat level %q", text)
	}
	*t = level
	return nil
}
