package game

import (
	"cmp"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/claimrush/internal/catalog"
	"github.com/talgya/claimrush/internal/formula"
)

// Key prefixes for the set and map members of the snapshot.
const (
	zonePrefix        = "zone."
	upgradePrefix     = "upgrade."
	achievementPrefix = "achievement."
)

// Encode flattens s into string keys and values. Times are unix
// milliseconds; zero times are omitted. LastTick is not stored.
func Encode(s State) map[string]string {
	kv := map[string]string{
		"run_id":                     s.RunID,
		"money":                      formatFloat(s.Money),
		"total_earned":               formatFloat(s.TotalEarned),
		"fake_claims":                strconv.Itoa(s.FakeClaims),
		"viral_views":                formatFloat(s.ViralViews),
		"max_threat":                 s.MaxThreatLevel.String(),
		"active_zone":                s.ActiveZone,
		"antagonist_zone":            s.AntagonistZone,
		"active_event":               s.ActiveEvent,
		"total_arrests":              strconv.Itoa(s.TotalArrestCount),
		"prestige.percent":           formatFloat(s.Prestige.Percent),
		"prestige.global_multiplier": formatFloat(s.Prestige.GlobalMultiplier),
		"is_game_over":               strconv.FormatBool(s.IsGameOver),
		"is_victory":                 strconv.FormatBool(s.IsVictory),
		"is_paused":                  strconv.FormatBool(s.IsPaused),

		"lifetime.total_earned":    formatFloat(s.Lifetime.TotalEarned),
		"lifetime.clicks":          strconv.Itoa(s.Lifetime.Clicks),
		"lifetime.golden_claims":   strconv.Itoa(s.Lifetime.GoldenClaims),
		"lifetime.victories":       strconv.Itoa(s.Lifetime.Victories),
		"lifetime.arrests":         strconv.Itoa(s.Lifetime.Arrests),
		"lifetime.acquittals":      strconv.Itoa(s.Lifetime.Acquittals),
		"lifetime.reduced":         strconv.Itoa(s.Lifetime.Reduced),
		"lifetime.convictions":     strconv.Itoa(s.Lifetime.Convictions),
		"lifetime.years_sentenced": strconv.Itoa(s.Lifetime.YearsSentenced),
		"lifetime.money_seized":    formatFloat(s.Lifetime.MoneySeized),
		"lifetime.games_started":   strconv.Itoa(s.Lifetime.GamesStarted),
	}
	putTime(kv, "event_end_time", s.EventEndTime)
	putTime(kv, "discount_end_time", s.DiscountEndTime)
	putTime(kv, "last_golden_spawn", s.LastGoldenSpawn)

	for id, ok := range s.UnlockedZones {
		if ok {
			kv[zonePrefix+id] = "true"
		}
	}
	for id, n := range s.OwnedUpgrades {
		if n > 0 {
			kv[upgradePrefix+id] = strconv.Itoa(n)
		}
	}
	for i, id := range s.UnlockedAchievements {
		kv[achievementPrefix+id] = strconv.Itoa(i)
	}

	if g := s.Golden; g != nil {
		kv["golden.id"] = g.ID
		kv["golden.type"] = string(g.Type)
		putTime(kv, "golden.spawned_at", g.SpawnedAt)
		putTime(kv, "golden.expires_at", g.ExpiresAt)
		kv["golden.x"] = formatFloat(g.X)
		kv["golden.y"] = formatFloat(g.Y)
	}
	return kv
}

// Decode rebuilds a State from a flat snapshot. Missing or malformed fields
// fall back to their initial values, references the catalog no longer knows
// are dropped, and the invariants are re-established. LastTick is set to now.
func Decode(kv map[string]string, cat *catalog.Catalog, now time.Time) State {
	d := decoder{kv: kv}
	s := NewState(cat, now)

	if id := kv["run_id"]; id != "" {
		if _, err := uuid.Parse(id); err == nil {
			s.RunID = id
		} else {
			d.warn("run_id", id)
		}
	}
	s.Money = d.float("money", 0)
	s.TotalEarned = d.float("total_earned", 0)
	s.FakeClaims = d.int("fake_claims", 0)
	s.ViralViews = d.float("viral_views", 0)
	if raw, ok := kv["max_threat"]; ok {
		if lvl, ok := formula.ParseThreat(raw); ok {
			s.MaxThreatLevel = lvl
		} else {
			d.warn("max_threat", raw)
		}
	}
	s.TotalArrestCount = d.int("total_arrests", 0)
	s.Prestige.Percent = d.float("prestige.percent", formula.PrestigePercent(s.TotalArrestCount))
	s.Prestige.GlobalMultiplier = d.float("prestige.global_multiplier", 1)
	if s.Prestige.GlobalMultiplier <= 0 {
		s.Prestige.GlobalMultiplier = 1
	}
	s.IsGameOver = d.bool("is_game_over")
	s.IsVictory = d.bool("is_victory")
	s.IsPaused = d.bool("is_paused")

	s.Lifetime = LifetimeStats{
		TotalEarned:    d.float("lifetime.total_earned", s.TotalEarned),
		Clicks:         d.int("lifetime.clicks", 0),
		GoldenClaims:   d.int("lifetime.golden_claims", 0),
		Victories:      d.int("lifetime.victories", 0),
		Arrests:        d.int("lifetime.arrests", s.TotalArrestCount),
		Acquittals:     d.int("lifetime.acquittals", 0),
		Reduced:        d.int("lifetime.reduced", 0),
		Convictions:    d.int("lifetime.convictions", 0),
		YearsSentenced: d.int("lifetime.years_sentenced", 0),
		MoneySeized:    d.float("lifetime.money_seized", 0),
		GamesStarted:   d.int("lifetime.games_started", 1),
	}

	var achievements []unlocked
	for key, val := range kv {
		switch {
		case strings.HasPrefix(key, zonePrefix):
			id := strings.TrimPrefix(key, zonePrefix)
			if _, ok := cat.Zone(id); ok && val == "true" {
				s.UnlockedZones[id] = true
			}
		case strings.HasPrefix(key, upgradePrefix):
			id := strings.TrimPrefix(key, upgradePrefix)
			u, ok := cat.Upgrade(id)
			if !ok {
				continue
			}
			n := d.int(key, 0)
			if u.Capped() && n > u.MaxQuantity {
				n = u.MaxQuantity
			}
			if n > 0 {
				s.OwnedUpgrades[id] = n
			}
		case strings.HasPrefix(key, achievementPrefix):
			id := strings.TrimPrefix(key, achievementPrefix)
			if _, ok := cat.Achievement(id); ok {
				achievements = append(achievements, unlocked{id: id, order: d.int(key, 0)})
			}
		}
	}
	slices.SortFunc(achievements, func(a, b unlocked) int {
		if c := cmp.Compare(a.order, b.order); c != 0 {
			return c
		}
		return strings.Compare(a.id, b.id)
	})
	for _, a := range achievements {
		s.UnlockedAchievements = append(s.UnlockedAchievements, a.id)
	}

	if id := kv["active_zone"]; s.UnlockedZones[id] {
		s.ActiveZone = id
	} else if id != "" {
		d.warn("active_zone", id)
	}
	if id := kv["antagonist_zone"]; id != "" {
		if _, ok := cat.Zone(id); ok {
			s.AntagonistZone = id
		}
	}
	if id := kv["active_event"]; id != "" {
		if ev, ok := cat.Event(id); ok {
			s.ActiveEvent = id
			s.EventEndTime = d.time("event_end_time")
			s.IsPaused = ev.Pauses
		}
	}
	if s.ActiveEvent == "" {
		s.IsPaused = false
	}
	s.DiscountEndTime = d.time("discount_end_time")
	if t := d.time("last_golden_spawn"); !t.IsZero() {
		s.LastGoldenSpawn = t
	}

	if id := kv["golden.id"]; id != "" {
		g := &GoldenClaim{
			ID:        id,
			Type:      GoldenType(kv["golden.type"]),
			SpawnedAt: d.time("golden.spawned_at"),
			ExpiresAt: d.time("golden.expires_at"),
			X:         d.float("golden.x", 0.5),
			Y:         d.float("golden.y", 0.5),
		}
		switch g.Type {
		case GoldenMoney, GoldenViews, GoldenDiscount:
			s.Golden = g
		default:
			d.warn("golden.type", kv["golden.type"])
		}
	}

	// Restore invariants without recording anything or unlocking
	// achievements on load.
	if s.ViralViews < 0 {
		s.ViralViews = 0
	}
	if limit := formula.ViewCap(s.Loadout(cat)); s.ViralViews > limit {
		s.ViralViews = limit
	}
	s.ThreatLevel = formula.Threat(s.ViralViews)
	if s.ThreatLevel > s.MaxThreatLevel {
		s.MaxThreatLevel = s.ThreatLevel
	}
	if s.IsGameOver && s.ViralViews < formula.ViralThreshold {
		d.warn("is_game_over", "true")
		s.IsGameOver = false
	}
	if !s.IsGameOver && s.ViralViews >= formula.ViralThreshold {
		s.IsGameOver = true
	}
	if s.IsVictory && s.TotalEarned < formula.TargetAmount {
		d.warn("is_victory", "true")
		s.IsVictory = false
	}
	// Restored without the flag, the win must not be counted a second time.
	if !s.IsVictory && s.TotalEarned >= formula.TargetAmount {
		s.IsVictory = true
	}
	s.LastTick = now
	return s
}

type unlocked struct {
	id    string
	order int
}

type decoder struct {
	kv map[string]string
}

func (d decoder) warn(key, value string) {
	slog.Warn("snapshot field invalid, using default", "key", key, "value", value)
}

func (d decoder) float(key string, def float64) float64 {
	raw, ok := d.kv[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		d.warn(key, raw)
		return def
	}
	return v
}

func (d decoder) int(key string, def int) int {
	raw, ok := d.kv[key]
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		d.warn(key, raw)
		return def
	}
	return v
}

func (d decoder) bool(key string) bool {
	raw, ok := d.kv[key]
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		d.warn(key, raw)
		return false
	}
	return v
}

func (d decoder) time(key string) time.Time {
	raw, ok := d.kv[key]
	if !ok || raw == "" {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 {
		d.warn(key, raw)
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func putTime(kv map[string]string, key string, t time.Time) {
	if !t.IsZero() {
		kv[key] = strconv.FormatInt(t.UnixMilli(), 10)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
