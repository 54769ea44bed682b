package game

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/claimrush/internal/catalog"
	"github.com/talgya/claimrush/internal/entropy"
	"github.com/talgya/claimrush/internal/formula"
)

func newTestMachine(src entropy.Source) (*Machine, *FakeClock) {
	clock := NewFakeClock(start)
	cat := testCatalog()
	m := NewMachine(cat, NewState(cat, start), Options{Clock: clock, Rand: src})
	return m, clock
}

func TestMachineActions(t *testing.T) {
	m, clock := newTestMachine(quiet())

	s := m.Click()
	assert.Equal(t, 10.0, s.Money)

	for i := 0; i < 100; i++ {
		m.Click()
	}
	s = m.BuyUpgrade("runner")
	assert.Equal(t, 1, s.OwnedUpgrades["runner"])

	clock.Advance(2 * time.Second)
	s = m.Tick()
	assert.InDelta(t, 1_010.0-100+100, s.Money, 1e-9)

	s = m.UnlockZone("clinic")
	assert.Equal(t, "clinic", s.ActiveZone)
	s = m.SelectZone("street")
	assert.Equal(t, "street", s.ActiveZone)

	snap, o := m.Overview()
	assert.Equal(t, snap.Money, s.Money)
	assert.Equal(t, StatusPlaying, o.Status)
	assert.Len(t, o.Zones, 2)
	assert.Nil(t, o.Indictment)
}

func TestMachineSnapshotIsACopy(t *testing.T) {
	m, _ := newTestMachine(quiet())
	s := m.Snapshot()
	s.OwnedUpgrades["brace"] = 50
	assert.Zero(t, m.Snapshot().OwnedUpgrades["brace"])
}

func TestMachineSubscribers(t *testing.T) {
	m, _ := newTestMachine(quiet())

	var (
		mu   sync.Mutex
		seen []float64
	)
	cancel := m.Subscribe(func(s State) {
		mu.Lock()
		seen = append(seen, s.Money)
		mu.Unlock()
	})

	m.Click()
	m.Click()
	cancel()
	m.Click()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []float64{10, 20}, seen)
}

func TestMachineSubscribersSeeOperationOrder(t *testing.T) {
	m, _ := newTestMachine(quiet())

	var seen []int
	m.Subscribe(func(s State) { seen = append(seen, s.FakeClaims) })

	const workers, clicks = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < clicks; i++ {
				m.Click()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*clicks)
	for i, claims := range seen {
		require.Equal(t, i+1, claims)
	}
}

func TestMachineStandTrial(t *testing.T) {
	m, clock := newTestMachine(entropy.NewPool(nil, 0.1))

	_, ok := m.StandTrial("fancy")
	assert.False(t, ok, "not under arrest")

	s := m.Snapshot()
	s.Money = 10_000
	s.ViralViews = formula.ViralThreshold
	s.IsGameOver = true
	m.Restore(s)

	var recorded []Arrest
	m.OnArrest = func(a Arrest) { recorded = append(recorded, a) }

	_, ok = m.StandTrial("nobody")
	assert.False(t, ok, "unknown defense")

	clock.Advance(time.Minute)
	a, ok := m.StandTrial("fancy")
	require.True(t, ok)
	assert.Equal(t, catalog.OutcomeAcquitted, a.Outcome)
	assert.Equal(t, 2_000.0, a.Fee)
	assert.Equal(t, 8_000.0, m.Snapshot().Money)
	assert.Equal(t, clock.Now(), a.Time)
	require.Len(t, recorded, 1)
	assert.Equal(t, a, recorded[0])

	snap := m.Snapshot()
	assert.False(t, snap.IsGameOver)
	assert.Equal(t, 1, snap.TotalArrestCount)
	assert.True(t, snap.HasAchievement("free"))
}

func TestMachineStandTrialWithoutDefense(t *testing.T) {
	m, _ := newTestMachine(quiet())
	s := m.Snapshot()
	s.Money = 1_000
	s.TotalEarned = 1e12
	s.FakeClaims = 5_000
	s.ViralViews = formula.ViralThreshold
	s.IsGameOver = true
	m.Restore(s)

	a, ok := m.StandTrial("")
	require.True(t, ok)
	assert.Equal(t, catalog.OutcomeConvicted, a.Outcome)
	assert.Equal(t, formula.MaxSentence, a.Sentence)
	assert.Equal(t, 70.0, m.Snapshot().Money)
}

func TestMachineResets(t *testing.T) {
	m, _ := newTestMachine(quiet())
	m.Click()
	m.Click()

	s := m.NewGame()
	assert.Zero(t, s.Money)
	assert.Equal(t, 2, s.Lifetime.Clicks)
	assert.Equal(t, 2, s.Lifetime.GamesStarted)

	s = m.FullReset()
	assert.Zero(t, s.Lifetime.Clicks)
	assert.Equal(t, 1, s.Lifetime.GamesStarted)

	var categories []string
	for _, e := range m.Log().Recent(0) {
		categories = append(categories, e.Category)
	}
	assert.Equal(t, []string{CategoryReset, CategoryReset}, categories)
}

func TestEventLogIsBounded(t *testing.T) {
	log := NewEventLog()
	for i := 0; i < MaxLogEntries+25; i++ {
		log.Record(start, CategoryEvent, "entry %d", i)
	}
	all := log.Recent(0)
	require.Len(t, all, MaxLogEntries)
	assert.Equal(t, uint64(26), all[0].Seq)
	assert.Equal(t, "entry 1024", all[len(all)-1].Text)
	assert.Equal(t, uint64(MaxLogEntries+25), log.Seq())

	assert.Len(t, log.Since(log.Seq()-3), 3)
	assert.Len(t, log.Recent(5), 5)

	restored := NewEventLog()
	restored.Load(all[:10])
	assert.Equal(t, uint64(35), restored.Seq())
	restored.Record(start, CategoryGolden, "next")
	assert.Equal(t, uint64(36), restored.Seq())

	var nilLog *EventLog
	nilLog.Record(start, CategoryEvent, "dropped")
}

func TestFormatCountSaturates(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatCount(1_234_567.9))
	assert.Equal(t, "$1,000", FormatMoney(1_000))
	assert.Equal(t, "9,223,372,036,854,775,807", FormatCount(1e20))
	assert.Equal(t, "$9,223,372,036,854,775,807", FormatMoney(math.Inf(1)))
	assert.Equal(t, "0", FormatCount(math.NaN()))
}
