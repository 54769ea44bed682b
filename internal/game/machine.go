package game

import (
	"log/slog"
	"sync"

	"github.com/talgya/claimrush/internal/catalog"
	"github.com/talgya/claimrush/internal/entropy"
	"github.com/talgya/claimrush/internal/trial"
)

// Options configures a Machine. Zero values get real defaults.
type Options struct {
	Clock     Clock
	Rand      entropy.Source
	Placement *entropy.Placement
	Log       *EventLog
}

// Machine owns the state of one player and serializes every operation on
// it. Subscribers receive a copy of the state after each operation.
type Machine struct {
	mu        sync.Mutex
	catalog   *catalog.Catalog
	clock     Clock
	rand      entropy.Source
	placement *entropy.Placement
	log       *EventLog
	state     State

	// opMu orders operations with their notifications, so subscribers see
	// states in the order they were produced.
	opMu    sync.Mutex
	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int

	// OnArrest, if set, receives every completed prestige.
	OnArrest func(Arrest)
}

// NewMachine hosts state. The state's LastTick is left as given.
func NewMachine(cat *catalog.Catalog, state State, opts Options) *Machine {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Rand == nil {
		opts.Rand = entropy.NewSource()
	}
	if opts.Log == nil {
		opts.Log = NewEventLog()
	}
	return &Machine{
		catalog:   cat,
		clock:     opts.Clock,
		rand:      opts.Rand,
		placement: opts.Placement,
		log:       opts.Log,
		state:     state.Clone(),
		subs:      make(map[int]func(State)),
	}
}

func (m *Machine) Catalog() *catalog.Catalog { return m.catalog }
func (m *Machine) Log() *EventLog            { return m.log }

func (m *Machine) env() Env {
	return Env{
		Catalog:   m.catalog,
		Now:       m.clock.Now(),
		Rand:      m.rand,
		Placement: m.placement,
		Log:       m.log,
	}
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Overview returns the current state with its derived values.
func (m *Machine) Overview() (State, Overview) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone(), Describe(m.state, m.env())
}

func (m *Machine) apply(fn func(State, Env) State) State {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	prev := m.state
	next := fn(prev, m.env())
	m.state = next
	m.mu.Unlock()

	logTransition(prev, next)
	out := next.Clone()
	m.notify(out)
	return out
}

func logTransition(prev, next State) {
	if !prev.IsGameOver && next.IsGameOver {
		slog.Info("arrested",
			"run", next.RunID,
			"views", FormatCount(next.ViralViews),
			"money", FormatCount(next.Money),
		)
	}
	if !prev.IsVictory && next.IsVictory {
		slog.Info("victory", "total_earned", FormatCount(next.TotalEarned))
	}
	if n := len(next.UnlockedAchievements); n > len(prev.UnlockedAchievements) {
		for _, id := range next.UnlockedAchievements[len(prev.UnlockedAchievements):] {
			slog.Info("achievement unlocked", "id", id)
		}
	}
}

func (m *Machine) Click() State { return m.apply(Click) }

func (m *Machine) Tick() State { return m.apply(Tick) }

func (m *Machine) CollectGolden() State { return m.apply(CollectGolden) }

func (m *Machine) BuyUpgrade(id string) State {
	return m.apply(func(s State, env Env) State { return BuyUpgrade(s, env, id) })
}

func (m *Machine) UnlockZone(id string) State {
	return m.apply(func(s State, env Env) State { return UnlockZone(s, env, id) })
}

func (m *Machine) SelectZone(id string) State {
	return m.apply(func(s State, env Env) State { return SelectZone(s, env, id) })
}

func (m *Machine) NewGame() State { return m.apply(NewGame) }

func (m *Machine) FullReset() State {
	return m.apply(func(_ State, env Env) State { return FullReset(env) })
}

// Restore replaces the state wholesale, e.g. after loading a save.
func (m *Machine) Restore(s State) State {
	return m.apply(func(State, Env) State { return s.Clone() })
}

// StandTrial resolves the arrest with the named defense and applies the
// verdict. An empty defense id takes the full conviction. It reports false
// when the player is not under arrest or the defense is unknown.
func (m *Machine) StandTrial(defenseID string) (Arrest, bool) {
	var d catalog.Defense
	if defenseID != "" {
		var ok bool
		if d, ok = m.catalog.Defense(defenseID); !ok {
			return Arrest{}, false
		}
	}

	var (
		arrest Arrest
		done   bool
	)
	m.apply(func(s State, env Env) State {
		if !s.IsGameOver {
			return s
		}
		v := trial.Conviction(s.Indict())
		if defenseID != "" {
			v = trial.Resolve(s.Indict(), d, env.Rand)
		}
		s, arrest, done = Prestige(s, env, v)
		return s
	})
	if !done {
		return Arrest{}, false
	}

	slog.Info("trial resolved",
		"outcome", arrest.Outcome,
		"defense", arrest.Defense,
		"sentence", arrest.Sentence,
		"seized", FormatCount(arrest.Seized),
		"kept", FormatCount(arrest.MoneyAfter),
	)
	if m.OnArrest != nil {
		m.OnArrest(arrest)
	}
	return arrest, true
}

// Subscribe registers fn to receive the state after every operation, in
// operation order. fn runs before the next operation starts and must not
// call the Machine's mutating methods. The returned function removes the
// subscription.
func (m *Machine) Subscribe(fn func(State)) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Machine) notify(s State) {
	m.subMu.Lock()
	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
