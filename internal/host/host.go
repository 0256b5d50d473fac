package host

import (
	"context"
	"sync"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/clock"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"go.uber.org/zap"
)

// endSlack keeps an atEnd re-poll behind the final render
const endSlack = 10 * time.Millisecond

// Source is the widget provider as seen by a host
type Source interface {
	Timeline(ctx context.Context, pc types.PlacementContext) types.Timeline
	Frame(ctx context.Context, entry types.TimelineEntry) ([]byte, bool)
	CompleteAnimation(ctx context.Context, instanceID string) bool
}

// Watcher delivers reload signals
type Watcher interface {
	Start(ctx context.Context, handle func(kinds []string)) (func(), error)
}

// Renderer draws one entry. image is nil when the frame could not be
// resolved; the slot identity should be shown instead.
type Renderer func(kind string, entry types.TimelineEntry, image []byte)

// Config wires a Host
type Config struct {
	Source  Source
	Watcher Watcher
	Render  Renderer
	Kinds   []string
	Family  string
	Clock   clock.Clock
	Logger  *zap.Logger
}

// Host drives widgets the way an OS widget host does: it asks for a
// timeline, renders each entry when its date comes and asks again when the
// refresh policy says so. Every wait is a one-shot timer.
type Host struct {
	source  Source
	watcher Watcher
	render  Renderer
	kinds   []string
	family  string
	clock   clock.Clock
	logger  *zap.Logger

	mu     sync.Mutex
	timers map[string][]*time.Timer
	polls  map[string]int
}

// New creates a host. Kinds defaults to every featured slot kind.
func New(cfg Config) *Host {
	kinds := cfg.Kinds
	if len(kinds) == 0 {
		kinds = types.SlotKinds()
	}
	render := cfg.Render
	if render == nil {
		render = func(string, types.TimelineEntry, []byte) {}
	}
	return &Host{
		source:  cfg.Source,
		watcher: cfg.Watcher,
		render:  render,
		kinds:   kinds,
		family:  cfg.Family,
		clock:   clock.OrSystem(cfg.Clock),
		logger:  logging.Component(cfg.Logger, "host"),
		timers:  make(map[string][]*time.Timer),
		polls:   make(map[string]int),
	}
}

// Kinds returns the widget kinds this host drives
func (h *Host) Kinds() []string {
	return append([]string(nil), h.kinds...)
}

// Polls returns how many timelines were requested for kind
func (h *Host) Polls(kind string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.polls[kind]
}

// Poll replaces whatever is scheduled for kind with a fresh timeline
func (h *Host) Poll(ctx context.Context, kind string) types.Timeline {
	if ctx.Err() != nil {
		return types.Timeline{}
	}

	tl := h.source.Timeline(ctx, types.PlacementContext{Kind: kind, Family: h.family})
	now := h.clock.Now()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelLocked(kind)
	h.polls[kind]++

	for i, entry := range tl.Entries {
		entry := entry
		final := i == len(tl.Entries)-1 && !entry.IsAnimating && tl.Policy.Kind == types.PolicyAtEnd
		h.timers[kind] = append(h.timers[kind], time.AfterFunc(until(now, entry.Date), func() {
			if ctx.Err() != nil {
				return
			}
			image, _ := h.source.Frame(ctx, entry)
			h.render(kind, entry, image)
			if final {
				h.source.CompleteAnimation(ctx, entry.InstanceID)
			}
		}))
	}

	if delay, ok := h.refreshDelay(tl, now); ok {
		h.timers[kind] = append(h.timers[kind], time.AfterFunc(delay, func() {
			h.Poll(ctx, kind)
		}))
	}

	h.logger.Debug("Timeline scheduled",
		zap.String("kind", kind), zap.Int("entries", len(tl.Entries)), zap.Stringer("policy", tl.Policy))
	return tl
}

// refreshDelay turns a refresh policy into a timer delay
func (h *Host) refreshDelay(tl types.Timeline, now time.Time) (time.Duration, bool) {
	switch tl.Policy.Kind {
	case types.PolicyAtEnd:
		last, ok := tl.Last()
		if !ok {
			return 0, false
		}
		return until(now, last.Date) + endSlack, true
	case types.PolicyAfter:
		return tl.Policy.After, true
	default:
		return 0, false
	}
}

func until(now, t time.Time) time.Duration {
	if d := t.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Reload handles a reload signal
func (h *Host) Reload(ctx context.Context, kinds []string) {
	for _, k := range kinds {
		if k == types.KindAll {
			for _, kind := range h.kinds {
				h.Poll(ctx, kind)
			}
			return
		}
	}
	for _, k := range kinds {
		if h.drives(k) {
			h.Poll(ctx, k)
		}
	}
}

func (h *Host) drives(kind string) bool {
	for _, k := range h.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Run polls every kind, follows reload signals and blocks until ctx ends
func (h *Host) Run(ctx context.Context) error {
	if h.watcher != nil {
		stop, err := h.watcher.Start(ctx, func(kinds []string) { h.Reload(ctx, kinds) })
		if err != nil {
			return err
		}
		defer stop()
	}

	for _, kind := range h.kinds {
		h.Poll(ctx, kind)
	}
	h.logger.Info("Host running", zap.Strings("kinds", h.kinds))

	<-ctx.Done()
	h.Stop()
	h.logger.Info("Host stopped")
	return nil
}

// Stop cancels every pending render and re-poll
func (h *Host) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for kind := range h.timers {
		h.cancelLocked(kind)
	}
}

func (h *Host) cancelLocked(kind string) {
	for _, t := range h.timers[kind] {
		t.Stop()
	}
	delete(h.timers, kind)
}
