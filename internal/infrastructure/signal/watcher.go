package signal

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher delivers reload signals raised by other processes
type Watcher struct {
	dir      string
	debounce time.Duration
	logger   *zap.Logger

	stopOnce sync.Once
}

// NewWatcher watches the signal directory dir (absolute path on disk)
func NewWatcher(dir string, debounce time.Duration, logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 50 * time.Millisecond
	}
	return &Watcher{dir: dir, debounce: debounce, logger: logging.Component(logger, "signal-watcher")}
}

// Start begins watching. handle receives the kinds whose signal changed,
// "all" standing for every kind; bursts within the debounce window are
// merged into one call. Returns a stop function.
func (w *Watcher) Start(ctx context.Context, handle func(kinds []string)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(w.dir); err != nil {
		fw.Close()
		cancel()
		return nil, fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	changes := make(chan string, 64)
	go func() {
		defer fw.Close()
		for {
			select {
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
					continue
				}
				kind, ok := kindOf(ev.Name)
				if !ok {
					continue
				}
				select {
				case changes <- kind:
				case <-ctx.Done():
					return
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("fsnotify error", zap.Error(err))
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(w.debounce)
		defer ticker.Stop()
		pending := map[string]struct{}{}
		for {
			select {
			case k := <-changes:
				pending[k] = struct{}{}
			case <-ticker.C:
				if len(pending) == 0 {
					continue
				}
				kinds := make([]string, 0, len(pending))
				for k := range pending {
					kinds = append(kinds, k)
				}
				pending = map[string]struct{}{}
				handle(kinds)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() { w.stopOnce.Do(cancel) }, nil
}

// kindOf maps a signal file path to its kind, ignoring temp files
func kindOf(name string) (string, bool) {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, ".json") {
		return "", false
	}
	return strings.TrimSuffix(base, ".json"), true
}
