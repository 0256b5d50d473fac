package signal

import (
	"context"
	"fmt"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AniWidgets/internal/providers/storage"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/clock"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/paths"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Signal asks the host to re-poll timelines of one widget kind
type Signal struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Reason     string    `json:"reason"`
	InstanceID string    `json:"instanceId,omitempty"`
	IssuedAt   time.Time `json:"issuedAt"`
}

// Signaler raises reload signals by writing one document per kind. Each
// write replaces the previous signal of that kind; watchers react to the
// change, not to the content.
type Signaler struct {
	store   storage.Store
	clock   clock.Clock
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewSignaler creates a signaler on the shared store
func NewSignaler(store storage.Store, clk clock.Clock, metrics *monitoring.Metrics, logger *zap.Logger) *Signaler {
	return &Signaler{
		store:   store,
		clock:   clock.OrSystem(clk),
		metrics: metrics,
		logger:  logging.Component(logger, "signal"),
	}
}

// Reload signals the host to re-poll widgets of kind
func (s *Signaler) Reload(ctx context.Context, kind, reason, instanceID string) error {
	if kind != types.KindAll {
		if _, err := types.SlotForKind(kind); err != nil {
			return err
		}
	}

	sig := Signal{
		ID:         uuid.NewString(),
		Kind:       kind,
		Reason:     reason,
		InstanceID: instanceID,
		IssuedAt:   s.clock.Now(),
	}
	err := storage.WriteJSON(ctx, s.store, paths.SignalDoc(kind), sig)
	s.metrics.RecordSignal(kind, err)
	if err != nil {
		return fmt.Errorf("failed to raise reload signal: %w", err)
	}

	s.logger.Debug("Reload signal raised",
		zap.String("kind", kind), zap.String("reason", reason), zap.String("signal_id", sig.ID))
	return nil
}

// ReloadAll signals the host to re-poll every widget kind
func (s *Signaler) ReloadAll(ctx context.Context, reason string) error {
	return s.Reload(ctx, types.KindAll, reason, "")
}

// Latest returns the last signal raised for kind
func (s *Signaler) Latest(ctx context.Context, kind string) (Signal, bool) {
	var sig Signal
	if err := storage.ReadJSON(ctx, s.store, paths.SignalDoc(kind), &sig); err != nil {
		return Signal{}, false
	}
	return sig, true
}
