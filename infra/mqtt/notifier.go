package mqtt

import (
	"context"

	coremetrics "github.com/kilianp07/regcast/core/metrics"
	coremqtt "github.com/kilianp07/regcast/core/mqtt"
	"github.com/kilianp07/regcast/infra/logger"
	"github.com/kilianp07/regcast/internal/eventbus"
)

// Notifier forwards successful forecast events from the bus to a Publisher.
type Notifier struct {
	pub Publisher
	bus *eventbus.Bus[coremetrics.ForecastEvent]
	log logger.Logger
}

// NewNotifier creates a Notifier. A nil logger discards output.
func NewNotifier(pub Publisher, bus *eventbus.Bus[coremetrics.ForecastEvent], log logger.Logger) *Notifier {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Notifier{pub: pub, bus: bus, log: log}
}

// Run publishes events until ctx is canceled or the bus is closed.
func (n *Notifier) Run(ctx context.Context) error {
	ch := n.bus.Subscribe()
	defer n.bus.Unsubscribe(ch)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if ev.Outcome != coremetrics.OutcomeOK {
				continue
			}
			if _, err := n.pub.PublishForecast(ctx, MessageFromEvent(ev)); err != nil {
				n.log.Errorf("publish forecast %s: %v", ev.RequestID, err)
			}
		}
	}
}

// MessageFromEvent converts a forecast event into its broker payload.
func MessageFromEvent(ev coremetrics.ForecastEvent) coremqtt.ForecastMessage {
	return coremqtt.ForecastMessage{
		RequestID:   ev.RequestID,
		Category:    ev.Category,
		TargetYear:  ev.TargetYear,
		Method:      ev.Method.String(),
		RSquared:    ev.Fit.RSquared,
		Predictions: ev.Points,
		Timestamp:   ev.Time.UnixMilli(),
	}
}
