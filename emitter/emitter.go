// Package emitter runs a venue display: it renders a fresh deep link at
// every period start and at every QR renewal, and hands it to a sink.
package emitter

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kochabx/clea/core/ntp"
	"github.com/kochabx/clea/location"
	"github.com/kochabx/clea/log"
)

// Emitter owns one Location and serializes every access to it.
type Emitter struct {
	mu sync.Mutex

	cfg     Config
	pending *Config
	loc     *location.Location
	locOpts []location.Option

	sink   Sink
	clock  func() time.Time
	logger *log.Logger

	cron      *cron.Cron
	renewalID cron.EntryID
	interval  uint64

	periodStart  uint64
	periodEnd    uint64
	lastValidity uint64
	emitted      bool

	done     chan struct{}
	stopOnce sync.Once
}

// New creates an emitter for the venue described by cfg.
func New(cfg Config, sink Sink, opts ...Option) (*Emitter, error) {
	o := newOptions(opts)

	e := &Emitter{
		cfg:     cfg,
		sink:    sink,
		clock:   o.clock,
		logger:  o.logger,
		locOpts: append([]location.Option{location.WithLogger(o.logger), location.WithClock(o.clock)}, o.locationOptions...),
		done:    make(chan struct{}),
	}

	loc, err := cfg.Location(e.locOpts...)
	if err != nil {
		return nil, err
	}
	e.loc = loc
	e.interval = loc.LocationSpecificPart().RenewalInterval()
	e.cron = newCron(o.logger, time.UTC)

	return e, nil
}

// Run emits the first link, starts the schedule and blocks until Shutdown.
func (e *Emitter) Run() error {
	if err := e.Tick(); err != nil {
		return err
	}

	if _, err := e.cron.AddFunc(hourly, e.scheduled); err != nil {
		return err
	}
	e.mu.Lock()
	err := e.scheduleRenewal()
	interval := e.interval
	e.mu.Unlock()
	if err != nil {
		return err
	}

	e.cron.Start()
	defer e.cron.Stop()
	e.logger.Info().Uint64("renewal_interval", interval).Msg("emitter started")

	<-e.done
	return nil
}

// Shutdown stops the schedule and waits for a running emission.
func (e *Emitter) Shutdown(ctx context.Context) error {
	e.stopOnce.Do(func() { close(e.done) })

	select {
	case <-e.cron.Stop().Done():
		e.logger.Info().Msg("emitter stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reload stages cfg; it takes effect at the next period start.
func (e *Emitter) Reload(cfg Config) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pending = &cfg
	e.logger.Info().Msg("venue configuration staged for next period")
}

// Tick emits a link when a new period starts or the QR code is due for
// renewal. It is driven by the schedule and safe to call directly.
func (e *Emitter) Tick() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.tick(ntp.FromTime(e.clock()))
}

func (e *Emitter) scheduled() {
	if err := e.Tick(); err != nil {
		e.logger.Error().Err(err).Msg("deep link emission failed")
	}
}

// tick must be called with mu held.
func (e *Emitter) tick(now uint64) error {
	if !e.emitted || now >= e.periodEnd {
		if err := e.startPeriod(now); err != nil {
			return err
		}
	}

	// a clock stepped back stays in the current slot
	now = max(now, e.periodStart)

	validity := e.periodStart
	if e.interval > 0 {
		validity += (now - e.periodStart) / e.interval * e.interval
	}
	if e.emitted && validity <= e.lastValidity {
		return nil
	}

	link, err := e.loc.NewDeepLinkWithValidity(ntp.ToTime(e.periodStart), ntp.ToTime(validity))
	if err != nil {
		return err
	}
	part := e.loc.LocationSpecificPart()

	e.lastValidity = validity
	e.emitted = true

	e.logger.Info().
		Str("ltid", part.TemporaryPublicID.String()).
		Uint32("qr_validity_start", part.QRValidityStart).
		Msg("deep link emitted")

	return e.sink.Emit(link, part)
}

// startPeriod applies a staged configuration and opens the period holding now.
func (e *Emitter) startPeriod(now uint64) error {
	if e.pending != nil {
		if err := e.apply(*e.pending); err != nil {
			e.logger.Error().Err(err).Msg("staged configuration rejected, keeping current venue")
		}
		e.pending = nil
	}

	part := e.loc.LocationSpecificPart()
	e.periodStart = ntp.TruncateHour(now)
	e.periodEnd = e.periodStart + uint64(max(part.PeriodDuration, 1))*ntp.SecondsPerHour
	e.emitted = false

	e.logger.Info().
		Time("period_start", ntp.ToTime(e.periodStart)).
		Time("period_end", ntp.ToTime(e.periodEnd)).
		Msg("period started")

	return nil
}

// apply swaps in a new venue and reschedules renewals if the interval changed.
func (e *Emitter) apply(cfg Config) error {
	loc, err := cfg.Location(e.locOpts...)
	if err != nil {
		return err
	}

	e.cfg = cfg
	e.loc = loc

	interval := loc.LocationSpecificPart().RenewalInterval()
	if interval == e.interval {
		return nil
	}
	e.interval = interval
	return e.scheduleRenewal()
}

// scheduleRenewal must be called with mu held.
func (e *Emitter) scheduleRenewal() error {
	if e.renewalID != 0 {
		e.cron.Remove(e.renewalID)
		e.renewalID = 0
	}
	if e.interval == 0 {
		return nil
	}

	id, err := e.cron.AddFunc(renewalSchedule(e.interval), e.scheduled)
	if err != nil {
		return err
	}
	e.renewalID = id
	return nil
}
