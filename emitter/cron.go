package emitter

import (
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kochabx/clea/log"
)

// hourly fires at every top of hour, the granularity of period starts.
const hourly = "0 0 * * * *"

// cronLogger routes cron's own messages to zerolog.
type cronLogger struct {
	logger *log.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

func newCron(logger *log.Logger, loc *time.Location) *cron.Cron {
	cl := cronLogger{logger: logger}
	return cron.New(
		cron.WithSeconds(),
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
}

// renewalSchedule returns the cron schedule renewing codes every interval seconds.
func renewalSchedule(interval uint64) string {
	return "@every " + strconv.FormatUint(interval, 10) + "s"
}
