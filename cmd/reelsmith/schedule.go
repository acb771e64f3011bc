package main

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/backmassage/reelsmith/internal/check"
)

func scheduleCmd(c *cli.Context) error {
	s, err := setup(c, false)
	if err != nil {
		return err
	}
	defer s.log.Close()
	logRunHeader(s)

	if err := check.CheckDeps(&s.cfg); err != nil {
		s.log.Error("%v", err)
		return cli.Exit("", 1)
	}

	ctx, cancel := signalContext(s.log)
	defer cancel()

	w, err := openWorkspace(ctx, &s.cfg, s.log)
	if err != nil {
		s.log.Error("%v", err)
		return cli.Exit("", 1)
	}
	defer w.Close()

	cl := cronLogger{s.log.Zap().Sugar()}
	sched := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	spec, err := cron.ParseStandard(s.cfg.Schedule)
	if err != nil {
		s.log.Error("Invalid schedule %q: %v", s.cfg.Schedule, err)
		return cli.Exit("", 1)
	}
	sched.Schedule(spec, cron.FuncJob(func() {
		if ctx.Err() != nil {
			return
		}
		s.log.Info("Scheduled run starting")
		_ = w.makeOnce(ctx, &s.cfg, s.log)
	}))

	sched.Start()
	s.log.Info("Scheduler started (%s), next run at %s", s.cfg.Schedule, spec.Next(time.Now()).Format("2006-01-02 15:04"))
	<-ctx.Done()

	s.log.Info("Stopping scheduler, waiting for the running job…")
	<-sched.Stop().Done()
	return nil
}

// cronLogger routes cron's own messages into the zap logger; its chatter
// goes to debug.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
