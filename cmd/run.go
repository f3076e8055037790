package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/flashmath/internal/app"
	"github.com/abhisek/flashmath/internal/config"
	"github.com/abhisek/flashmath/internal/ledger"
	"github.com/abhisek/flashmath/internal/logging"
	"github.com/abhisek/flashmath/internal/problemgen"
	"github.com/abhisek/flashmath/internal/screen"
	"github.com/abhisek/flashmath/internal/session"
	"github.com/abhisek/flashmath/internal/stats"
	"github.com/abhisek/flashmath/internal/store"
)

// appEnv is everything a command needs: resolved config, the open store,
// the logger and the services built on them.
type appEnv struct {
	cfg      config.Config
	store    *store.Store
	log      *logrus.Logger
	logClose io.Closer
	svc      *screen.Services
}

// openEnv loads config, opens the log file and the store, and wires the
// services.
func openEnv(cmd *cobra.Command) (*appEnv, error) {
	cfg, err := config.Load(config.Options{Flags: cmd.Flags()})
	if err != nil {
		return nil, err
	}

	log, logClose, err := logging.New(cfg.Logging())
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	dbPath := cfg.DB
	if dbPath == "" {
		if dbPath, err = store.DefaultDBPath(); err != nil {
			logClose.Close()
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
	} else if err := store.EnsureDir(dbPath); err != nil {
		logClose.Close()
		return nil, fmt.Errorf("create DB dir: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		logClose.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.WithField("path", dbPath).Debug("store opened")

	gen := problemgen.New(nil, cfg.GeneratorConfig())
	history := stats.NewHistory(st.Local(), cfg.History.Capacity, log)
	l := ledger.New(st.Local(), log, nil)

	return &appEnv{
		cfg:      cfg,
		store:    st,
		log:      log,
		logClose: logClose,
		svc: &screen.Services{
			Machine: session.NewMachine(session.Config{
				Generator: gen,
				Current:   st.Session(),
				History:   history,
				Ledger:    l,
				Logger:    log,
			}),
			Ledger:    l,
			History:   history,
			Generator: gen,
			Log:       log,
		},
	}, nil
}

func (e *appEnv) Close() error {
	return errors.Join(e.store.Close(), e.logClose.Close())
}

// runApp launches the TUI, resuming a stored session if there is one.
func runApp(cmd *cobra.Command, startReview bool) error {
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.svc.Machine.Resume(cmd.Context()); err != nil && !errors.Is(err, session.ErrNoSession) {
		env.log.WithError(err).Warn("resume session")
	}

	return app.Run(app.Options{Services: env.svc, StartReview: startReview})
}
