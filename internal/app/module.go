package app

import (
	"context"
	"io"

	"github.com/matheus3301/ora/internal/attachment"
	"github.com/matheus3301/ora/internal/bus"
	"github.com/matheus3301/ora/internal/chat"
	"github.com/matheus3301/ora/internal/config"
	"github.com/matheus3301/ora/internal/lock"
	"github.com/matheus3301/ora/internal/logging"
	"github.com/matheus3301/ora/internal/outbox"
	"github.com/matheus3301/ora/internal/reply"
	"github.com/matheus3301/ora/internal/session"
	"github.com/matheus3301/ora/internal/state"
	"github.com/matheus3301/ora/internal/status"
	"github.com/matheus3301/ora/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved namespace passed to the fx module.
type Params struct {
	SessionName string
	// MemoryStore forces the ephemeral backend regardless of config.
	MemoryStore bool
	// Quiet disables console logging; the log file is still written.
	Quiet       bool
}

// Module returns the fx module composing every provider and the
// lifecycle hooks of one namespace.
func Module(p Params) fx.Option {
	return fx.Module("ora",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideBackend,
			provideKV,
			provideState,
			provideScheduler,
			provideSender,
			provideCodec,
			chat.NewService,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	cfg, err := config.Resolve(session.ConfigPath())
	if err != nil {
		return nil, err
	}
	if p.MemoryStore {
		cfg.MemoryStore = true
	}
	return cfg, nil
}

func provideLogger(p Params, cfg *config.Config) (*zap.Logger, error) {
	opts := logging.Options{
		Path:         session.LogPath(p.SessionName),
		Namespace:    p.SessionName,
		ConsoleLevel: cfg.LogLevel,
	}
	if p.Quiet {
		opts.Console = io.Discard
	}
	return logging.New(opts)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(lc fx.Lifecycle, p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := session.EnsureDir(p.SessionName); err != nil {
		return nil, err
	}
	l, err := lock.Acquire(session.Dir(p.SessionName))
	if err != nil {
		return nil, err
	}
	logger.Info("namespace lock acquired")
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := l.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			return nil
		},
	})
	return l, nil
}

// provideBackend depends on the lock so the store is only opened by the
// lock holder and closed before the lock is released.
func provideBackend(lc fx.Lifecycle, p Params, cfg *config.Config, _ *lock.Lock, logger *zap.Logger) (store.Backend, error) {
	if cfg.MemoryStore {
		logger.Info("using memory store")
		return store.NewMemoryBackend(), nil
	}

	dbPath := session.StorePath(p.SessionName)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})
	return db, nil
}

func provideKV(backend store.Backend, logger *zap.Logger) *store.KV {
	return store.NewKV(backend, logger)
}

func provideState(kv *store.KV, b *bus.Bus, logger *zap.Logger) *state.State {
	return state.New(kv, b, logger)
}

func provideScheduler(cfg *config.Config) *reply.Scheduler {
	return reply.NewScheduler(cfg.ReplyDelay)
}

func provideSender(st *state.State, sched *reply.Scheduler, m *status.Machine, b *bus.Bus, logger *zap.Logger) *outbox.Sender {
	return outbox.NewSender(st, sched, m, b, logger)
}

func provideCodec(cfg *config.Config) *attachment.Codec {
	return attachment.NewCodec(cfg.MaxAttachmentBytes)
}

func registerLifecycle(lc fx.Lifecycle, st *state.State, svc *chat.Service, sender *outbox.Sender, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			st.Initialize()
			return svc.Start()
		},
		OnStop: func(context.Context) error {
			sender.Stop()
			logger.Info("namespace closed")
			_ = logger.Sync()
			return nil
		},
	})
}
