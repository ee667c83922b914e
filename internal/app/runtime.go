// Package app composes one namespace: config, logging, lock, store,
// session state, reply pipeline and the chat service.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/matheus3301/ora/internal/attachment"
	"github.com/matheus3301/ora/internal/bus"
	"github.com/matheus3301/ora/internal/chat"
	"github.com/matheus3301/ora/internal/config"
	"github.com/matheus3301/ora/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// StopTimeout bounds Close.
const StopTimeout = 5 * time.Second

// Runtime is what front ends drive once the namespace is started.
type Runtime struct {
	Name   string
	Chat   *chat.Service
	Codec  *attachment.Codec
	Config *config.Config
	Bus    *bus.Bus
	KV     *store.KV
	Logger *zap.Logger

	app *fx.App
}

type runtimeDeps struct {
	fx.In

	Params Params
	Chat   *chat.Service
	Codec  *attachment.Codec
	Config *config.Config
	Bus    *bus.Bus
	KV     *store.KV
	Logger *zap.Logger
}

func newRuntime(d runtimeDeps) *Runtime {
	return &Runtime{
		Name:   d.Params.SessionName,
		Chat:   d.Chat,
		Codec:  d.Codec,
		Config: d.Config,
		Bus:    d.Bus,
		KV:     d.KV,
		Logger: d.Logger,
	}
}

// Start builds and starts the namespace. The caller must Close the
// returned runtime.
func Start(ctx context.Context, p Params) (*Runtime, error) {
	var rt *Runtime
	a := fx.New(
		Module(p),
		fx.Provide(newRuntime),
		fx.Populate(&rt),
		fx.NopLogger,
	)
	if err := a.Err(); err != nil {
		return nil, err
	}
	if err := a.Start(ctx); err != nil {
		return nil, fmt.Errorf("start namespace %q: %w", p.SessionName, err)
	}
	rt.app = a
	return rt, nil
}

// Close stops the namespace: pending replies are dropped, the store is
// closed and the lock released.
func (r *Runtime) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), StopTimeout)
	defer cancel()
	return r.app.Stop(ctx)
}

// Keys lists the keys currently stored for the namespace.
func (r *Runtime) Keys() ([]string, error) {
	lister, ok := r.KV.Backend().(interface{ Keys() ([]string, error) })
	if !ok {
		return nil, nil
	}
	return lister.Keys()
}
