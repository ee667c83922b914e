package main

import (
	"github.com/matheus3301/ora/internal/app"
	"github.com/matheus3301/ora/internal/session"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	session string
	json    bool
	memory  bool
	// quiet drops console logging, for front ends that own the terminal.
	quiet   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "ora",
		Short:         "Local chat session with a simulated assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.session, "session", "", "namespace name (overrides config default)")
	flags.BoolVar(&opts.json, "json", false, "output in JSON format")
	flags.BoolVar(&opts.memory, "memory", false, "keep the namespace in memory only")

	cmd.AddCommand(
		newLoginCmd(opts),
		newSendCmd(opts),
		newThreadCmd(opts),
		newSignOutCmd(opts),
		newStatusCmd(opts),
		newTUICmd(opts),
	)
	return cmd
}

// open starts the resolved namespace. The caller must Close the runtime.
func (o *rootOptions) open(cmd *cobra.Command) (*app.Runtime, error) {
	name := session.Resolve(o.session)
	if err := session.ValidateName(name); err != nil {
		return nil, err
	}
	return app.Start(cmd.Context(), app.Params{SessionName: name, MemoryStore: o.memory, Quiet: o.quiet})
}

// withRuntime runs fn against a started namespace and closes it afterwards.
func (o *rootOptions) withRuntime(cmd *cobra.Command, fn func(rt *app.Runtime) error) (err error) {
	rt, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(rt)
}
