package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matheus3301/ora/internal/app"
	"github.com/matheus3301/ora/internal/attachment"
	"github.com/matheus3301/ora/internal/bus"
	"github.com/matheus3301/ora/internal/chat"
	"github.com/matheus3301/ora/internal/session"
	"github.com/matheus3301/ora/internal/store"
	"github.com/matheus3301/ora/internal/tui"
	"github.com/spf13/cobra"
)

// replyWait bounds how long send waits for the assistant after the last
// scheduled delay.
const replyWait = 10 * time.Second

func newLoginCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <credential>",
		Short: "Sign in with an identity provider credential (JWT)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRuntime(cmd, func(rt *app.Runtime) error {
				profile, err := rt.Chat.Login(strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), profile)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", profile.Name, profile.Email)
				return nil
			})
		},
	}
}

func newSendCmd(opts *rootOptions) *cobra.Command {
	var (
		images []string
		files  []string
		search bool
		noWait bool
	)
	cmd := &cobra.Command{
		Use:   "send [text...]",
		Short: "Send a message and wait for the assistant's reply",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRuntime(cmd, func(rt *app.Runtime) error {
				draft := chat.NewDraft(rt.Config.WebSearchDefault)
				if cmd.Flags().Changed("search") {
					draft.Search = search
				}
				draft.Text = strings.Join(args, " ")
				draft.Attach(encode(cmd, rt.Codec, images, store.KindImage)...)
				draft.Attach(encode(cmd, rt.Codec, files, store.KindFile)...)

				if !draft.CanSend() {
					return chat.ErrEmptySubmission
				}

				events, unsubscribe := rt.Bus.Subscribe("assistant.", 16)
				defer unsubscribe()

				before := len(rt.Chat.View())
				if _, err := rt.Chat.Submit(draft.Submission()); err != nil {
					return err
				}
				if !noWait {
					if err := waitForReplies(cmd.Context(), rt, events); err != nil {
						return err
					}
				}
				return printThread(cmd.OutOrStdout(), opts.json, rt.Chat.View()[before:])
			})
		},
	}
	cmd.Flags().StringArrayVar(&images, "image", nil, "attach an image (repeatable)")
	cmd.Flags().StringArrayVar(&files, "file", nil, "attach a file (repeatable)")
	cmd.Flags().BoolVar(&search, "search", true, "ask the assistant to search the web")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "return without waiting for the reply")
	return cmd
}

// encode reads the given paths. Files that fail are reported and skipped.
func encode(cmd *cobra.Command, codec *attachment.Codec, paths []string, kind store.AttachmentKind) []store.Attachment {
	if len(paths) == 0 {
		return nil
	}
	var sources []attachment.Source
	for _, p := range paths {
		src, err := attachment.FromPath(p)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipping %s: %v\n", p, err)
			continue
		}
		sources = append(sources, src)
	}
	result := codec.EncodeBatch(cmd.Context(), sources, kind)
	for _, e := range result.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", e)
	}
	return result.Attachments
}

// waitForReplies blocks until the assistant is no longer busy.
func waitForReplies(ctx context.Context, rt *app.Runtime, events <-chan bus.Event) error {
	timeout := time.Duration(rt.Chat.Pending())*rt.Config.ReplyDelay + replyWait
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for rt.Chat.Pending() > 0 {
		select {
		case evt := <-events:
			if evt.Kind == bus.KindBusyChanged && evt.Payload == false {
				return nil
			}
		case <-timer.C:
			return errors.New("timed out waiting for the assistant")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func newThreadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "thread",
		Short: "Print the conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withRuntime(cmd, func(rt *app.Runtime) error {
				return printThread(cmd.OutOrStdout(), opts.json, rt.Chat.View())
			})
		},
	}
}

func newSignOutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out and erase the stored profile and conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withRuntime(cmd, func(rt *app.Runtime) error {
				rt.Chat.SignOut()
				if !opts.json {
					fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				}
				return nil
			})
		},
	}
}

type statusReport struct {
	Session    string             `json:"session"`
	Presence   string             `json:"presence"`
	Profile    *store.UserProfile `json:"profile,omitempty"`
	Messages   int                `json:"messages"`
	Keys       []string           `json:"keys"`
	Namespaces []string           `json:"namespaces"`
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show namespace status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withRuntime(cmd, func(rt *app.Runtime) error {
				keys, err := rt.Keys()
				if err != nil {
					return err
				}
				names, err := session.List()
				if err != nil {
					return err
				}
				report := statusReport{
					Session:    rt.Name,
					Presence:   string(rt.Chat.Presence()),
					Profile:    rt.Chat.Profile(),
					Messages:   len(rt.Chat.View()),
					Keys:       keys,
					Namespaces: names,
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), report)
				}
				printStatus(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.quiet = true
			return opts.withRuntime(cmd, func(rt *app.Runtime) error {
				return tui.New(rt).Run()
			})
		},
	}
}
