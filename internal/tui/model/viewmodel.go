package model

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matheus3301/ora/internal/attachment"
	"github.com/matheus3301/ora/internal/chat"
	"github.com/matheus3301/ora/internal/status"
	"github.com/matheus3301/ora/internal/store"
)

// ErrQuit is returned by Input for the quit command.
var ErrQuit = errors.New("quit")

// Status is what the status bar renders.
type Status struct {
	Session     string
	Presence    status.State
	User        string
	Search      bool
	Attachments []string
	Pending     int
}

// ViewModel holds the composer draft and turns composer input into chat
// actions. It is driven from the UI goroutine.
type ViewModel struct {
	session string
	chat    *chat.Service
	codec   *attachment.Codec
	Draft   *chat.Draft
	Flash   Flash
}

// NewViewModel creates a view model for one namespace.
func NewViewModel(session string, svc *chat.Service, codec *attachment.Codec, searchDefault bool) *ViewModel {
	return &ViewModel{
		session: session,
		chat:    svc,
		codec:   codec,
		Draft:   chat.NewDraft(searchDefault),
	}
}

// SignedIn reports whether a profile is present.
func (vm *ViewModel) SignedIn() bool {
	return vm.chat.Profile() != nil
}

// Login signs in with a pasted credential.
func (vm *ViewModel) Login(credential string) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return errors.New("paste a credential first")
	}
	p, err := vm.chat.Login(credential)
	if err != nil {
		return err
	}
	vm.Flash.Info("Signed in as " + p.Name)
	return nil
}

// Thread returns the messages to render, typing indicator included.
func (vm *ViewModel) Thread() store.Thread {
	return vm.chat.View()
}

// UserName is the signed-in user's display name, or "".
func (vm *ViewModel) UserName() string {
	if p := vm.chat.Profile(); p != nil {
		return p.Name
	}
	return ""
}

// Status snapshots the status bar data.
func (vm *ViewModel) Status() Status {
	names := make([]string, len(vm.Draft.Attachments))
	for i, a := range vm.Draft.Attachments {
		names[i] = a.Name
	}
	return Status{
		Session:     vm.session,
		Presence:    vm.chat.Presence(),
		User:        vm.UserName(),
		Search:      vm.Draft.Search,
		Attachments: names,
		Pending:     vm.chat.Pending(),
	}
}

// Input handles one composer line: a command or the message text to send
// together with the pending attachments.
func (vm *ViewModel) Input(ctx context.Context, line string) error {
	if cmd, ok := ParseCommand(line); ok {
		return vm.run(ctx, cmd)
	}

	vm.Draft.Text = Unescape(line)
	if !vm.Draft.CanSend() {
		return chat.ErrEmptySubmission
	}
	if _, err := vm.chat.Submit(vm.Draft.Submission()); err != nil {
		return err
	}
	vm.Draft.Clear()
	return nil
}

func (vm *ViewModel) run(ctx context.Context, cmd Command) error {
	switch cmd.Name {
	case "image", "img":
		return vm.attach(ctx, cmd.Args, store.KindImage)
	case "file":
		return vm.attach(ctx, cmd.Args, store.KindFile)
	case "detach":
		return vm.detach(cmd.Args)
	case "search":
		return vm.search(cmd.Args)
	case "signout", "logout":
		vm.chat.SignOut()
		vm.Draft = chat.NewDraft(vm.Draft.Search)
		vm.Flash.Info("Signed out")
		return nil
	case "quit", "q":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command /%s", cmd.Name)
	}
}

func (vm *ViewModel) attach(ctx context.Context, args string, kind store.AttachmentKind) error {
	paths := strings.Fields(args)
	if len(paths) == 0 {
		return fmt.Errorf("usage: /%s <path>...", kind)
	}

	var (
		sources []attachment.Source
		errs    []error
	)
	for _, p := range paths {
		src, err := attachment.FromPath(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sources = append(sources, src)
	}

	result := vm.codec.EncodeBatch(ctx, sources, kind)
	vm.Draft.Attach(result.Attachments...)
	if err := result.Err(); err != nil {
		errs = append(errs, err)
	}
	if len(result.Attachments) > 0 {
		vm.Flash.Info(fmt.Sprintf("Attached %d %s(s)", len(result.Attachments), kind))
	}
	return errors.Join(errs...)
}

// detach removes the attachment at the 1-based position, or the last one.
func (vm *ViewModel) detach(args string) error {
	n := len(vm.Draft.Attachments)
	if n == 0 {
		return errors.New("no attachments")
	}
	pos := n
	if args != "" {
		v, err := strconv.Atoi(args)
		if err != nil || v < 1 || v > n {
			return fmt.Errorf("usage: /detach [1-%d]", n)
		}
		pos = v
	}
	a := vm.Draft.Attachments[pos-1]
	vm.Draft.Detach(a.ID)
	vm.Flash.Info("Removed " + a.Name)
	return nil
}

func (vm *ViewModel) search(args string) error {
	switch strings.ToLower(args) {
	case "":
		vm.Draft.ToggleSearch()
	case "on":
		vm.Draft.Search = true
	case "off":
		vm.Draft.Search = false
	default:
		return errors.New("usage: /search [on|off]")
	}
	if vm.Draft.Search {
		vm.Flash.Info("Web search on")
	} else {
		vm.Flash.Info("Web search off")
	}
	return nil
}
