// Package tui is the interactive front end: a login page and a chat page
// with the conversation, a composer and a status bar.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/ora/internal/app"
	"github.com/matheus3301/ora/internal/bus"
	"github.com/matheus3301/ora/internal/chat"
	"github.com/matheus3301/ora/internal/tui/keys"
	"github.com/matheus3301/ora/internal/tui/model"
	"github.com/matheus3301/ora/internal/tui/ui"
	"github.com/matheus3301/ora/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const (
	pageLogin = "login"
	pageChat  = "chat"
)

// App is the main TUI application shell.
type App struct {
	app       *tview.Application
	pages     *tview.Pages
	rt        *app.Runtime
	vm        *model.ViewModel
	registry  *keys.Registry
	theme     *ui.Theme
	login     *views.LoginView
	thread    *views.ThreadView
	composer  *views.Composer
	statusBar *views.StatusBar
	logger    *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates the TUI for a started namespace.
func New(rt *app.Runtime) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		rt:        rt,
		vm:        model.NewViewModel(rt.Name, rt.Chat, rt.Codec, rt.Config.WebSearchDefault),
		registry:  keys.NewRegistry(),
		theme:     theme,
		login:     views.NewLoginView(theme),
		thread:    views.NewThreadView(theme),
		composer:  views.NewComposer(theme),
		statusBar: views.NewStatusBar(theme),
		logger:    rt.Logger.Named("tui"),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyCtrlQ, Description: "^Q:quit", Visible: true,
		Handler: a.Stop,
	})
	a.registry.AddPage(pageChat, &keys.Action{
		Key: tcell.KeyCtrlW, Description: "^W:web search", Visible: true,
		Handler: func() { _ = a.run("/search") },
	})
	a.registry.AddPage(pageChat, &keys.Action{
		Key: tcell.KeyCtrlD, Description: "^D:detach", Visible: true,
		Handler: func() {
			if len(a.vm.Draft.Attachments) > 0 {
				_ = a.run("/detach")
			}
		},
	})
	a.registry.AddPage(pageChat, &keys.Action{
		Key: tcell.KeyTab, Description: "Tab:scroll", Visible: true,
		Handler: a.toggleFocus,
	})
}

func (a *App) setupCallbacks() {
	a.login.SetOnLogin(func(credential string) {
		if err := a.vm.Login(credential); err != nil {
			a.login.ShowError(err.Error())
			return
		}
		a.login.Reset()
		a.refresh()
	})

	a.composer.SetOnSubmit(func(line string) {
		a.handleInput(line)
	})
}

// handleInput runs a composer line. The line is kept on failed sends so
// nothing typed is lost.
func (a *App) handleInput(line string) {
	_, isCommand := model.ParseCommand(line)
	err := a.run(line)
	if isCommand || err == nil {
		a.composer.SetText("")
	}
}

// run executes line through the view model and redraws.
func (a *App) run(line string) error {
	err := a.vm.Input(a.ctx, line)
	switch {
	case errors.Is(err, model.ErrQuit):
		a.Stop()
		return nil
	case errors.Is(err, chat.ErrEmptySubmission):
		// Send stays disabled until there is text or an attachment.
	case err != nil:
		a.vm.Flash.Err(err)
	}
	a.refresh()
	return err
}

func (a *App) toggleFocus() {
	if a.app.GetFocus() == a.composer {
		a.app.SetFocus(a.thread)
		return
	}
	a.app.SetFocus(a.composer)
}

func (a *App) setupLayout() {
	chatFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.thread, 0, 1, false).
		AddItem(a.composer, 3, 0, true)

	a.pages.AddPage(pageLogin, a.login, true, false)
	a.pages.AddPage(pageChat, chatFlex, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		page, _ := a.pages.GetFrontPage()
		if a.registry.HandleEvent(page, event) {
			return nil
		}
		return event
	})
}

// refresh syncs every widget with the session. Must run on the UI
// goroutine.
func (a *App) refresh() {
	page, _ := a.pages.GetFrontPage()
	switch {
	case a.vm.SignedIn() && page != pageChat:
		a.pages.SwitchToPage(pageChat)
		a.app.SetFocus(a.composer)
	case !a.vm.SignedIn() && page != pageLogin:
		a.composer.SetText("")
		a.pages.SwitchToPage(pageLogin)
		a.app.SetFocus(a.login.Input())
	}

	page, _ = a.pages.GetFrontPage()
	a.thread.Update(a.vm.Thread(), a.vm.UserName())
	msg, level := a.vm.Flash.Get()
	a.statusBar.Update(a.vm.Status(), msg, level, a.registry.Hints(page))
}

// watch redraws on session events and expires flash messages.
func (a *App) watch(events <-chan bus.Event) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return
			}
			if evt.Kind == bus.KindLoginFailed {
				a.logger.Debug("login failed event", zap.Any("reason", evt.Payload))
			}
			a.app.QueueUpdateDraw(a.refresh)
		case <-ticker.C:
			a.app.QueueUpdateDraw(a.refresh)
		case <-a.ctx.Done():
			return
		}
	}
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	events, unsubscribe := a.rt.Bus.Subscribe("", 64)
	defer unsubscribe()

	a.refresh()
	go a.watch(events)

	err := a.app.Run()
	a.cancel()
	return err
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
