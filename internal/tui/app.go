package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/teamwork/internal/auth"
	"github.com/naveenspark/teamwork/internal/route"
)

// Screen names registered with the router.
const (
	screenLogin     = "login"
	screenRegister  = "register"
	screenDashboard = "dashboard"
)

// navigateMsg asks the App to route to path.
type navigateMsg struct {
	path string
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// restoredMsg carries the result of the startup Restore.
type restoredMsg struct {
	result auth.Result
}

// sessionMsg carries a session change published by the container.
type sessionMsg struct {
	session auth.Session
}

// Options configures the App.
type Options struct {
	// StartPath is routed once the session is restored. Default "/".
	StartPath string
	DocsURL   string
	// OpenURL opens a URL in the browser (browser.Open).
	OpenURL func(string) error
	// Copy writes text to the system clipboard (clipboard.WriteAll).
	Copy func(string) error
	// Projects, when set, feeds the dashboard's project count.
	Projects ProjectLister
	Logger   *slog.Logger
}

// App is the root Bubbletea model. It restores the session, then shows
// whichever screen the router resolves for the current path, and
// re-resolves after every session change.
type App struct {
	auth      *auth.Container
	router    *route.Router
	keys      KeyMap
	logger    *slog.Logger
	startPath string

	spinner   spinner.Model
	login     loginModel
	register  registerModel
	dashboard dashboardModel

	session  auth.Session
	restored bool
	screen   string // "" while loading
	notice   string // shown above the help bar until the next key
	width    int
	height   int
	frame    int // banner shimmer frame
}

// NewApp creates the TUI for c.
func NewApp(c *auth.Container, opts Options) App {
	if opts.StartPath == "" {
		opts.StartPath = route.Root
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	keys := DefaultKeyMap
	return App{
		auth: c,
		router: route.NewRouter(map[string]string{
			route.Login:     screenLogin,
			route.Register:  screenRegister,
			route.Dashboard: screenDashboard,
		}),
		keys:      keys,
		logger:    opts.Logger,
		startPath: opts.StartPath,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		login:     newLoginModel(c, keys),
		register:  newRegisterModel(c, keys),
		dashboard: newDashboardModel(c, keys, opts),
		session:   c.Snapshot(),
	}
}

// Watch forwards every session change made by c to p, so routes are
// re-checked no matter which code changed the session.
func Watch(p *tea.Program, c *auth.Container) {
	c.Subscribe(func(s auth.Session) {
		p.Send(sessionMsg{session: s})
	})
}

func (a App) Init() tea.Cmd {
	c := a.auth
	return tea.Batch(a.spinner.Tick, shimmerTickCmd(), func() tea.Msg {
		return restoredMsg{result: c.Restore(context.Background())}
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case spinner.TickMsg:
		if a.screen != "" {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case restoredMsg:
		a.restored = true
		if !msg.result.Success {
			a.notice = msg.result.Error
		}
		a.session = a.auth.Snapshot()
		return a.navigate(a.startPath)

	case sessionMsg:
		a.session = msg.session
		if !a.restored {
			return a, nil
		}
		return a.refresh()

	case navigateMsg:
		return a.navigate(msg.path)

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		if a.screen == "" {
			return a, nil
		}
		a.notice = ""
		switch a.screen {
		case screenDashboard:
			if key.Matches(msg, a.keys.Leave) {
				return a, tea.Quit
			}
		case screenLogin, screenRegister:
			if key.Matches(msg, a.keys.Back) {
				return a.back()
			}
		}
	}

	// Results go to the screen that started the operation even if the
	// session change already routed away from it.
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case loginResultMsg:
		a.login, cmd = a.login.Update(msg)
	case registerResultMsg:
		a.register, cmd = a.register.Update(msg)
	case logoutResultMsg:
		a.dashboard, cmd = a.dashboard.Update(msg)
		// The session is gone either way and the next screen shows why.
		if !msg.result.Success {
			a.notice = msg.result.Error
		}
	default:
		switch a.screen {
		case screenLogin:
			a.login, cmd = a.login.Update(msg)
		case screenRegister:
			a.register, cmd = a.register.Update(msg)
		case screenDashboard:
			a.dashboard, cmd = a.dashboard.Update(msg)
		}
		return a, cmd
	}

	// Auth operations change the session; re-check the route right away
	// rather than waiting for the screen's own navigation.
	a.session = a.auth.Snapshot()
	var routeCmd tea.Cmd
	a, routeCmd = a.refresh()
	return a, tea.Batch(cmd, routeCmd)
}

func (a App) state() route.State {
	return route.State{
		IsAuthenticated: a.session.IsAuthenticated,
		IsLoading:       a.session.IsLoading,
	}
}

func (a App) navigate(path string) (App, tea.Cmd) {
	res, err := a.router.Navigate(path, a.state())
	return a.show(res, err)
}

func (a App) refresh() (App, tea.Cmd) {
	res, err := a.router.Refresh(a.state())
	return a.show(res, err)
}

func (a App) back() (App, tea.Cmd) {
	res, ok, err := a.router.Back(a.state())
	if !ok {
		return a, nil
	}
	return a.show(res, err)
}

// show switches to the screen of res, initializing it on entry.
func (a App) show(res route.Resolution, err error) (App, tea.Cmd) {
	if errors.Is(err, route.ErrLoading) {
		a.screen = ""
		return a, a.spinner.Tick
	}
	if err != nil {
		a.logger.Error("route", "path", res.Requested, "error", err)
		return a, nil
	}
	if res.Redirected {
		a.logger.Debug("redirect", "from", res.Requested, "to", res.Path)
	}
	if res.Screen == a.screen {
		return a, nil
	}
	a.screen = res.Screen
	var cmd tea.Cmd
	switch a.screen {
	case screenLogin:
		cmd = a.login.Init()
	case screenRegister:
		cmd = a.register.Init()
	case screenDashboard:
		// Init updates a.dashboard in place; run it before a is returned.
		cmd = a.dashboard.Init()
	}
	return a, cmd
}

// Path returns the path currently shown.
func (a App) Path() string {
	return a.router.Current()
}

func (a App) View() string {
	header := center(renderBanner(a.frame), a.width) + "\n"

	var body, help string
	switch a.screen {
	case "":
		body = "\n  " + a.spinner.View() + " " + dimStyle.Render("Loading...") + "\n"
		help = helpLine(a.keys.Quit)
	case screenLogin:
		body = a.login.View()
		help = a.login.helpKeys()
	case screenRegister:
		body = a.register.View()
		help = a.register.helpKeys()
	case screenDashboard:
		body = a.dashboard.View()
		help = a.dashboard.helpKeys()
	}
	body = center(strings.TrimRight(body, "\n"), a.width)

	notice := ""
	if a.notice != "" {
		notice = " " + errorStyle.Render(a.notice)
	}

	// Chrome: header(2) + notice(1) + help(1)
	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")
	return header + "\n" + body + "\n" + notice + "\n" + help
}
