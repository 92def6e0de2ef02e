package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/teamwork/internal/auth"
	"github.com/naveenspark/teamwork/internal/route"
	"github.com/naveenspark/teamwork/pkg/domain"
)

// upcomingFeatures is the placeholder list shown until projects land.
var upcomingFeatures = []string{
	"View and manage your projects",
	"Create new projects and tasks",
	"Kanban boards with drag & drop",
	"Task comments and collaboration",
	"Real-time updates",
}

// ProjectLister lists the signed-in user's projects. *client.Client
// satisfies it.
type ProjectLister interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

type dashboardModel struct {
	auth     *auth.Container
	keys     KeyMap
	user     *domain.User
	docsURL  string
	openURL  func(string) error
	copy     func(string) error
	projects ProjectLister

	projectCount   int
	projectsLoaded bool
	status         string
	statusErr      bool
	loggingOut     bool
}

// logoutResultMsg carries the outcome of Logout.
type logoutResultMsg struct {
	result auth.Result
}

// projectsLoadedMsg carries the project count fetched for the header.
type projectsLoadedMsg struct {
	count int
	err   error
}

func newDashboardModel(c *auth.Container, keys KeyMap, opts Options) dashboardModel {
	return dashboardModel{
		auth:     c,
		keys:     keys,
		docsURL:  opts.DocsURL,
		openURL:  opts.OpenURL,
		copy:     opts.Copy,
		projects: opts.Projects,
	}
}

// Init refreshes the user from the session and loads the project count.
func (m *dashboardModel) Init() tea.Cmd {
	m.user = m.auth.Snapshot().User
	m.status = ""
	m.statusErr = false
	if m.projects == nil {
		return nil
	}
	p := m.projects
	return func() tea.Msg {
		list, err := p.ListProjects(context.Background())
		return projectsLoadedMsg{count: len(list), err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		if msg.err == nil {
			m.projectCount = msg.count
			m.projectsLoaded = true
		}
		return m, nil

	case logoutResultMsg:
		m.loggingOut = false
		if msg.result.Success {
			return m, navigate(route.Login)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Logout):
			if m.loggingOut {
				return m, nil
			}
			m.loggingOut = true
			c := m.auth
			return m, func() tea.Msg {
				return logoutResultMsg{result: c.Logout(context.Background())}
			}
		case key.Matches(msg, m.keys.CopyID):
			if m.user == nil || m.copy == nil {
				return m, nil
			}
			if err := m.copy(m.user.ID); err != nil {
				m.setStatus("clipboard unavailable", true)
			} else {
				m.setStatus("copied user id", false)
			}
		case key.Matches(msg, m.keys.OpenDocs):
			if m.docsURL == "" || m.openURL == nil {
				return m, nil
			}
			if err := m.openURL(m.docsURL); err != nil {
				m.setStatus("could not open browser: "+m.docsURL, true)
			} else {
				m.setStatus("opened "+m.docsURL, false)
			}
		}
	}
	return m, nil
}

func (m *dashboardModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m dashboardModel) View() string {
	s := titleStyle.Render("Team Collaboration Tool") + "\n"
	if m.user != nil {
		s += dimStyle.Render(fmt.Sprintf("Welcome back, %s!", m.user.Name)) + "\n"
		s += metaStyle.Render(truncStr(m.user.Email, 40)+" · "+truncStr(m.user.ID, 13)) + "\n"
	}
	if m.projectsLoaded {
		noun := "projects"
		if m.projectCount == 1 {
			noun = "project"
		}
		s += metaStyle.Render(fmt.Sprintf("%d %s", m.projectCount, noun)) + "\n"
	}
	s += "\n"

	s += titleStyle.Render("Welcome to Your Dashboard!") + "\n"
	s += dimStyle.Render("This is a placeholder for the main dashboard. Coming soon:") + "\n\n"

	card := titleStyle.Render("Upcoming Features") + "\n\n"
	for i, f := range upcomingFeatures {
		card += accentStyle.Render("●") + " " + normalStyle.Render(f)
		if i < len(upcomingFeatures)-1 {
			card += "\n"
		}
	}
	s += cardStyle.Render(card) + "\n"

	if m.loggingOut {
		s += "\n" + dimStyle.Render("Logging out...") + "\n"
	} else if m.status != "" {
		style := successStyle
		if m.statusErr {
			style = errorStyle
		}
		s += "\n" + style.Render(m.status) + "\n"
	}
	return s
}

func (m dashboardModel) helpKeys() string {
	return helpLine(m.keys.Logout, m.keys.CopyID, m.keys.OpenDocs, m.keys.Leave)
}
