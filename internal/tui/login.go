package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/teamwork/internal/auth"
	"github.com/naveenspark/teamwork/internal/route"
	"github.com/naveenspark/teamwork/pkg/domain"
)

const loginFallbackError = "Login failed. Please try again."

type loginModel struct {
	auth       *auth.Container
	keys       KeyMap
	form       form
	errs       domain.FieldErrors
	submitting bool
}

// loginResultMsg carries the outcome of Authenticate.
type loginResultMsg struct {
	result auth.Result
}

func newLoginModel(c *auth.Container, keys KeyMap) loginModel {
	return loginModel{
		auth: c,
		keys: keys,
		form: newForm(
			newField(domain.FieldEmail, "Email address", "Enter your email address", false),
			newField(domain.FieldPassword, "Password", "Enter your password", true),
		),
	}
}

func (m loginModel) Init() tea.Cmd {
	return m.form.setFocus(m.form.focus)
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitting = false
		if !msg.result.Success {
			reason := msg.result.Error
			if reason == "" {
				reason = loginFallbackError
			}
			m.errs = domain.FieldErrors{domain.FieldSubmit: reason}
			return m, nil
		}
		m.errs = nil
		m.form.reset()
		return m, navigate(route.Dashboard)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.ToRegister):
			return m, navigate(route.Register)
		case key.Matches(msg, m.keys.NextField):
			return m, m.form.next()
		case key.Matches(msg, m.keys.PrevField):
			return m, m.form.prev()
		case key.Matches(msg, m.keys.Submit):
			if !m.form.onLast() {
				return m, m.form.next()
			}
			return m.submit()
		}
	}

	changed, cmd := m.form.update(msg)
	if changed && m.errs != nil {
		m.errs.Clear(m.form.focusedKey())
	}
	return m, cmd
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	creds := domain.Credentials{
		Email:    m.form.value(domain.FieldEmail),
		Password: m.form.value(domain.FieldPassword),
	}
	if errs := domain.ValidateCredentials(creds); errs != nil {
		m.errs = errs
		return m, nil
	}
	m.errs = nil
	m.submitting = true
	c := m.auth
	return m, func() tea.Msg {
		return loginResultMsg{result: c.Authenticate(context.Background(), creds)}
	}
}

func (m loginModel) View() string {
	s := titleStyle.Render("Sign in to your account") + "\n"
	s += dimStyle.Render("Welcome back to the team") + "\n\n"
	s += m.form.view(m.errs)

	label := "Sign in"
	if m.submitting {
		label = "Signing in..."
	}
	s += "  " + button(label, m.submitting) + "\n"
	if reason, ok := m.errs[domain.FieldSubmit]; ok {
		s += "\n  " + errorStyle.Render(reason) + "\n"
	}
	s += "\n" + dimStyle.Render("Don't have an account? ") + accentStyle.Render("ctrl+r") + dimStyle.Render(" to create one") + "\n"
	return s
}

func (m loginModel) helpKeys() string {
	return helpLine(m.keys.NextField, m.keys.Submit, m.keys.ToRegister, m.keys.Quit)
}
