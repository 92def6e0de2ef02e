package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/teamwork/internal/auth"
	"github.com/naveenspark/teamwork/internal/route"
	"github.com/naveenspark/teamwork/pkg/domain"
)

const registerFallbackError = "Registration failed. Please try again."

type registerModel struct {
	auth       *auth.Container
	keys       KeyMap
	form       form
	errs       domain.FieldErrors
	submitting bool
}

// registerResultMsg carries the outcome of Register.
type registerResultMsg struct {
	result auth.Result
}

func newRegisterModel(c *auth.Container, keys KeyMap) registerModel {
	return registerModel{
		auth: c,
		keys: keys,
		form: newForm(
			newField(domain.FieldFullName, "Full Name", "Enter your full name", false),
			newField(domain.FieldEmail, "Email Address", "Enter your email address", false),
			newField(domain.FieldPassword, "Password", "Create a password", true),
			newField(domain.FieldConfirmPassword, "Confirm Password", "Confirm your password", true),
		),
	}
}

func (m registerModel) Init() tea.Cmd {
	return m.form.setFocus(m.form.focus)
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerResultMsg:
		m.submitting = false
		if !msg.result.Success {
			reason := msg.result.Error
			if reason == "" {
				reason = registerFallbackError
			}
			m.errs = domain.FieldErrors{domain.FieldSubmit: reason}
			return m, nil
		}
		m.errs = nil
		m.form.reset()
		return m, navigate(route.Dashboard)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.ToLogin):
			return m, navigate(route.Login)
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

// submit validates the form and, only when it is clean, registers.
func (m registerModel) submit() (registerModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	reg := domain.Registration{
		FullName:        m.form.value(domain.FieldFullName),
		Email:           m.form.value(domain.FieldEmail),
		Password:        m.form.value(domain.FieldPassword),
		ConfirmPassword: m.form.value(domain.FieldConfirmPassword),
	}
	if errs := domain.ValidateRegistration(reg); errs != nil {
		m.errs = errs
		return m, nil
	}
	m.errs = nil
	m.submitting = true
	c := m.auth
	return m, func() tea.Msg {
		return registerResultMsg{result: c.Register(context.Background(), reg)}
	}
}

func (m registerModel) View() string {
	s := titleStyle.Render("Join Our Team") + "\n"
	s += dimStyle.Render("Create your account to start collaborating") + "\n\n"
	s += m.form.view(m.errs)

	label := "Create Account"
	if m.submitting {
		label = "Creating Account..."
	}
	s += "  " + button(label, m.submitting) + "\n"
	if reason, ok := m.errs[domain.FieldSubmit]; ok {
		s += "\n  " + errorStyle.Render(reason) + "\n"
	}
	s += "\n" + dimStyle.Render("Already have an account? ") + accentStyle.Render("ctrl+l") + dimStyle.Render(" to sign in here") + "\n"
	return s
}

func (m registerModel) helpKeys() string {
	return helpLine(m.keys.NextField, m.keys.Submit, m.keys.ToLogin, m.keys.Quit)
}
