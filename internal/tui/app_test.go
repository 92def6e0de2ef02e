package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/teamwork/internal/auth"
	"github.com/naveenspark/teamwork/internal/route"
	"github.com/naveenspark/teamwork/internal/storage"
	"github.com/naveenspark/teamwork/pkg/domain"
)

func newTestContainer(t *testing.T) (*auth.Container, *storage.MemoryKV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	return auth.New(storage.NewSessionStore(kv), auth.WithRestoreDelay(0)), kv
}

func newTestApp(c *auth.Container, opts Options) App {
	a := NewApp(c, opts)
	a.width = 100
	a.height = 60
	return a
}

// restored returns a after the startup restore has completed.
func restored(t *testing.T, a App) App {
	t.Helper()
	m, _ := a.Update(restoredMsg{result: a.auth.Restore(context.Background())})
	return m.(App)
}

func press(t *testing.T, a App, msg tea.KeyMsg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText sends s one rune at a time to the focused field.
func typeText(t *testing.T, a App, s string) App {
	t.Helper()
	for _, r := range s {
		a, _ = press(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return a
}

// follow runs cmd, which must be a single command, and feeds its message back.
func follow(t *testing.T, a App, cmd tea.Cmd) (App, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	msg := cmd()
	if _, ok := msg.(tea.BatchMsg); ok {
		t.Fatalf("expected a single command, got batch")
	}
	m, next := a.Update(msg)
	return m.(App), next
}

func signedIn(t *testing.T, kv *storage.MemoryKV, name string) domain.User {
	t.Helper()
	u := domain.User{ID: "user-1", Name: name, Email: "ada@example.com"}
	if err := storage.NewSessionStore(kv).Save(context.Background(), u, "tok"); err != nil {
		t.Fatal(err)
	}
	return u
}

type downKV struct{}

func (downKV) GetItem(context.Context, string) (string, bool, error) {
	return "", false, storage.ErrStorageUnavailable
}
func (downKV) SetItem(context.Context, string, string) error { return storage.ErrStorageUnavailable }
func (downKV) RemoveItem(context.Context, string) error { return storage.ErrStorageUnavailable }

func TestAppShowsLoadingUntilRestored(t *testing.T) {
	c, _ := newTestContainer(t)
	a := newTestApp(c, Options{})

	if a.screen != "" {
		t.Fatalf("screen = %q before restore, want loading", a.screen)
	}
	if !strings.Contains(a.View(), "Loading...") {
		t.Error("loading view missing spinner text")
	}

	// Keys other than quit are ignored while loading.
	a, cmd := press(t, a, runes("x"))
	if cmd != nil || a.screen != "" {
		t.Errorf("key while loading: screen=%q cmd=%v", a.screen, cmd)
	}
}

func TestAppRestoreRoutes(t *testing.T) {
	t.Run("signed out", func(t *testing.T) {
		c, _ := newTestContainer(t)
		a := restored(t, newTestApp(c, Options{}))
		if a.screen != screenLogin || a.Path() != route.Login {
			t.Errorf("screen=%q path=%q, want login", a.screen, a.Path())
		}
	})

	t.Run("signed in", func(t *testing.T) {
		c, kv := newTestContainer(t)
		signedIn(t, kv, "Ada")
		a := restored(t, newTestApp(c, Options{}))
		if a.screen != screenDashboard || a.Path() != route.Dashboard {
			t.Fatalf("screen=%q path=%q, want dashboard", a.screen, a.Path())
		}
		view := a.View()
		for _, want := range []string{"Team Collaboration Tool", "Welcome back, Ada!", "Upcoming Features", "Real-time updates"} {
			if !strings.Contains(view, want) {
				t.Errorf("dashboard view missing %q", want)
			}
		}
	})

	t.Run("protected start path while signed out", func(t *testing.T) {
		c, _ := newTestContainer(t)
		a := restored(t, newTestApp(c, Options{StartPath: "/dashboard"}))
		if a.Path() != route.Login {
			t.Errorf("path = %q, want /login", a.Path())
		}
	})

	t.Run("public start path while signed in", func(t *testing.T) {
		c, kv := newTestContainer(t)
		signedIn(t, kv, "Ada")
		a := restored(t, newTestApp(c, Options{StartPath: "/register"}))
		if a.Path() != route.Dashboard {
			t.Errorf("path = %q, want /dashboard", a.Path())
		}
	})
}

func TestAppDashboardEntryRefreshesState(t *testing.T) {
	c, kv := newTestContainer(t)
	signedIn(t, kv, "Ada")
	a := newTestApp(c, Options{})
	a.dashboard.status = "stale"
	a.dashboard.statusErr = true

	a = restored(t, a)
	if a.screen != screenDashboard {
		t.Fatalf("screen = %q, want dashboard", a.screen)
	}
	if a.dashboard.user == nil || a.dashboard.user.Name != "Ada" {
		t.Errorf("dashboard user = %+v, want Ada", a.dashboard.user)
	}
	if a.dashboard.status != "" || a.dashboard.statusErr {
		t.Errorf("dashboard status = %q (err %v), want cleared", a.dashboard.status, a.dashboard.statusErr)
	}
}

func TestAppRestoreFailureShowsNotice(t *testing.T) {
	c := auth.New(storage.NewSessionStore(downKV{}), auth.WithRestoreDelay(0))
	a := restored(t, newTestApp(c, Options{}))

	if a.screen != screenLogin {
		t.Errorf("screen = %q, want login", a.screen)
	}
	if !strings.Contains(a.View(), auth.ReasonRestoreFailed) {
		t.Errorf("view missing %q", auth.ReasonRestoreFailed)
	}
}

func TestAppQuit(t *testing.T) {
	c, _ := newTestContainer(t)
	a := newTestApp(c, Options{})
	_, cmd := press(t, a, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command on ctrl+c")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}

func TestLoginFlow(t *testing.T) {
	c, kv := newTestContainer(t)
	a := restored(t, newTestApp(c, Options{}))

	a = typeText(t, a, "ada@example.com")
	a, _ = press(t, a, tea.KeyMsg{Type: tea.KeyTab})
	a = typeText(t, a, "secret")
	a, cmd := press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if !a.login.submitting {
		t.Fatal("expected submitting after enter on last field")
	}
	if !strings.Contains(a.View(), "Signing in...") {
		t.Error("busy button label not shown")
	}

	a, _ = follow(t, a, cmd)
	if a.screen != screenDashboard {
		t.Fatalf("screen = %q after login, want dashboard", a.screen)
	}
	if kv.Len() != 2 {
		t.Errorf("store holds %d items, want 2", kv.Len())
	}
	if !strings.Contains(a.View(), "Welcome back, ada!") {
		t.Error("dashboard does not greet the signed-in user")
	}
}

func TestLoginValidation(t *testing.T) {
	c, kv := newTestContainer(t)
	a := restored(t, newTestApp(c, Options{}))

	a, _ = press(t, a, tea.KeyMsg{Type: tea.KeyTab})
	a, cmd := press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("invalid login should not start a request")
	}
	view := a.View()
	for _, want := range []string{"Email is required", "Password is required"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if kv.Len() != 0 {
		t.Error("store written despite invalid form")
	}
}

func TestLoginFailureShowsReason(t *testing.T) {
	c, _ := newTestContainer(t)
	a := restored(t, newTestApp(c, Options{}))

	m, _ := a.Update(loginResultMsg{result: auth.Result{Error: auth.ReasonSaveFailed}})
	a = m.(App)
	if a.screen != screenLogin || !strings.Contains(a.View(), auth.ReasonSaveFailed) {
		t.Errorf("screen=%q, want login with %q", a.screen, auth.ReasonSaveFailed)
	}

	m, _ = a.Update(loginResultMsg{result: auth.Result{}})
	a = m.(App)
	if !strings.Contains(a.View(), loginFallbackError) {
		t.Errorf("view missing fallback %q", loginFallbackError)
	}
}

// toRegister moves a signed-out app from /login to /register.
func toRegister(t *testing.T, a App) App {
	t.Helper()
	a, cmd := press(t, a, tea.KeyMsg{Type: tea.KeyCtrlR})
	a, _ = follow(t, a, cmd)
	if a.screen != screenRegister {
		t.Fatalf("screen = %q, want register", a.screen)
	}
	return a
}

// fillRegistration types the four registration fields and leaves focus
// on the last one.
func fillRegistration(t *testing.T, a App, name, email, password, confirm string) App {
	t.Helper()
	for i, v := range []string{name, email, password, confirm} {
		a = typeText(t, a, v)
		if i < 3 {
			a, _ = press(t, a, tea.KeyMsg{Type: tea.KeyTab})
		}
	}
	return a
}

func TestRegisterValidationBlocksSubmit(t *testing.T) {
	c, kv := newTestContainer(t)
	a := toRegister(t, restored(t, newTestApp(c, Options{})))

	for i := 0; i < 3; i++ {
		a, _ = press(t, a, tea.KeyMsg{Type: tea.KeyTab})
	}
	a, cmd := press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("invalid registration should not start a request")
	}
	view := a.View()
	for _, want := range []string{
		"Full name is required",
		"Email is required",
		"Password is required",
		"Please confirm your password",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if kv.Len() != 0 {
		t.Error("store written despite invalid form")
	}
}

func TestRegisterFieldRules(t *testing.T) {
	tests := []struct {
		name                     string
		email, password, confirm string
		want                     string
	}{
		{"bad email", "ada", "secret", "secret", "Please enter a valid email address"},
		{"short password", "ada@example.com", "12345", "12345", "Password must be at least 6 characters long"},
		{"mismatch", "ada@example.com", "secret", "secrex", "Passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContainer(t)
			a := toRegister(t, restored(t, newTestApp(c, Options{})))
			a = fillRegistration(t, a, "Ada Lovelace", tt.email, tt.password, tt.confirm)
			a, cmd := press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
			if cmd != nil {
				t.Error("invalid registration should not start a request")
			}
			if !strings.Contains(a.View(), tt.want) {
				t.Errorf("view missing %q", tt.want)
			}
		})
	}
}

func TestRegisterEditClearsFieldError(t *testing.T) {
	c, _ := newTestContainer(t)
	a := toRegister(t, restored(t, newTestApp(c, Options{})))

	for i := 0; i < 3; i++ {
		a, _ = press(t, a, tea.KeyMsg{Type: tea.KeyTab})
	}
	a, _ = press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := a.register.errs[domain.FieldConfirmPassword]; !ok {
		t.Fatal("expected a confirm password error")
	}

	a = typeText(t, a, "x")
	if _, ok := a.register.errs[domain.FieldConfirmPassword]; ok {
		t.Error("editing confirm password did not clear its error")
	}
	if _, ok := a.register.errs[domain.FieldFullName]; !ok {
		t.Error("editing one field cleared another field's error")
	}
}

func TestRegisterSuccess(t *testing.T) {
	c, kv := newTestContainer(t)
	a := toRegister(t, restored(t, newTestApp(c, Options{})))
	a = fillRegistration(t, a, "Ada Lovelace", "ada@example.com", "secret", "secret")

	a, cmd := press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(a.View(), "Creating Account...") {
		t.Error("busy button label not shown")
	}

	// Submit is disabled while the request is in flight.
	a, again := press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if again != nil {
		t.Error("second submit started another request")
	}

	a, _ = follow(t, a, cmd)
	if a.screen != screenDashboard {
		t.Fatalf("screen = %q, want dashboard", a.screen)
	}
	if !strings.Contains(a.View(), "Welcome back, Ada Lovelace!") {
		t.Error("dashboard does not greet the new user")
	}
	if kv.Len() != 2 {
		t.Errorf("store holds %d items, want 2", kv.Len())
	}
	if a.register.form.value(domain.FieldEmail) != "" {
		t.Error("registration form not reset after success")
	}
}

func TestRegisterSaveFailure(t *testing.T) {
	c, kv := newTestContainer(t)
	kv.FailWrites = true
	a := toRegister(t, restored(t, newTestApp(c, Options{})))
	a = fillRegistration(t, a, "Ada Lovelace", "ada@example.com", "secret", "secret")

	a, cmd := press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	a, _ = follow(t, a, cmd)
	if a.screen != screenRegister {
		t.Errorf("screen = %q, want register", a.screen)
	}
	if a.register.submitting {
		t.Error("still submitting after failure")
	}
	if !strings.Contains(a.View(), auth.ReasonSaveFailed) {
		t.Errorf("view missing %q", auth.ReasonSaveFailed)
	}
}

func TestRegisterFallbackMessage(t *testing.T) {
	c, _ := newTestContainer(t)
	a := toRegister(t, restored(t, newTestApp(c, Options{})))
	m, _ := a.Update(registerResultMsg{result: auth.Result{}})
	a = m.(App)
	if !strings.Contains(a.View(), "Registration failed. Please try again.") {
		t.Error("fallback message not shown")
	}
}

func TestBackFromRegister(t *testing.T) {
	c, _ := newTestContainer(t)
	a := toRegister(t, restored(t, newTestApp(c, Options{})))
	a, _ = press(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.screen != screenLogin {
		t.Errorf("screen = %q after esc, want login", a.screen)
	}

	a, cmd := press(t, a, tea.KeyMsg{Type: tea.KeyCtrlR})
	a, _ = follow(t, a, cmd)
	a, cmd = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlL})
	a, _ = follow(t, a, cmd)
	if a.screen != screenLogin {
		t.Errorf("screen = %q after ctrl+l, want login", a.screen)
	}
}

func TestDashboardLogout(t *testing.T) {
	c, kv := newTestContainer(t)
	signedIn(t, kv, "Ada")
	a := restored(t, newTestApp(c, Options{}))

	a, cmd := press(t, a, runes("L"))
	if !strings.Contains(a.View(), "Logging out...") {
		t.Error("logout progress not shown")
	}
	a, _ = follow(t, a, cmd)
	if a.screen != screenLogin {
		t.Errorf("screen = %q after logout, want login", a.screen)
	}
	if kv.Len() != 0 {
		t.Errorf("store holds %d items after logout", kv.Len())
	}
}

func TestDashboardLogoutFailure(t *testing.T) {
	c, kv := newTestContainer(t)
	signedIn(t, kv, "Ada")
	a := restored(t, newTestApp(c, Options{}))
	kv.FailRemoves = true

	a, cmd := press(t, a, runes("L"))
	a, _ = follow(t, a, cmd)
	// The session is reset even though the store could not be cleared.
	if a.screen != screenLogin {
		t.Errorf("screen = %q, want login", a.screen)
	}
	if !strings.Contains(a.View(), auth.ReasonLogoutFailed) {
		t.Errorf("view missing %q", auth.ReasonLogoutFailed)
	}
}

func TestDashboardCopyAndOpen(t *testing.T) {
	c, kv := newTestContainer(t)
	u := signedIn(t, kv, "Ada")

	var copied, opened string
	opts := Options{
		DocsURL: "https://docs.example.com",
		Copy:    func(s string) error { copied = s; return nil },
		OpenURL: func(s string) error { opened = s; return nil },
	}
	a := restored(t, newTestApp(c, opts))

	a, _ = press(t, a, runes("y"))
	if copied != u.ID {
		t.Errorf("copied %q, want %q", copied, u.ID)
	}
	if !strings.Contains(a.View(), "copied user id") {
		t.Error("copy status not shown")
	}

	a, _ = press(t, a, runes("o"))
	if opened != opts.DocsURL {
		t.Errorf("opened %q, want %q", opened, opts.DocsURL)
	}
}

func TestDashboardCopyError(t *testing.T) {
	c, kv := newTestContainer(t)
	signedIn(t, kv, "Ada")
	a := restored(t, newTestApp(c, Options{
		Copy: func(string) error { return errors.New("no clipboard") },
	}))
	a, _ = press(t, a, runes("y"))
	if !strings.Contains(a.View(), "clipboard unavailable") {
		t.Error("copy failure not shown")
	}
}

type fakeProjects struct {
	list []domain.Project
	err  error
}

func (f fakeProjects) ListProjects(context.Context) ([]domain.Project, error) {
	return f.list, f.err
}

func TestDashboardProjectCount(t *testing.T) {
	c, kv := newTestContainer(t)
	signedIn(t, kv, "Ada")
	a := newTestApp(c, Options{Projects: fakeProjects{list: make([]domain.Project, 3)}})

	m, cmd := a.Update(restoredMsg{result: c.Restore(context.Background())})
	a = m.(App)
	a, _ = follow(t, a, cmd)
	if !strings.Contains(a.View(), "3 projects") {
		t.Error("project count not shown")
	}
}

func TestSessionChangeRefreshesRoute(t *testing.T) {
	c, kv := newTestContainer(t)
	signedIn(t, kv, "Ada")
	a := restored(t, newTestApp(c, Options{}))

	if r := c.Logout(context.Background()); !r.Success {
		t.Fatalf("Logout() = %+v", r)
	}
	m, _ := a.Update(sessionMsg{session: c.Snapshot()})
	a = m.(App)
	if a.screen != screenLogin {
		t.Errorf("screen = %q after external logout, want login", a.screen)
	}
}

func TestSessionChangeBeforeRestoreIsDeferred(t *testing.T) {
	c, _ := newTestContainer(t)
	a := newTestApp(c, Options{})
	m, _ := a.Update(sessionMsg{session: auth.Session{}})
	a = m.(App)
	if a.screen != "" {
		t.Errorf("screen = %q before restore, want loading", a.screen)
	}
}
