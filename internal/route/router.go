package route

import (
	"errors"
	"fmt"
)

// ErrLoading is returned by Resolve while the session is being restored.
// Callers show a loading screen and resolve again afterwards.
var ErrLoading = errors.New("session restore in progress")

// State is the part of the session the router looks at.
type State struct {
	IsAuthenticated bool
	IsLoading       bool
}

// Resolution is the outcome of routing one requested path.
type Resolution struct {
	// Requested is the normalized path that was asked for.
	Requested string
	// Path is the path actually rendered.
	Path string
	// Screen is the screen registered for Path.
	Screen string
	// Redirected is true when Path differs from Requested.
	Redirected bool
}

// Router maps paths to screen names and keeps a navigation history.
type Router struct {
	screens map[string]string
	current string
	history []string
}

// NewRouter returns a router with the given path -> screen table.
func NewRouter(screens map[string]string) *Router {
	table := make(map[string]string, len(screens))
	for p, s := range screens {
		table[Normalize(p)] = s
	}
	return &Router{screens: table, current: Root}
}

// Current returns the path of the last successful navigation.
func (r *Router) Current() string {
	return r.current
}

// Resolve routes path under state without changing the router.
func (r *Router) Resolve(path string, state State) (Resolution, error) {
	requested := Normalize(path)
	if state.IsLoading {
		return Resolution{Requested: requested}, ErrLoading
	}
	// Every redirect target renders under the same state, so one hop is enough.
	d := Decide(requested, state.IsAuthenticated)
	if d.Kind == Redirect {
		d = Decide(d.Path, state.IsAuthenticated)
	}
	screen, ok := r.screens[d.Path]
	if !ok {
		return Resolution{Requested: requested}, fmt.Errorf("route: no screen registered for %s", d.Path)
	}
	return Resolution{
		Requested:  requested,
		Path:       d.Path,
		Screen:     screen,
		Redirected: d.Path != requested,
	}, nil
}

// Navigate resolves path and makes the result current. Redirects replace
// rather than extend the history.
func (r *Router) Navigate(path string, state State) (Resolution, error) {
	res, err := r.Resolve(path, state)
	if err != nil {
		return res, err
	}
	if res.Path != r.current {
		r.history = append(r.history, r.current)
		r.current = res.Path
	}
	return res, nil
}

// Refresh re-resolves the current path, for use after the session changes.
func (r *Router) Refresh(state State) (Resolution, error) {
	res, err := r.Resolve(r.current, state)
	if err != nil {
		return res, err
	}
	r.current = res.Path
	return res, nil
}

// Back navigates to the previous path, re-checked under state. It
// reports false when there is no history.
func (r *Router) Back(state State) (Resolution, bool, error) {
	if len(r.history) == 0 {
		return Resolution{}, false, nil
	}
	prev := r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	res, err := r.Resolve(prev, state)
	if err != nil {
		return res, true, err
	}
	r.current = res.Path
	return res, true, nil
}
