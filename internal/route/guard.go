// Package route decides which screen a path renders for a given session.
package route

import "strings"

// Well-known paths.
const (
	Root      = "/"
	Login     = "/login"
	Register  = "/register"
	Dashboard = "/dashboard"
)

// Class groups paths by their access policy.
type Class int

const (
	// Neutral paths (root, unknown) always redirect.
	Neutral Class = iota
	// PublicOnly paths are for signed-out users.
	PublicOnly
	// Protected paths require a session.
	Protected
)

func (c Class) String() string {
	switch c {
	case PublicOnly:
		return "public-only"
	case Protected:
		return "protected"
	default:
		return "neutral"
	}
}

// Kind is what the guard decided to do.
type Kind int

const (
	Render Kind = iota
	Redirect
)

// Decision is the guard's verdict for one request.
type Decision struct {
	Kind Kind
	// Path is the path to render, or the redirect target.
	Path string
}

// Normalize trims whitespace and trailing slashes; empty becomes Root.
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	path = strings.TrimRight(path, "/")
	if path == "" {
		return Root
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// Classify returns the class of path.
func Classify(path string) Class {
	switch Normalize(path) {
	case Login, Register:
		return PublicOnly
	case Dashboard:
		return Protected
	default:
		return Neutral
	}
}

// Home returns where a session in the given state belongs.
func Home(isAuthenticated bool) string {
	if isAuthenticated {
		return Dashboard
	}
	return Login
}

// Decide applies the access policy to path.
//
//	class        signed out        signed in
//	public-only  render            -> /dashboard
//	protected    -> /login         render
//	neutral      -> /login         -> /dashboard
func Decide(path string, isAuthenticated bool) Decision {
	path = Normalize(path)
	switch Classify(path) {
	case PublicOnly:
		if isAuthenticated {
			return Decision{Kind: Redirect, Path: Dashboard}
		}
		return Decision{Kind: Render, Path: path}
	case Protected:
		if !isAuthenticated {
			return Decision{Kind: Redirect, Path: Login}
		}
		return Decision{Kind: Render, Path: path}
	default:
		return Decision{Kind: Redirect, Path: Home(isAuthenticated)}
	}
}
