package auth

import "github.com/naveenspark/teamwork/pkg/domain"

// Session is a point-in-time copy of the container's state.
type Session struct {
	User            *domain.User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
}

// Result is the outcome of a container operation. Operations never
// return errors; a failed operation carries a human-readable reason.
type Result struct {
	Success bool
	Error   string
}

func succeeded() Result {
	return Result{Success: true}
}

func failed(reason string) Result {
	return Result{Success: false, Error: reason}
}

func (s Session) clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
