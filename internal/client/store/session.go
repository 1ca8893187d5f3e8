package store

// SessionStatus is the authentication state.
type SessionStatus int

const (
	Anonymous SessionStatus = iota
	Authenticating
	Authenticated
)

func (s SessionStatus) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// SessionExpiredMessage is stored when the server rejects a held token.
const SessionExpiredMessage = "Your session has expired. Please sign in again."

// SessionState is the session snapshot. Token is "" when absent.
type SessionState struct {
	Status        SessionStatus
	Token         string
	RequestStatus RequestStatus
	ErrorMessage  string
}

// IsAuthenticated is true iff a token is held.
func (s SessionState) IsAuthenticated() bool {
	return s.Token != ""
}

// InitialSession seeds the state from the token persisted by a previous
// run; "" yields Anonymous.
func InitialSession(persistedToken string) SessionState {
	if persistedToken == "" {
		return SessionState{Status: Anonymous}
	}
	return SessionState{Status: Authenticated, Token: persistedToken}
}

// SessionEvent is implemented by the session events below.
type SessionEvent interface {
	sessionEvent()
}

type (
	LoginStarted   struct{}
	LoginSucceeded struct{ Token string }
	LoginFailed    struct{ Message string }
	LoggedOut      struct{}
	// SessionExpired: the server rejected the held token.
	SessionExpired      struct{}
	SessionErrorCleared struct{}
)

func (LoginStarted) sessionEvent()        {}
func (LoginSucceeded) sessionEvent()      {}
func (LoginFailed) sessionEvent()         {}
func (LoggedOut) sessionEvent()           {}
func (SessionExpired) sessionEvent()      {}
func (SessionErrorCleared) sessionEvent() {}

// ReduceSession applies ev to s.
//
//	Anonymous      --LoginStarted-->   Authenticating
//	Authenticating --LoginSucceeded--> Authenticated
//	Authenticating --LoginFailed-->    Anonymous
//	any            --LoggedOut-->      Anonymous
//	any            --SessionExpired--> Anonymous
//
// A login started while already Authenticated moves back to
// Authenticating and drops the old token, so Status and Token never
// disagree.
func ReduceSession(s SessionState, ev SessionEvent) SessionState {
	switch e := ev.(type) {
	case LoginStarted:
		return SessionState{Status: Authenticating, RequestStatus: Pending}

	case LoginSucceeded:
		if e.Token == "" {
			return SessionState{Status: Anonymous, RequestStatus: Failed, ErrorMessage: "Login failed"}
		}
		return SessionState{Status: Authenticated, Token: e.Token, RequestStatus: Idle}

	case LoginFailed:
		return SessionState{Status: Anonymous, RequestStatus: Failed, ErrorMessage: e.Message}

	case LoggedOut:
		return SessionState{Status: Anonymous, RequestStatus: Idle}

	case SessionExpired:
		return SessionState{Status: Anonymous, RequestStatus: Idle, ErrorMessage: SessionExpiredMessage}

	case SessionErrorCleared:
		s.ErrorMessage = ""
		return s
	}
	return s
}
