package access

// Identity is a subject authenticated by the external identity provider.
// It is never persisted by this service.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// SessionState is the externally visible state of an admin session
type SessionState string

const (
	SessionSignedOut  SessionState = "signed_out"
	SessionLoading    SessionState = "loading"
	SessionAuthorized SessionState = "authorized"
)
