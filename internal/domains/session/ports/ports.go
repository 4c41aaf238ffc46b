package ports

// TokenStorage abstracts durable persistence of the single session token.
// Load returns "" when nothing is stored; Clear on an empty storage is a
// no-op. Implementations are purely local — no storage call touches the
// network.
type TokenStorage interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Listener observes authenticated-state transitions. It is invoked
// synchronously, once per false→true or true→false flip, after the session
// state has settled.
type Listener func(authenticated bool)

// Session is the read surface other components consume. Only the session
// store itself mutates the token.
type Session interface {
	Token() string
	IsAuthenticated() bool
}
