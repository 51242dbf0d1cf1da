package session

// State is the outcome of resolving a request's session: either an Active
// session found in the store or a Fresh one created for this request.
// The set of implementations is closed.
type State interface {
	Session() Session
	Kind() string
	isState()
}

// Active is a session that already existed and was found by its cookie.
type Active struct{ Record Session }

// Fresh is a session created during the current request.
type Fresh struct{ Record Session }

func (a Active) Session() Session { return a.Record }
func (a Active) Kind() string     { return "active" }
func (Active) isState()           {}

func (f Fresh) Session() Session { return f.Record }
func (f Fresh) Kind() string     { return "fresh" }
func (Fresh) isState()           {}
