package walletwidget

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// StateKind tags a RenderState.
type StateKind uint8

const (
	StateLoading StateKind = iota
	StateSuccess
	StateAuthError
	StateNetworkError
)

func (k StateKind) String() string {
	switch k {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateAuthError:
		return "auth_error"
	case StateNetworkError:
		return "network_error"
	default:
		return fmt.Sprintf("state(%d)", uint8(k))
	}
}

// RenderState is the per-instance render state:
// Loading | Success(payload) | AuthError | NetworkError(message).
type RenderState struct {
	Kind    StateKind
	Payload json.RawMessage
	Message string
}

// Terminal reports whether no further transition is allowed.
func (s RenderState) Terminal() bool {
	return s.Kind != StateLoading
}

// StateFromOutcome maps a fetch outcome 1:1 onto a terminal state.
func StateFromOutcome(o Outcome) RenderState {
	switch {
	case o.IsOK():
		return RenderState{Kind: StateSuccess, Payload: o.Payload()}
	case o.IsUnauthorized():
		return RenderState{Kind: StateAuthError}
	default:
		return RenderState{Kind: StateNetworkError, Message: o.Reason()}
	}
}

// Instance is one running widget bound to one embed tag.
//
// The container element is written only through the owning Page's lock and
// only by this Instance. Config is fixed at construction.
type Instance struct {
	id        string
	config    InstanceConfig
	endpoint  string
	container *html.Node

	mu    sync.Mutex
	state RenderState
}

// NewInstance creates an Instance in the Loading state with a fresh id.
// container may be nil when the caller renders the instance standalone.
func NewInstance(cfg InstanceConfig, d Descriptor, container *html.Node) *Instance {
	return &Instance{
		id:        uuid.NewString(),
		config:    cfg,
		endpoint:  d.DataEndpoint,
		container: container,
		state:     RenderState{Kind: StateLoading},
	}
}

// ID returns the instance identifier.
func (in *Instance) ID() string { return in.id }

// Config returns the resolved configuration.
func (in *Instance) Config() InstanceConfig { return in.config }

// Endpoint returns the data endpoint the instance fetches.
func (in *Instance) Endpoint() string { return in.endpoint }

// Container returns the element this instance owns, or nil.
func (in *Instance) Container() *html.Node { return in.container }

// State returns the current render state.
func (in *Instance) State() RenderState {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

// Transition moves the instance from Loading to a terminal state.
// Any other transition is rejected with ErrInvalidTransition.
func (in *Instance) Transition(next RenderState) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.state.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, in.state.Kind, next.Kind)
	}
	if !next.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, in.state.Kind, next.Kind)
	}
	in.state = next
	return nil
}
