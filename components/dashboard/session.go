package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// SessionState tracks the authenticated-fetch flow for one dashboard session.
type SessionState int

// Session states. Ready and Failed are terminal for a fetch cycle; a new
// cycle only begins when the authenticated flag flips false to true again.
const (
	StateUnauthenticated SessionState = iota
	StateAuthenticating
	StateFetching
	StateReady
	StateFailed
)

// String returns the lowercase state name used in logs and payloads.
func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateFetching:
		return "fetching"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// FailureKind classifies fetch-cycle failures.
type FailureKind string

// Failure taxonomy for the authenticated-fetch sequence.
const (
	FailureAuth      FailureKind = "auth"
	FailureTransport FailureKind = "transport"
	FailureDecode    FailureKind = "decode"
	FailureNormalize FailureKind = "normalize"
)

// FetchFailure wraps an error from one fetch cycle with its classification.
type FetchFailure struct {
	Kind  FailureKind
	Cycle string
	Err   error
}

func (f *FetchFailure) Error() string {
	return fmt.Sprintf("dashboard: fetch cycle %s: %s: %v", f.Cycle, f.Kind, f.Err)
}

func (f *FetchFailure) Unwrap() error { return f.Err }

var errMissingCollaborators = errors.New("dashboard: session requires a token source and a bank info client")

// SessionOptions configures a Session. TokenSource and Client are required;
// everything else has a safe default.
type SessionOptions struct {
	TokenSource TokenSource
	Client      BankInfoClient
	Validator   PayloadValidator
	Telemetry   Telemetry
	RefreshHook RefreshHook
	Logger      *slog.Logger

	// Audience/Scope are presented to the token issuer on every cycle.
	Audience string
	Scope    string

	// StrictDates rejects malformed temporal fields as a decode failure
	// instead of degrading them to the zero time.
	StrictDates bool
}

// DefaultScope is the access scope required by the bank info endpoint.
const DefaultScope = "read:bankinfo"

// Session runs the authenticated-fetch-then-normalize sequence. Exactly one
// fetch cycle starts per false-to-true transition of the authenticated flag;
// a cycle already in flight suppresses re-triggering. All failures are caught
// here, logged, and leave the current data untouched.
type Session struct {
	opts SessionOptions

	mu            sync.Mutex
	state         SessionState
	authenticated bool
	inFlight      bool
	data          *AppData
	err           error
}

// NewSession builds a session in the Unauthenticated state.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.TokenSource == nil || opts.Client == nil {
		return nil, errMissingCollaborators
	}
	if opts.Scope == "" {
		opts.Scope = DefaultScope
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Session{opts: opts}, nil
}

// OnAuthStateChange feeds the upstream authenticated flag into the state
// machine. The trigger is edge-based: only a false-to-true transition starts
// a fetch cycle, and at most one cycle runs at a time. An edge that arrives
// while a cycle is in flight is suppressed, not queued; no deferred cycle
// runs when the in-flight one completes. The cycle runs to completion before
// returning; callers that need it off their goroutine wrap the call
// themselves.
func (s *Session) OnAuthStateChange(ctx context.Context, authenticated bool) {
	s.mu.Lock()
	wasAuthenticated := s.authenticated
	s.authenticated = authenticated
	if !authenticated {
		if !s.inFlight {
			s.state = StateUnauthenticated
		}
		s.mu.Unlock()
		return
	}
	if wasAuthenticated || s.inFlight {
		s.mu.Unlock()
		return
	}
	s.inFlight = true
	s.state = StateAuthenticating
	s.mu.Unlock()

	s.runFetchCycle(ctx)
}

// runFetchCycle performs token acquisition, the backend call, validation and
// normalization. It owns the inFlight flag for its duration.
func (s *Session) runFetchCycle(ctx context.Context) {
	cycle := uuid.NewString()
	logger := s.opts.Logger.With("cycle", cycle)

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	token, err := s.opts.TokenSource.Token(ctx, TokenRequest{
		Audience: s.opts.Audience,
		Scope:    s.opts.Scope,
	})
	if err != nil {
		s.fail(ctx, logger, &FetchFailure{Kind: FailureAuth, Cycle: cycle, Err: err})
		return
	}

	s.setState(StateFetching)
	raw, err := s.opts.Client.FetchBankInfo(ctx, token)
	if err != nil {
		s.fail(ctx, logger, &FetchFailure{Kind: FailureTransport, Cycle: cycle, Err: err})
		return
	}

	if s.opts.Validator != nil {
		if err := s.opts.Validator.Validate(raw); err != nil {
			s.fail(ctx, logger, &FetchFailure{Kind: FailureDecode, Cycle: cycle, Err: err})
			return
		}
	}

	var app AppData
	if s.opts.StrictDates {
		app, err = NormalizeStrict(raw)
		if err != nil {
			s.fail(ctx, logger, &FetchFailure{Kind: FailureNormalize, Cycle: cycle, Err: err})
			return
		}
	} else {
		app = Normalize(raw)
	}

	s.mu.Lock()
	s.data = &app
	s.err = nil
	s.state = StateReady
	s.mu.Unlock()

	logger.Info("bank info loaded",
		"bills", len(app.BillData),
		"transaction_days", len(app.TransactionData),
		"credit_scores", len(app.CreditScoreData),
	)
	s.opts.Telemetry.Record(ctx, "dashboard.session.ready", map[string]any{"cycle": cycle})
	_ = s.opts.RefreshHook.DashboardUpdated(ctx, Event{Reason: ReasonDataReady, Cycle: cycle})
}

// fail records a classified failure. Data keeps its previous value so the
// presentation layer continues to treat the session as loading.
func (s *Session) fail(ctx context.Context, logger *slog.Logger, failure *FetchFailure) {
	s.mu.Lock()
	s.err = failure
	s.state = StateFailed
	s.mu.Unlock()

	logger.Error("fetch cycle failed", "kind", string(failure.Kind), "error", failure.Err)
	s.opts.Telemetry.Record(ctx, "dashboard.session.failed", map[string]any{
		"cycle": failure.Cycle,
		"kind":  string(failure.Kind),
	})
	_ = s.opts.RefreshHook.DashboardUpdated(ctx, Event{Reason: ReasonFetchFailed, Cycle: failure.Cycle})
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Data returns the most recent AppData, or nil when no fetch cycle has
// succeeded yet. The returned value is shared and must be treated as
// read-only.
func (s *Session) Data() *AppData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Err returns the failure from the most recent cycle, nil after a success.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

type noopRefreshHook struct{}

func (noopRefreshHook) DashboardUpdated(context.Context, Event) error { return nil }
