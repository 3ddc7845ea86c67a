package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/steelegbr/alldaydj-sub000/internal/errors"
	"github.com/steelegbr/alldaydj-sub000/store"
)

// DefaultPollInterval is the default period between status re-checks.
const DefaultPollInterval = 5000 * time.Millisecond

// Controller is the stateful orchestrator of the session. It holds the
// current status, re-resolves it on a fixed interval and dispatches a refresh
// call whenever the stage newly becomes AccessTokenRefreshNeeded.
//
// The controller is the single writer of the status record. All other parties
// read snapshots via Status or replace the record via the SetStatus mutator
// and the login/logout/tenancy flows, which are treated as authoritative.
//
// Refresh dispatch is edge-triggered: entering AccessTokenRefreshNeeded moves
// the machine to RefreshingAccessToken and records the refresh token in
// flight, so further ticks observing the same pending token do not issue a
// second concurrent call. A refresh result is dropped if the machine has
// moved on since dispatch, e.g. an explicit logout.
type Controller struct {
	resolver      *Resolver
	refresher     *RefreshCoordinator
	store         store.Store
	log           zerolog.Logger
	interval      time.Duration
	onChange      func(Status)
	initialTenant string

	lock    sync.Mutex
	ctx     context.Context
	status  Status
	pending string // refresh token with an in-flight refresh call

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// ControllerOption modifies a Controller instance.
type ControllerOption func(*Controller)

// WithPollInterval sets the period between status re-checks.
func WithPollInterval(interval time.Duration) ControllerOption {
	return func(c *Controller) {
		c.interval = interval
	}
}

// WithOnChange registers a callback invoked with a snapshot after every
// status replacement, and once from Start with the initial status. The
// callback runs outside the controller's lock.
func WithOnChange(fn func(Status)) ControllerOption {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithInitialTenancy seeds the tenancy carried on the initial status, for
// hosts that persist the selection between runs.
func WithInitialTenancy(tenant string) ControllerOption {
	return func(c *Controller) {
		c.initialTenant = tenant
	}
}

// NewController creates a controller whose initial state is resolved from the
// store. No refresh is dispatched and no timer runs until Start is called.
func NewController(resolver *Resolver, refresher *RefreshCoordinator, st store.Store, log zerolog.Logger, options ...ControllerOption) *Controller {
	controller := &Controller{
		resolver:  resolver,
		refresher: refresher,
		store:     st,
		log:       log,
		interval:  DefaultPollInterval,
		ctx:       context.Background(),
		stop:      make(chan struct{}),
	}
	for _, opt := range options {
		opt(controller)
	}
	controller.status = resolver.Resolve().WithTenant(controller.initialTenant)
	return controller
}

// Start launches the periodic re-check and runs the reactive refresh check
// against the initial status. The timer stops when ctx is cancelled or Close
// is called. Start must be called at most once.
func (c *Controller) Start(ctx context.Context) {
	c.lock.Lock()
	c.ctx = ctx
	if c.status.Stage == StageAccessTokenRefreshNeeded {
		c.dispatchRefreshLocked(c.status)
	}
	callback, snapshot := c.onChange, c.status
	c.lock.Unlock()
	if callback != nil {
		callback(snapshot)
	}

	c.wg.Add(1)
	go c.loop(ctx)
}

// Close stops the periodic re-check and waits for any in-flight refresh
// goroutine to finish.
func (c *Controller) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
	c.wg.Wait()
}

// Status returns a read-only snapshot of the current status.
func (c *Controller) Status() Status {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.status
}

// SetStatus replaces the status wholesale. External mutations bypass the
// state machine's transitions and are authoritative: any in-flight refresh
// result is discarded. Setting a status with stage AccessTokenRefreshNeeded
// dispatches a refresh.
func (c *Controller) SetStatus(next Status) {
	c.lock.Lock()
	c.pending = ""
	c.replaceLocked(next)
	callback, snapshot := c.onChange, c.status
	c.lock.Unlock()
	if callback != nil {
		callback(snapshot)
	}
}

// LoginUser persists the token pair produced by the login flow and replaces
// the status with a fresh resolution of the store. The active tenancy is
// reset; tenancy selection happens post-login.
func (c *Controller) LoginUser(refreshToken, accessToken string) (Status, error) {
	if err := c.store.Set(store.RefreshTokenKey, refreshToken); err != nil {
		return Status{}, errors.Wrapf(err, "failed to persist refresh token")
	}
	if err := c.store.Set(store.AccessTokenKey, accessToken); err != nil {
		return Status{}, errors.Wrapf(err, "failed to persist access token")
	}
	c.SetStatus(c.resolver.Resolve())
	return c.Status(), nil
}

// LogOut clears both token slots and drops the session to Unauthenticated.
func (c *Controller) LogOut() error {
	if err := c.store.Remove(store.RefreshTokenKey); err != nil {
		return errors.Wrapf(err, "failed to clear refresh token")
	}
	if err := c.store.Remove(store.AccessTokenKey); err != nil {
		return errors.Wrapf(err, "failed to clear access token")
	}
	c.SetStatus(Status{Stage: StageUnauthenticated})
	return nil
}

// SelectTenancy replaces the status with a copy carrying the given tenancy.
func (c *Controller) SelectTenancy(tenant string) Status {
	c.lock.Lock()
	next := c.status.WithTenant(tenant)
	c.replaceLocked(next)
	callback, snapshot := c.onChange, c.status
	c.lock.Unlock()
	if callback != nil {
		callback(snapshot)
	}
	return snapshot
}

func (c *Controller) loop(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-ticker.C:
			c.recheck()
		}
	}
}

// recheck re-resolves the status from the store and replaces the current
// record when any field differs. The source this client descends from only
// compared stages, silently dropping a token rotated without a stage change;
// full-record comparison is used here instead, with the transition logged
// only when the stage itself moved.
func (c *Controller) recheck() {
	resolved := c.resolver.Resolve()

	c.lock.Lock()
	current := c.status
	// Tenancy is owned by the selection flow, not by token resolution.
	resolved.Tenant = current.Tenant

	// While a refresh is in flight the store still holds the stale pair, so
	// the resolver keeps reporting AccessTokenRefreshNeeded for the pending
	// token. Replacing now would dispatch a duplicate call.
	if current.Stage == StageRefreshingAccessToken && c.pending != "" &&
		resolved.Stage == StageAccessTokenRefreshNeeded && resolved.RefreshToken == c.pending {
		c.lock.Unlock()
		return
	}

	if resolved.Equal(current) {
		c.lock.Unlock()
		return
	}

	c.replaceLocked(resolved)
	callback, snapshot := c.onChange, c.status
	c.lock.Unlock()
	if callback != nil {
		callback(snapshot)
	}
}

// replaceLocked installs the new status and runs the reactive refresh check.
// Callers hold c.lock.
func (c *Controller) replaceLocked(next Status) {
	previous := c.status
	if previous.Stage != next.Stage {
		c.log.Info().
			Str("from", string(previous.Stage)).
			Str("to", string(next.Stage)).
			Msg("session stage changed")
	}
	c.status = next

	if next.Stage == StageAccessTokenRefreshNeeded {
		c.dispatchRefreshLocked(next)
	}
}

// dispatchRefreshLocked marks the refresh token as in flight, moves the
// machine to RefreshingAccessToken and issues the refresh call on its own
// goroutine. Callers hold c.lock.
func (c *Controller) dispatchRefreshLocked(st Status) {
	if c.pending != "" && c.pending == st.RefreshToken {
		return
	}
	c.pending = st.RefreshToken

	refreshing := st
	refreshing.Stage = StageRefreshingAccessToken
	refreshing.AccessToken = ""
	refreshing.AccessTokenExpiry = time.Time{}
	c.status = refreshing

	refreshToken := st.RefreshToken
	ctx := c.ctx
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.refresher.Refresh(ctx, refreshToken, func(result Status) {
			c.completeRefresh(refreshToken, result)
		})
	}()
}

// completeRefresh applies a refresh result, unless the machine has moved on
// since the call was dispatched - e.g. an explicit logout or a rotation of
// the refresh token - in which case the stale result is dropped.
func (c *Controller) completeRefresh(refreshToken string, result Status) {
	c.lock.Lock()
	if c.pending != refreshToken || c.status.Stage != StageRefreshingAccessToken {
		c.lock.Unlock()
		c.log.Debug().Msg("dropping stale refresh result")
		return
	}
	c.pending = ""
	result.Tenant = c.status.Tenant
	c.replaceLocked(result)
	callback, snapshot := c.onChange, c.status
	c.lock.Unlock()
	if callback != nil {
		callback(snapshot)
	}
}
