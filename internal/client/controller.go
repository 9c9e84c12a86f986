// Package client drives the vendor dashboard: the duplicate buttons and the
// paginated product listing. It talks to the ajax endpoint and reports
// progress through small view interfaces so any front end can host it.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default request timeouts
const (
	DefaultDuplicateTimeout = 30 * time.Second
	DefaultListTimeout      = 15 * time.Second
)

var (
	ErrNotInitialized     = errors.New("client: controller not initialized")
	ErrAlreadyInitialized = errors.New("client: controller already initialized")
	ErrMissingConfig      = errors.New("client: ajax url and nonces are required")
)

// State is the lifecycle of one duplicate button
type State int

const (
	StateIdle State = iota
	StateConfirming
	StateProcessing
	StateDuplicated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfirming:
		return "confirming"
	case StateProcessing:
		return "processing"
	case StateDuplicated:
		return "duplicated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome reports what a click did
type Outcome int

const (
	// OutcomeIgnored means the control was busy or already finished
	OutcomeIgnored Outcome = iota
	OutcomeCancelled
	OutcomeSucceeded
	OutcomeFailed
)

// Config is injected by the dashboard bootstrap
type Config struct {
	AjaxURL   string
	Nonce     string
	ListNonce string
	// Token is the session bearer token. Empty when the host already
	// authenticates requests, e.g. through a cookie jar.
	Token            string
	DuplicateTimeout time.Duration
	ListTimeout      time.Duration
}

// Transport performs the two dashboard actions
type Transport interface {
	Duplicate(ctx context.Context, nonce string, productID int64) (int64, error)
	FetchProducts(ctx context.Context, nonce string, page int) (*ListPage, error)
}

// Confirmer shows the interstitial prompt before a duplication
type Confirmer interface {
	Confirm(ctx context.Context, productID int64) bool
}

// Notifier shows success and error notifications
type Notifier interface {
	Success(message string)
	Error(message string)
}

// RowView reflects button state in the listing
type RowView interface {
	SetBusy(productID int64, busy bool)
	MarkDuplicated(productID, newProductID int64)
}

// ListView renders a freshly loaded listing page
type ListView interface {
	Render(page *ListPage)
}

// Dependencies are the collaborators of a Controller. Transport may be nil,
// in which case Init creates an AjaxClient for Config.AjaxURL.
type Dependencies struct {
	Transport Transport
	Confirmer Confirmer
	Notifier  Notifier
	Rows      RowView
	List      ListView
	Logger    *zap.Logger
}

// Controller owns the per-button state machines and the listing loading
// flag. Buttons are independent: two products may be duplicated at once,
// but one button never has more than one request in flight.
type Controller struct {
	cfg  Config
	deps Dependencies

	mu          sync.Mutex
	initialized bool
	buttons     map[int64]State
	loading     bool
}

// NewController creates a controller. Call Init before use.
func NewController(cfg Config, deps Dependencies) *Controller {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Controller{
		cfg:     cfg,
		deps:    deps,
		buttons: make(map[int64]State),
	}
}

// Init validates the configuration and readies the controller. It may be
// called once per controller.
func (c *Controller) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return ErrAlreadyInitialized
	}
	if c.cfg.AjaxURL == "" || c.cfg.Nonce == "" || c.cfg.ListNonce == "" {
		return ErrMissingConfig
	}
	if c.cfg.DuplicateTimeout <= 0 {
		c.cfg.DuplicateTimeout = DefaultDuplicateTimeout
	}
	if c.cfg.ListTimeout <= 0 {
		c.cfg.ListTimeout = DefaultListTimeout
	}
	if c.deps.Transport == nil {
		c.deps.Transport = NewAjaxClient(c.cfg.AjaxURL, WithBearerToken(c.cfg.Token))
	}
	c.initialized = true
	return nil
}

// State returns the current state of a product's duplicate button
func (c *Controller) State(productID int64) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buttons[productID]
}

// Loading reports whether a listing page is being fetched
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ClickDuplicate runs the duplicate flow for one button. It blocks until
// the flow ends and is safe to call from several goroutines.
func (c *Controller) ClickDuplicate(ctx context.Context, productID int64) (Outcome, error) {
	if !c.transition(productID, StateIdle, StateConfirming) {
		if !c.isInitialized() {
			return OutcomeIgnored, ErrNotInitialized
		}
		return OutcomeIgnored, nil
	}

	if c.deps.Confirmer != nil && !c.deps.Confirmer.Confirm(ctx, productID) {
		c.setState(productID, StateIdle)
		return OutcomeCancelled, nil
	}

	// busy before the request goes out
	c.setState(productID, StateProcessing)
	c.setBusy(productID, true)

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.DuplicateTimeout)
	defer cancel()

	newID, err := c.deps.Transport.Duplicate(reqCtx, c.cfg.Nonce, productID)
	if err != nil {
		c.deps.Logger.Warn("Duplicate failed",
			zap.Int64("product_id", productID),
			zap.Error(err),
		)
		c.setState(productID, StateIdle)
		c.setBusy(productID, false)
		c.notifyError(failureMessage(reqCtx, err))
		return OutcomeFailed, err
	}

	c.setState(productID, StateDuplicated)
	if c.deps.Rows != nil {
		c.deps.Rows.MarkDuplicated(productID, newID)
	}
	if c.deps.Notifier != nil {
		c.deps.Notifier.Success(fmt.Sprintf("Product duplicated. New product #%d is in your catalog.", newID))
	}
	return OutcomeSucceeded, nil
}

// ClickPage loads a listing page. Clicks while a page is loading are ignored.
func (c *Controller) ClickPage(ctx context.Context, page int) (Outcome, error) {
	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return OutcomeIgnored, ErrNotInitialized
	}
	if c.loading {
		c.mu.Unlock()
		return OutcomeIgnored, nil
	}
	c.loading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.ListTimeout)
	defer cancel()

	result, err := c.deps.Transport.FetchProducts(reqCtx, c.cfg.ListNonce, page)
	if err != nil {
		c.deps.Logger.Warn("Listing fetch failed", zap.Int("page", page), zap.Error(err))
		c.notifyError(failureMessage(reqCtx, err))
		return OutcomeFailed, err
	}
	if c.deps.List != nil {
		c.deps.List.Render(result)
	}
	return OutcomeSucceeded, nil
}

func (c *Controller) isInitialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// transition moves a button from one state to another atomically
func (c *Controller) transition(productID int64, from, to State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized || c.buttons[productID] != from {
		return false
	}
	c.buttons[productID] = to
	return true
}

func (c *Controller) setState(productID int64, s State) {
	c.mu.Lock()
	c.buttons[productID] = s
	c.mu.Unlock()
}

func (c *Controller) setBusy(productID int64, busy bool) {
	if c.deps.Rows != nil {
		c.deps.Rows.SetBusy(productID, busy)
	}
}

func (c *Controller) notifyError(message string) {
	if c.deps.Notifier != nil {
		c.deps.Notifier.Error(message)
	}
}

func failureMessage(reqCtx context.Context, err error) string {
	var remote *RemoteError
	switch {
	case errors.As(err, &remote) && remote.Message != "":
		return remote.Message
	case errors.Is(reqCtx.Err(), context.DeadlineExceeded):
		return "The request timed out. Please try again."
	default:
		return "The request failed. Please try again."
	}
}
