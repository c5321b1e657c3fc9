package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mkwong/payflow/internal/domain/payment"
	"github.com/mkwong/payflow/internal/pkg/clock"
)

// Factory constructs a payment method of one kind from a request.
type Factory func(req payment.Request, clk clock.Clock) (payment.Method, error)

// Registry maps payment kinds to their factories. It implements the open
// variant set: packages outside the core add kinds by registering a factory,
// the dispatcher keeps working through the Method interface unchanged.
type Registry struct {
	mu        sync.RWMutex
	factories map[payment.Kind]Factory
	clk       clock.Clock
}

// New returns an empty registry stamping methods with the given clock.
func New(clk clock.Clock) *Registry {
	if clk == nil {
		clk = clock.System()
	}
	return &Registry{
		factories: make(map[payment.Kind]Factory),
		clk:       clk,
	}
}

// NewWithDefaults returns a registry with the built-in kinds registered.
func NewWithDefaults(clk clock.Clock) *Registry {
	r := New(clk)
	// built-ins cannot collide on a fresh registry
	_ = r.Register(payment.KindCreditCard, func(req payment.Request, clk clock.Clock) (payment.Method, error) {
		return payment.NewCreditCard(req.Amount, req.Payer, req.CardNumber, clk)
	})
	_ = r.Register(payment.KindPayPal, func(req payment.Request, clk clock.Clock) (payment.Method, error) {
		return payment.NewPayPal(req.Amount, req.Payer, req.Email, clk)
	})
	_ = r.Register(payment.KindCash, func(req payment.Request, clk clock.Clock) (payment.Method, error) {
		return payment.NewCash(req.Amount, req.Payer, clk)
	})
	return r
}

func (r *Registry) Register(kind payment.Kind, f Factory) error {
	if kind == "" || f == nil {
		return fmt.Errorf("registry: kind and factory are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("registry: %s: %w", kind, payment.ErrKindRegistered)
	}
	r.factories[kind] = f
	return nil
}

// Create builds a method of the requested kind. Construction errors from the
// factory (invalid amount, payer, payload) pass through unchanged.
func (r *Registry) Create(kind payment.Kind, req payment.Request) (payment.Method, error) {
	r.mu.RLock()
	f, ok := r.factories[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: %s: %w", kind, payment.ErrUnknownKind)
	}
	return f(req, r.clk)
}

// Kinds lists the registered kinds in stable order.
func (r *Registry) Kinds() []payment.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]payment.Kind, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
