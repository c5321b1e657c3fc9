package payment

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mkwong/payflow/internal/pkg/clock"
)

// record holds the attributes every payment method shares. Fields are set at
// construction and never mutated afterwards; the clock is kept so outcomes
// can be stamped without reaching for an ambient time source.
type record struct {
	amount    float64
	payer     string
	createdAt time.Time
	clk       clock.Clock
}

func newRecord(amount float64, payer string, clk clock.Clock) (record, error) {
	if amount <= 0 {
		return record{}, ErrInvalidAmount
	}
	if strings.TrimSpace(payer) == "" {
		return record{}, ErrInvalidPayer
	}
	if clk == nil {
		clk = clock.System()
	}
	return record{
		amount:    amount,
		payer:     payer,
		createdAt: clk.Now().UTC(),
		clk:       clk,
	}, nil
}

func (r record) Amount() float64      { return r.amount }
func (r record) Payer() string        { return r.payer }
func (r record) CreatedAt() time.Time { return r.createdAt }

func (r record) describe(label string) string {
	return fmt.Sprintf("%s payment of $%s from %s at %s",
		label, formatAmount(r.amount), r.payer, r.createdAt.Format(time.RFC3339))
}

func (r record) succeeded(kind Kind, message string) *Outcome {
	return &Outcome{
		Kind:        kind,
		Status:      StatusSuccess,
		Amount:      r.amount,
		Payer:       r.payer,
		Message:     message,
		ProcessedAt: r.clk.Now().UTC(),
	}
}

// formatAmount renders a monetary amount in shortest decimal form with at
// least one fractional digit: 100 -> "100.0", 99.99 -> "99.99".
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
