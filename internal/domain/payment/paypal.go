package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkwong/payflow/internal/pkg/clock"
)

// PayPal is a wallet payment addressed by the payer's account email.
type PayPal struct {
	record
	email string
}

func NewPayPal(amount float64, payer, email string, clk clock.Clock) (*PayPal, error) {
	rec, err := newRecord(amount, payer, clk)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(email) == "" {
		return nil, ErrInvalidEmail
	}
	return &PayPal{record: rec, email: email}, nil
}

func (p *PayPal) Kind() Kind { return KindPayPal }

func (p *PayPal) Describe() string { return p.describe(KindPayPal.Label()) }

func (p *PayPal) Email() string { return p.email }

func (p *PayPal) Process(ctx context.Context) (*Outcome, error) {
	_ = ctx
	msg := fmt.Sprintf("Processing PayPal payment of $%s from %s via %s",
		formatAmount(p.amount), p.payer, p.email)
	return p.succeeded(KindPayPal, msg), nil
}
