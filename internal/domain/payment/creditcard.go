package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkwong/payflow/internal/pkg/clock"
)

// CreditCard is a card-backed payment. The card number is held for the
// (out-of-scope) gateway call and never appears in output.
type CreditCard struct {
	record
	cardNumber string
}

func NewCreditCard(amount float64, payer, cardNumber string, clk clock.Clock) (*CreditCard, error) {
	rec, err := newRecord(amount, payer, clk)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cardNumber) == "" {
		return nil, ErrInvalidCardNumber
	}
	return &CreditCard{record: rec, cardNumber: cardNumber}, nil
}

func (c *CreditCard) Kind() Kind { return KindCreditCard }

func (c *CreditCard) Describe() string { return c.describe(KindCreditCard.Label()) }

func (c *CreditCard) Process(ctx context.Context) (*Outcome, error) {
	_ = ctx
	msg := fmt.Sprintf("Processing Credit Card payment of $%s from %s",
		formatAmount(c.amount), c.payer)
	return c.succeeded(KindCreditCard, msg), nil
}
