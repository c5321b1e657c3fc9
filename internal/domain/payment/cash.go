package payment

import (
	"context"
	"fmt"

	"github.com/mkwong/payflow/internal/pkg/clock"
)

// Cash is a payment with no kind-specific payload.
type Cash struct {
	record
}

func NewCash(amount float64, payer string, clk clock.Clock) (*Cash, error) {
	rec, err := newRecord(amount, payer, clk)
	if err != nil {
		return nil, err
	}
	return &Cash{record: rec}, nil
}

func (c *Cash) Kind() Kind { return KindCash }

func (c *Cash) Describe() string { return c.describe(KindCash.Label()) }

func (c *Cash) Process(ctx context.Context) (*Outcome, error) {
	_ = ctx
	msg := fmt.Sprintf("Processing Cash payment of $%s from %s",
		formatAmount(c.amount), c.payer)
	return c.succeeded(KindCash, msg), nil
}
