package ops

import (
	"context"
	"testing"
)

func TestTriggerSettlementRequiresChain(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOps(t)

	if _, err := o.TriggerSettlement(ctx); err == nil {
		t.Fatalf("expected settlement trigger to fail with no chain capability configured")
	}
}

func TestForceSettlementRequiresChain(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOps(t)

	if _, err := o.ForceSettlement(ctx); err == nil {
		t.Fatalf("expected forced settlement to fail with no chain capability configured")
	}
}
