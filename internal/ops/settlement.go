package ops

import (
	"context"
	"fmt"

	"github.com/nodalync/node/internal/ndlcrypto"
)

// TriggerSettlement forms and submits a settlement batch if the queue's
// threshold or interval trigger has fired, returning the zero hash if
// nothing was due. Requires a chain capability.
func (o *NodeOps) TriggerSettlement(ctx context.Context) (ndlcrypto.Hash, error) {
	if o.Batcher == nil {
		return ndlcrypto.Hash{}, translate(fmt.Errorf("ops: no chain capability configured for settlement"))
	}
	id, err := o.Batcher.TriggerSettlement(ctx)
	if err != nil {
		return ndlcrypto.Hash{}, translate(err)
	}
	return id, nil
}

// ForceSettlement forms and submits a settlement batch regardless of
// the threshold/interval trigger, for operator-initiated flushes.
func (o *NodeOps) ForceSettlement(ctx context.Context) (ndlcrypto.Hash, error) {
	if o.Batcher == nil {
		return ndlcrypto.Hash{}, translate(fmt.Errorf("ops: no chain capability configured for settlement"))
	}
	id, err := o.Batcher.ForceSettlement(ctx)
	if err != nil {
		return ndlcrypto.Hash{}, translate(err)
	}
	return id, nil
}
