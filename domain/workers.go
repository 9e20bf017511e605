package domain

import "context"

// RefreshTarget names a store kept by the gate.
type RefreshTarget int8

const (
	RefreshSignatures RefreshTarget = iota
	RefreshBuckets
)

func (t RefreshTarget) String() string {
	switch t {
	case RefreshSignatures:
		return "SIGNATURES"
	case RefreshBuckets:
		return "BUCKETS"
	default:
		return "UNKNOWN"
	}
}

// Refresher is what the refresh worker drives.
type Refresher interface {
	// Stale returns the stores past their logical expiry.
	Stale() []RefreshTarget
	RefreshSignatures(ctx context.Context) (uint64, error)
	RefreshBuckets(ctx context.Context) (uint64, error)
}

type RefreshWorker interface {
	Start(ctx context.Context)

	// Send asks for target to be refreshed on the next tick. It never blocks.
	Send(target RefreshTarget)
}
