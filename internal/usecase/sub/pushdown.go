package sub

import "github.com/Guyuepp/bucket-filter/domain"

// CostModel compares the cost of an index like remote filter with the cost
// of a full sequential scan.
type CostModel[C any] struct {
	// EstimateIndexScan returns the number of rows read through an index.
	EstimateIndexScan domain.RowEstimator[C]
	// EstimateSeqScan returns the number of rows read by a sequential scan.
	EstimateSeqScan domain.RowEstimator[C]
	// IndexScanCost is the cost to get a row by random access.
	IndexScanCost float32
	// SeqScanCost is the cost to get a row by sequential access.
	SeqScanCost float32
}

// DecidePushdown returns true (filter remotely) unless a full sequential
// scan is strictly cheaper than the index scan. Ties push down.
func (m CostModel[C]) DecidePushdown(cfg C) bool {
	ixCost := m.IndexScanCost * m.EstimateIndexScan(cfg)
	sqCost := m.SeqScanCost * m.EstimateSeqScan(cfg)
	scanAll := sqCost < ixCost
	return !scanAll
}

// NewPushdownByStorage creates a PushdownFunc from the two row estimators
// and the per row cost of each access path.
func NewPushdownByStorage[C any](
	estimateIxScan domain.RowEstimator[C],
	estimateSqScan domain.RowEstimator[C],
	ixScanCost float32,
	sqScanCost float32,
) domain.PushdownFunc[C] {
	m := CostModel[C]{
		EstimateIndexScan: estimateIxScan,
		EstimateSeqScan:   estimateSqScan,
		IndexScanCost:     ixScanCost,
		SeqScanCost:       sqScanCost,
	}
	return m.DecidePushdown
}
