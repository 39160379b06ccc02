package pipeline

const (
	// DefaultWorkerCount caps in-flight node requests per stage.
	DefaultWorkerCount = 1000

	// blocks a stage may run ahead of the oldest unreleased block, per worker
	reorderWindowPerWorker = 4

	progressLogInterval = 1000

	outcomeSucceeded = "succeeded"
	outcomeReverted  = "reverted"
	outcomeFailed    = "failed"
)
