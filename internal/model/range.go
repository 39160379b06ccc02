package model

import "fmt"

// BlockRange is an inclusive range of block numbers processed by one run.
type BlockRange struct {
	Start uint64
	End   uint64
}

// Validate reports an error when Start is after End.
func (r BlockRange) Validate() error {
	if r.Start > r.End {
		return fmt.Errorf("invalid block range: start %d is after end %d", r.Start, r.End)
	}
	return nil
}

func (r BlockRange) String() string {
	return fmt.Sprintf("%d_to_%d", r.Start, r.End)
}
