package model

// Transaction is a single on-chain transaction discovered while scanning a block range.
// ID is assigned by the transaction stage only.
type Transaction struct {
	ID    uint64
	Block uint64
	Hash  string
	To    *string
	Gas   uint64
}

// BlockTransaction is the subset of a node transaction object the pipeline needs.
type BlockTransaction struct {
	Hash string
	To   *string
	Gas  uint64
}

// Block describes a fetched block with its transactions in on-chain order.
type Block struct {
	Number       uint64
	Transactions []BlockTransaction
}

// Recipient returns the transaction recipient or an empty string for contract creation.
func (t Transaction) Recipient() string {
	if t.To == nil {
		return ""
	}
	return *t.To
}
