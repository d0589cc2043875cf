package model

// Customer is a ledger account holder. The name is fixed at creation;
// there is no rename operation.
type Customer struct {
	ID   int64
	Name string
}
