package wallet

// Allocation is the outcome of splitting a spend across both buckets.
type Allocation struct {
	PaidOut   int64 // paid balance after the spend
	FreeOut   int64 // free balance after the spend
	PaidSpent int64
	FreeSpent int64
}

// Allocate consumes the free balance first and takes the remainder from paid.
// Sufficiency is the caller's job: paid+free must already cover requested.
func Allocate(requested, paid, free int64) Allocation {
	if free >= requested {
		return Allocation{
			PaidOut:   paid,
			FreeOut:   free - requested,
			FreeSpent: requested,
		}
	}
	paidSpent := requested - free
	return Allocation{
		PaidOut:   paid - paidSpent,
		FreeOut:   0,
		PaidSpent: paidSpent,
		FreeSpent: free,
	}
}
