package domain

// Principal identifies an account on the ledger (a wallet address in the
// original deployment). Every mutating operation receives the caller's
// principal from the identity layer; it is never inferred from ambient state.
type Principal string

func (p Principal) IsZero() bool { return p == "" }
