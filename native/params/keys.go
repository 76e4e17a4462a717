package params

// Names of the governed runtime settings consulted by the bounty engine.
const (
	// KeyFeeBasisPoints is the platform fee, in basis points, skimmed from
	// each per-winner distribution slice.
	KeyFeeBasisPoints = "fees"
	// KeyMinPoolDepositBasisPoints is the minimum third-party pool deposit,
	// expressed in basis points of the matching funding target.
	KeyMinPoolDepositBasisPoints = "minothers"
)
