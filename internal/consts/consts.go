package consts

const (
	DefaultTolerance = 1e-6 // convergence tolerance on the mismatch infinity norm (pu)
	DefaultMaxIter   = 20   // Newton-Raphson iteration cap
	DefaultBigNumber = 1e10 // slack regularization constant on the H/L diagonals
	DefaultBaseMVA   = 100.0

	// Voltage magnitudes past this bound mean the solve is running away.
	VoltageSanityBound = 10.0
)
