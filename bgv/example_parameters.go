package bgv

var (
	// ExampleParameters is a two-level parameter set with a 16-bit NTT friendly plaintext modulus.
	ExampleParameters = ParametersLiteral{
		LogN:             12,
		LogQ:             []int{58, 58},
		PlaintextModulus: 65537,
	}

	// TestParameters is a small parameter set for unit tests. It is NOT secure.
	TestParameters = ParametersLiteral{
		LogN:             10,
		LogQ:             []int{55, 55},
		PlaintextModulus: 65537,
	}
)
