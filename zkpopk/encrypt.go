package zkpopk

import (
	"fmt"

	"github.com/tuneinsight/bgvzk/bgv"
	"github.com/tuneinsight/bgvzk/utils/sampling"
)

// EncryptWithRandomness encrypts every plaintext of the batch under pk at the maximum level, with
// coins drawn from a freshly seeded PRNG, and returns the ciphertexts with the index-aligned coins.
// The coins are the witness of the proof and must not be reused for another encryption.
func EncryptWithRandomness(pk *bgv.PublicKey, plaintexts *bgv.PlaintextVector) (cts *bgv.CiphertextVector, coins []*bgv.Coins, err error) {

	params := plaintexts.Parameters()

	var enc *bgv.Encryptor
	if enc, err = bgv.NewEncryptor(params, pk); err != nil {
		return nil, nil, fmt.Errorf("cannot EncryptWithRandomness: %w", err)
	}

	var prng sampling.PRNG
	if prng, err = sampling.NewPRNG(); err != nil {
		return nil, nil, fmt.Errorf("cannot EncryptWithRandomness: %w", err)
	}

	cts = bgv.NewCiphertextVector(params, plaintexts.Size())
	coins = make([]*bgv.Coins, plaintexts.Size())

	for i, pt := range plaintexts.Value {

		coins[i] = bgv.NewCoins(params)
		if err = coins[i].Sample(prng, params); err != nil {
			return nil, nil, fmt.Errorf("cannot EncryptWithRandomness: %w", err)
		}

		if err = enc.EncryptWithCoins(pt, coins[i], cts.Value[i]); err != nil {
			return nil, nil, fmt.Errorf("cannot EncryptWithRandomness: item %d: %w", i, err)
		}
	}

	return
}
