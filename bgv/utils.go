package bgv

import (
	"github.com/tuneinsight/bgvzk/ring"
)

// liftNTT sets pol to the NTT of the signed integer polynomial coeffs, at the level of r.
func liftNTT(r *ring.Ring, coeffs []int64, pol ring.Poly) {
	r.SetCoefficientsInt64(coeffs, pol)
	r.NTT(pol, pol)
}
