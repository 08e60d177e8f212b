package bgv

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/bgvzk/ring"
	"github.com/tuneinsight/bgvzk/utils/sampling"
)

var flagParamString = flag.String("params", "", "specify the test cryptographic parameters as a JSON string.")

func GetTestName(opname string, p Parameters, lvl int) string {
	return fmt.Sprintf("%s/LogN=%d/logQ=%d/logT=%d/Qi=%d/lvl=%d",
		opname,
		p.LogN(),
		int(math.Round(p.LogQ())),
		int(math.Round(p.LogT())),
		p.MaxLevel()+1,
		lvl)
}

type testContext struct {
	params  Parameters
	prng    sampling.PRNG
	kgen    *KeyGenerator
	sk      *SecretKey
	pk      *PublicKey
	enc     *Encryptor
	encoder *Encoder
}

func genTestParams(params Parameters) (tc *testContext, err error) {

	tc = &testContext{params: params}

	if tc.prng, err = sampling.NewKeyedPRNG([]byte{'b', 'g', 'v'}); err != nil {
		return nil, err
	}

	if tc.kgen, err = NewKeyGenerator(params); err != nil {
		return nil, err
	}

	tc.sk, tc.pk = tc.kgen.GenKeyPairNew()

	if tc.enc, err = NewEncryptor(params, tc.pk); err != nil {
		return nil, err
	}

	if tc.encoder, err = NewEncoder(params); err != nil {
		return nil, err
	}

	return
}

// decrypt returns C0 - s*C1 lifted from Q to Z and reduced modulo t.
func (tc *testContext) decrypt(ct *Ciphertext) (pt *Plaintext) {

	level := ct.Level()
	rQ := tc.params.RingQ().AtLevel(level)

	p := rQ.NewPoly()
	rQ.MulCoeffs(ct.C1, tc.sk.Value, p)
	rQ.Sub(ct.C0, p, p)
	rQ.INTT(p, p)

	Q := rQ.Modulus()
	halfQ := new(big.Int).Rsh(Q, 1)
	T := new(big.Int).SetUint64(tc.params.T())

	// CRT basis
	basis := make([]*big.Int, level+1)
	for i, s := range rQ.SubRings[:level+1] {
		qi := new(big.Int).SetUint64(s.Modulus)
		QHat := new(big.Int).Quo(Q, qi)
		basis[i] = new(big.Int).ModInverse(new(big.Int).Mod(QHat, qi), qi)
		basis[i].Mul(basis[i], QHat)
	}

	pt = NewPlaintext(tc.params)
	x, tmp := new(big.Int), new(big.Int)
	for j := range pt.Value {
		x.SetUint64(0)
		for i := range basis {
			tmp.SetUint64(p.Coeffs[i][j])
			tmp.Mul(tmp, basis[i])
			x.Add(x, tmp)
		}
		x.Mod(x, Q)
		if x.Cmp(halfQ) > 0 {
			x.Sub(x, Q)
		}
		pt.Value[j] = x.Mod(x, T).Uint64()
	}

	return
}

func (tc *testContext) newRandomPlaintext() (pt *Plaintext) {
	pt = NewPlaintext(tc.params)
	pt.Randomize(tc.prng)
	return
}

func (tc *testContext) encryptNew(t *testing.T, pt *Plaintext) (ct *Ciphertext) {
	ct, err := tc.enc.EncryptNew(pt)
	require.NoError(t, err)
	return
}

func (tc *testContext) slots(t *testing.T, pt *Plaintext) (values []uint64) {
	values = make([]uint64, tc.params.N())
	require.NoError(t, tc.encoder.Decode(pt, values))
	return
}

func TestBGV(t *testing.T) {

	var err error

	paramsLiterals := []ParametersLiteral{TestParameters}

	if *flagParamString != "" {
		var jsonParams ParametersLiteral
		if err = json.Unmarshal([]byte(*flagParamString), &jsonParams); err != nil {
			t.Fatal(err)
		}
		paramsLiterals = []ParametersLiteral{jsonParams}
	}

	for _, p := range paramsLiterals {

		var params Parameters
		params, err = NewParametersFromLiteral(p)
		require.NoError(t, err)

		var tc *testContext
		tc, err = genTestParams(params)
		require.NoError(t, err)

		for _, testSet := range []func(tc *testContext, t *testing.T){
			testParameters,
			testEncoder,
			testEncryptor,
			testEvaluator,
			testScale,
			testPreconditions,
			testCoins,
			testSerialization,
			testVector,
		} {
			testSet(tc, t)
		}
	}
}

func testParameters(tc *testContext, t *testing.T) {

	params := tc.params

	t.Run(GetTestName("Parameters/Literal", params, params.MaxLevel()), func(t *testing.T) {
		require.Equal(t, 1<<TestParameters.LogN, params.N())
		require.Len(t, params.Q(), len(TestParameters.LogQ))
		require.InDelta(t, 110, params.LogQ(), 1)
		require.Equal(t, ring.DiscreteGaussian{Sigma: DefaultSigma, Bound: DefaultBound}, params.Xe())
		require.NotNil(t, params.RingT())

		for i, q := range params.Q() {
			require.Equal(t, uint64(1), q%uint64(2*params.N()))
			require.Equal(t, TestParameters.LogQ[i], int(math.Ceil(math.Log2(float64(q)))))
		}
	})

	t.Run(GetTestName("Parameters/MarshalJSON", params, params.MaxLevel()), func(t *testing.T) {
		data, err := json.Marshal(params)
		require.NoError(t, err)

		var other Parameters
		require.NoError(t, json.Unmarshal(data, &other))
		require.True(t, params.Equal(other))

		data, err = params.MarshalBinary()
		require.NoError(t, err)
		require.NoError(t, other.UnmarshalBinary(data))
		require.True(t, params.Equal(other))
	})

	t.Run(GetTestName("Parameters/Invalid", params, params.MaxLevel()), func(t *testing.T) {

		for _, pl := range []ParametersLiteral{
			{LogN: 2, LogQ: []int{30}, PlaintextModulus: 17},
			{LogN: 4, PlaintextModulus: 17},
			{LogN: 4, LogQ: []int{30}, Q: []uint64{0x3fffffa8001}, PlaintextModulus: 17},
			{LogN: 4, LogQ: []int{30}, PlaintextModulus: 1},
			{LogN: 4, LogQ: []int{20}, PlaintextModulus: 1 << 21},
			{LogN: 4, Q: []uint64{12289, 12289}, PlaintextModulus: 17},
			{LogN: 4, LogQ: []int{30}, PlaintextModulus: 17, Xs: ring.Ternary{P: 1.5}},
			{LogN: 4, LogQ: []int{30}, PlaintextModulus: 17, Xe: ring.DiscreteGaussian{Sigma: 3.2, Bound: 1}},
		} {
			_, err := NewParametersFromLiteral(pl)
			require.Error(t, err, "%+v", pl)
		}

		// t = 257 does not enable slot packing for N = 1024
		other, err := NewParametersFromLiteral(ParametersLiteral{LogN: 10, LogQ: []int{40}, PlaintextModulus: 257})
		require.NoError(t, err)
		require.Nil(t, other.RingT())
		_, err = NewEncoder(other)
		require.Error(t, err)
	})
}

func testEncoder(tc *testContext, t *testing.T) {

	params := tc.params

	t.Run(GetTestName("Encoder/Encode", params, params.MaxLevel()), func(t *testing.T) {

		values := make([]uint64, params.N())
		for i := range values {
			values[i] = sampling.ReadUint64Below(tc.prng, params.T())
		}

		pt := NewPlaintext(params)
		require.NoError(t, tc.encoder.Encode(values, pt))
		require.Equal(t, values, tc.slots(t, pt))

		require.Error(t, tc.encoder.Encode(make([]uint64, params.N()+1), pt))
	})

	t.Run(GetTestName("Encoder/Diagonal", params, params.MaxLevel()), func(t *testing.T) {

		pt := NewPlaintext(params)
		tc.encoder.EncodeDiagonal(42, pt)
		require.True(t, pt.IsDiagonal())
		for _, v := range tc.slots(t, pt) {
			require.Equal(t, uint64(42), v)
		}

		pt.RandomizeDiagonal(tc.prng)
		require.True(t, pt.IsDiagonal())

		pt.Randomize(tc.prng)
		require.False(t, pt.IsDiagonal())
	})
}

func testEncryptor(tc *testContext, t *testing.T) {

	params := tc.params

	t.Run(GetTestName("Encryptor/EncryptNew", params, params.MaxLevel()), func(t *testing.T) {
		pt := tc.newRandomPlaintext()
		ct := tc.encryptNew(t, pt)
		require.Equal(t, tc.pk.KeyTag, ct.KeyTag)
		require.Equal(t, params.MaxLevel(), ct.Level())
		require.True(t, pt.Equal(tc.decrypt(ct)))
	})

	t.Run(GetTestName("Encryptor/EncryptZero", params, 0), func(t *testing.T) {
		ct := NewCiphertext(params, 0)
		require.NoError(t, tc.enc.EncryptZero(ct))
		require.True(t, NewPlaintext(params).Equal(tc.decrypt(ct)))
	})

	t.Run(GetTestName("Encryptor/Linearity", params, params.MaxLevel()), func(t *testing.T) {

		// Enc(m0; r0) + X^k * Enc(m1; r1) = Enc(m0 + X^k * m1; r0 + X^k * r1) over the integers
		pt0, pt1 := tc.newRandomPlaintext(), tc.newRandomPlaintext()
		r0, r1 := NewCoins(params), NewCoins(params)
		require.NoError(t, r0.Sample(tc.prng, params))
		require.NoError(t, r1.Sample(tc.prng, params))

		ct0, ct1 := NewCiphertext(params, params.MaxLevel()), NewCiphertext(params, params.MaxLevel())
		require.NoError(t, tc.enc.EncryptWithCoins(pt0, r0, ct0))
		require.NoError(t, tc.enc.EncryptWithCoins(pt1, r1, ct1))

		k := params.N() + 3
		require.NoError(t, MulByXiThenAdd(ct1, k, ct0))

		m1 := pt1.Centered()
		ring.MultByMonomialInt64(m1, k)
		m := make([]*big.Int, params.N())
		for i, c := range pt0.Centered() {
			m[i] = big.NewInt(c + m1[i])
		}

		r1.MulByMonomial(k)
		r0.Add(r1)

		want := NewCiphertext(params, params.MaxLevel())
		require.NoError(t, tc.enc.EncryptIntegerWithCoins(m, r0, want))
		require.True(t, want.Equal(ct0))
	})
}

func testEvaluator(tc *testContext, t *testing.T) {

	params := tc.params
	T := params.T()

	t.Run(GetTestName("Evaluator/Add", params, params.MaxLevel()), func(t *testing.T) {

		pt0, pt1 := tc.newRandomPlaintext(), tc.newRandomPlaintext()
		ct0, ct1 := tc.encryptNew(t, pt0), tc.encryptNew(t, pt1)

		ct01, err := AddNew(ct0, ct1)
		require.NoError(t, err)
		ct10, err := AddNew(ct1, ct0)
		require.NoError(t, err)
		require.True(t, ct01.Equal(ct10))

		want := pt0.CopyNew()
		require.NoError(t, want.Add(pt1))
		require.True(t, want.Equal(tc.decrypt(ct01)))

		require.NoError(t, ct0.Add(ct1))
		require.True(t, ct0.Equal(ct01))
	})

	t.Run(GetTestName("Evaluator/Sub", params, params.MaxLevel()), func(t *testing.T) {

		pt0, pt1 := tc.newRandomPlaintext(), tc.newRandomPlaintext()
		ct0, ct1 := tc.encryptNew(t, pt0), tc.encryptNew(t, pt1)

		require.NoError(t, Sub(ct0, ct1, ct0))

		want := NewPlaintext(params)
		for i := range want.Value {
			want.Value[i] = ring.SubMod(pt0.Value[i], pt1.Value[i], T)
		}
		require.True(t, want.Equal(tc.decrypt(ct0)))
	})

	t.Run(GetTestName("Evaluator/AddPlaintext", params, params.MaxLevel()), func(t *testing.T) {

		pt0, pt1 := tc.newRandomPlaintext(), tc.newRandomPlaintext()
		ct := tc.encryptNew(t, pt0)
		require.NoError(t, ct.AddPlaintext(pt1))
		require.NoError(t, pt0.Add(pt1))
		require.True(t, pt0.Equal(tc.decrypt(ct)))
	})

	t.Run(GetTestName("Evaluator/MulPlaintext", params, params.MaxLevel()), func(t *testing.T) {

		pt0, pt1 := tc.newRandomPlaintext(), tc.newRandomPlaintext()
		ct := tc.encryptNew(t, pt0)
		require.NoError(t, MulPlaintext(ct, pt1, ct))

		v0, v1, have := tc.slots(t, pt0), tc.slots(t, pt1), tc.slots(t, tc.decrypt(ct))
		for i := range have {
			require.Equal(t, ring.MulMod(v0[i], v1[i], T), have[i])
		}
	})

	t.Run(GetTestName("Evaluator/Mul", params, params.MaxLevel()), func(t *testing.T) {

		pt0, pt1 := tc.newRandomPlaintext(), tc.newRandomPlaintext()
		ct0, ct1 := tc.encryptNew(t, pt0), tc.encryptNew(t, pt1)

		ct, err := MulNew(ct0, ct1, tc.pk)
		require.NoError(t, err)

		v0, v1, have := tc.slots(t, pt0), tc.slots(t, pt1), tc.slots(t, tc.decrypt(ct))
		for i := range have {
			require.Equal(t, ring.MulMod(v0[i], v1[i], T), have[i])
		}

		// in place
		require.NoError(t, Mul(ct0, ct1, tc.pk, ct0))
		require.True(t, ct0.Equal(ct))
	})

	t.Run(GetTestName("Evaluator/MulByXi", params, params.MaxLevel()), func(t *testing.T) {

		N := params.N()

		for _, k := range []int{0, 1, N - 1, N, N + 5, -3} {

			pt := tc.newRandomPlaintext()
			ct := tc.encryptNew(t, pt)
			ct.MulByXi(k)

			want := pt.Centered()
			ring.MultByMonomialInt64(want, k)
			have := tc.decrypt(ct)
			for i := range want {
				require.Equal(t, ring.ReduceInt64(want[i], T), have.Value[i])
			}
		}
	})

	t.Run(GetTestName("Evaluator/Rerandomize", params, params.MaxLevel()), func(t *testing.T) {

		pt := tc.newRandomPlaintext()
		ct := tc.encryptNew(t, pt)
		ctCopy := ct.CopyNew()

		require.NoError(t, ct.Rerandomize(tc.pk))
		require.False(t, ct.Equal(ctCopy))
		require.Equal(t, ctCopy.KeyTag, ct.KeyTag)
		require.True(t, pt.Equal(tc.decrypt(ct)))
	})
}

func testScale(tc *testContext, t *testing.T) {

	params := tc.params
	T := params.T()

	t.Run(GetTestName("Evaluator/Mul/Scale", params, params.MaxLevel()), func(t *testing.T) {

		pt0, pt1 := tc.newRandomPlaintext(), tc.newRandomPlaintext()
		ct, err := MulNew(tc.encryptNew(t, pt0), tc.encryptNew(t, pt1), tc.pk)
		require.NoError(t, err)

		level := ct.Level()
		qL := params.Q()[level]

		require.NoError(t, ct.ScaleDefault())
		require.Equal(t, level-1, ct.Level())

		// The plaintext is multiplied by q_L^-1 mod t.
		v0, v1, have := tc.slots(t, pt0), tc.slots(t, pt1), tc.slots(t, tc.decrypt(ct))
		for i := range have {
			require.Equal(t, ring.MulMod(v0[i], v1[i], T), ring.MulMod(have[i], qL%T, T))
		}

		// Level 0 is a no-op
		ctCopy := ct.CopyNew()
		require.NoError(t, ct.ScaleDefault())
		require.True(t, ct.Equal(ctCopy))
	})

	t.Run(GetTestName("Evaluator/Scale/Invalid", params, params.MaxLevel()), func(t *testing.T) {
		ct := tc.encryptNew(t, tc.newRandomPlaintext())
		require.ErrorIs(t, ct.Scale(1), ErrPreconditionViolation)
		require.ErrorIs(t, ct.Scale(params.Q()[ct.Level()]), ErrPreconditionViolation)
	})

	t.Run(GetTestName("Evaluator/Add/Levels", params, params.MaxLevel()), func(t *testing.T) {

		pt0, pt1 := tc.newRandomPlaintext(), tc.newRandomPlaintext()
		ct0, ct1 := tc.encryptNew(t, pt0), NewCiphertext(params, 0)
		require.NoError(t, tc.enc.EncryptWithCoins(pt1, tc.sampleCoins(t), ct1))

		ct, err := AddNew(ct0, ct1)
		require.NoError(t, err)
		require.Equal(t, 0, ct.Level())

		require.NoError(t, pt0.Add(pt1))
		require.True(t, pt0.Equal(tc.decrypt(ct)))
	})
}

func (tc *testContext) sampleCoins(t *testing.T) (coins *Coins) {
	coins = NewCoins(tc.params)
	require.NoError(t, coins.Sample(tc.prng, tc.params))
	return
}

func testPreconditions(tc *testContext, t *testing.T) {

	params := tc.params

	otherParams, err := NewParametersFromLiteral(ParametersLiteral{LogN: params.LogN(), LogQ: []int{40}, PlaintextModulus: params.T()})
	require.NoError(t, err)

	t.Run(GetTestName("Preconditions/KeyTag", params, params.MaxLevel()), func(t *testing.T) {

		_, pk := tc.kgen.GenKeyPairNew()
		require.NotEqual(t, tc.pk.KeyTag, pk.KeyTag)

		enc, err := NewEncryptor(params, pk)
		require.NoError(t, err)

		pt := tc.newRandomPlaintext()
		ct0 := tc.encryptNew(t, pt)
		ct1, err := enc.EncryptNew(pt)
		require.NoError(t, err)

		_, err = AddNew(ct0, ct1)
		require.ErrorIs(t, err, ErrPreconditionViolation)
		require.ErrorIs(t, Sub(ct0, ct1, ct0), ErrPreconditionViolation)
		require.ErrorIs(t, Mul(ct0, ct0, pk, ct0), ErrPreconditionViolation)
		require.ErrorIs(t, MulByXiThenAdd(ct0, 1, ct1), ErrPreconditionViolation)
		require.ErrorIs(t, ct0.Rerandomize(pk), ErrPreconditionViolation)
	})

	t.Run(GetTestName("Preconditions/Parameters", params, params.MaxLevel()), func(t *testing.T) {

		ct0 := tc.encryptNew(t, tc.newRandomPlaintext())
		ct1 := NewCiphertext(otherParams, 0)
		ct1.KeyTag = ct0.KeyTag

		_, err := AddNew(ct0, ct1)
		require.ErrorIs(t, err, ErrPreconditionViolation)
		require.ErrorIs(t, MulPlaintext(ct0, NewPlaintext(otherParams), ct0), ErrPreconditionViolation)
		require.ErrorIs(t, ct0.AddPlaintext(NewPlaintext(otherParams)), ErrPreconditionViolation)
		require.ErrorIs(t, tc.enc.EncryptWithCoins(NewPlaintext(otherParams), tc.sampleCoins(t), ct0), ErrPreconditionViolation)

		_, err = NewEncryptor(otherParams, tc.pk)
		require.ErrorIs(t, err, ErrPreconditionViolation)

		// Equal but distinct parameter instances are compatible.
		sameParams, err := NewParametersFromLiteral(params.ParametersLiteral())
		require.NoError(t, err)
		ct2 := NewCiphertext(sameParams, params.MaxLevel())
		ct2.KeyTag = ct0.KeyTag
		require.NoError(t, Add(ct0, ct2, ct2))
	})
}

func testCoins(tc *testContext, t *testing.T) {

	params := tc.params

	t.Run(GetTestName("Coins", params, params.MaxLevel()), func(t *testing.T) {

		coins := tc.sampleCoins(t)

		normU, normE := coins.Norms()
		require.LessOrEqual(t, normU, int64(1))
		require.LessOrEqual(t, normE, params.Xe().Norm())

		// X^N = -1
		neg := coins.CopyNew()
		neg.MulByMonomial(params.N())
		neg.Add(coins)
		require.True(t, NewCoins(params).Equal(neg))

		data, err := coins.MarshalBinary()
		require.NoError(t, err)
		require.Len(t, data, coins.BinarySize())

		other := new(Coins)
		require.NoError(t, other.UnmarshalBinary(data))
		require.True(t, coins.Equal(other))

		require.ErrorIs(t, other.UnmarshalBinary(data[:len(data)-3]), ErrMalformedBuffer)
	})
}

func testSerialization(tc *testContext, t *testing.T) {

	params := tc.params

	t.Run(GetTestName("Serialization/Ciphertext", params, params.MaxLevel()), func(t *testing.T) {

		ct := tc.encryptNew(t, tc.newRandomPlaintext())

		data, err := ct.MarshalBinary()
		require.NoError(t, err)
		require.Len(t, data, ct.BinarySize())

		other := NewCiphertext(params, 0)
		require.NoError(t, other.UnmarshalBinary(data))
		require.True(t, ct.Equal(other))

		require.ErrorIs(t, other.UnmarshalBinary(data[:len(data)-1]), ErrMalformedBuffer)
		require.ErrorIs(t, other.UnmarshalBinary(append(data, 0)), ErrMalformedBuffer)

		// coefficient = q_0
		forged := append([]byte{}, data...)
		q0 := params.Q()[0]
		for i := 0; i < 8; i++ {
			forged[9+i] = byte(q0 >> (8 * i))
		}
		require.ErrorIs(t, other.UnmarshalBinary(forged), ErrMalformedBuffer)

		// wrong ring degree
		forged = append([]byte{}, data...)
		forged[0] = 0
		forged[1] = 0x08
		require.ErrorIs(t, other.UnmarshalBinary(forged), ErrMalformedBuffer)
	})

	t.Run(GetTestName("Serialization/Plaintext", params, params.MaxLevel()), func(t *testing.T) {

		pt := tc.newRandomPlaintext()

		data, err := pt.MarshalBinary()
		require.NoError(t, err)

		other := NewPlaintext(params)
		require.NoError(t, other.UnmarshalBinary(data))
		require.True(t, pt.Equal(other))

		require.ErrorIs(t, other.UnmarshalBinary(data[:len(data)-1]), ErrMalformedBuffer)
	})

	t.Run(GetTestName("Serialization/PublicKey", params, params.MaxLevel()), func(t *testing.T) {

		data, err := tc.pk.MarshalBinary()
		require.NoError(t, err)
		require.Len(t, data, tc.pk.BinarySize())

		other := new(PublicKey)
		require.NoError(t, other.UnmarshalBinary(data))
		require.True(t, tc.pk.Equal(other))

		require.ErrorIs(t, other.UnmarshalBinary(data[:len(data)/2]), ErrMalformedBuffer)
	})

	t.Run(GetTestName("Serialization/CiphertextVector", params, params.MaxLevel()), func(t *testing.T) {

		v := NewCiphertextVector(params, 5)
		for i := range v.Value {
			v.Value[i].Randomize(tc.prng)
		}

		data, err := v.MarshalBinary()
		require.NoError(t, err)
		require.Len(t, data, v.BinarySize())

		other, err := UnmarshalCiphertextVector(params, data)
		require.NoError(t, err)
		require.Equal(t, 5, other.Size())
		require.True(t, v.Equal(other))

		for _, n := range []int{0, 7, len(data) / 2, len(data) - 1} {
			_, err = UnmarshalCiphertextVector(params, data[:n])
			require.ErrorIs(t, err, ErrMalformedBuffer, "truncated at %d", n)
		}

		// forged size
		forged := append([]byte{}, data...)
		forged[0] = 0xff
		_, err = UnmarshalCiphertextVector(params, forged)
		require.ErrorIs(t, err, ErrMalformedBuffer)
	})

	t.Run(GetTestName("Serialization/PlaintextVector", params, params.MaxLevel()), func(t *testing.T) {

		v := NewPlaintextVector(params, 3)
		require.NoError(t, v.Randomize())

		data, err := v.MarshalBinary()
		require.NoError(t, err)

		other, err := UnmarshalPlaintextVector(params, data)
		require.NoError(t, err)
		require.True(t, v.Equal(other))
	})
}

func testVector(tc *testContext, t *testing.T) {

	params := tc.params

	t.Run(GetTestName("Vector/Resize", params, params.MaxLevel()), func(t *testing.T) {

		v := NewPlaintextVector(params, 2)
		require.NoError(t, v.Randomize())

		require.NoError(t, v.Resize(4, params))
		require.Equal(t, 4, v.Size())
		require.True(t, NewPlaintext(params).Equal(v.Value[3]))

		require.NoError(t, v.Resize(1, params))
		require.Equal(t, 1, v.Size())

		otherParams, err := NewParametersFromLiteral(ParametersLiteral{LogN: params.LogN(), LogQ: []int{40}, PlaintextModulus: 257})
		require.NoError(t, err)
		require.ErrorIs(t, v.Resize(3, otherParams), ErrPreconditionViolation)
		require.Equal(t, 1, v.Size())

		require.NoError(t, v.Resize(0, params))
		require.NoError(t, v.Resize(2, otherParams))
		require.Equal(t, uint64(257), v.Parameters().T())
		require.ErrorIs(t, v.Resize(-1, otherParams), ErrPreconditionViolation)
	})

	t.Run(GetTestName("Vector/Randomize", params, params.MaxLevel()), func(t *testing.T) {

		v0, v1 := NewPlaintextVector(params, 3), NewPlaintextVector(params, 3)
		require.NoError(t, v0.Randomize())
		require.NoError(t, v1.Randomize())
		require.False(t, v0.Equal(v1))
		require.False(t, v0.Value[0].Equal(v0.Value[1]))

		require.NoError(t, v0.RandomizeDiagonal())
		for _, pt := range v0.Value {
			require.True(t, pt.IsDiagonal())
		}

		require.ErrorIs(t, NewCiphertextVector(params, 1).RandomizeDiagonal(), ErrPreconditionViolation)
	})

	t.Run(GetTestName("Vector/Elements", params, params.MaxLevel()), func(t *testing.T) {

		pt := tc.newRandomPlaintext()
		v := NewPlaintextVectorSingle(pt)
		require.Equal(t, 1, v.Size())

		require.NoError(t, v.PushBack(tc.newRandomPlaintext()))
		require.Equal(t, 2, v.Size())

		el, err := v.Get(0)
		require.NoError(t, err)
		require.True(t, pt.Equal(el))

		_, err = v.Get(2)
		require.ErrorIs(t, err, ErrPreconditionViolation)
		require.ErrorIs(t, v.Set(-1, pt), ErrPreconditionViolation)

		require.NoError(t, v.Set(1, pt))
		el, err = v.PopBack()
		require.NoError(t, err)
		require.True(t, pt.Equal(el))
		require.Equal(t, 1, v.Size())

		_, err = v.PopBack()
		require.NoError(t, err)
		_, err = v.PopBack()
		require.ErrorIs(t, err, ErrPreconditionViolation)
	})

	t.Run(GetTestName("Vector/Add", params, params.MaxLevel()), func(t *testing.T) {

		pts := NewPlaintextVector(params, 3)
		require.NoError(t, pts.Randomize())

		cts := NewCiphertextVector(params, 0)
		for _, pt := range pts.Value {
			require.NoError(t, cts.PushBack(tc.encryptNew(t, pt)))
		}

		sum := cts.CopyNew()
		require.NoError(t, sum.Add(cts))

		want := pts.CopyNew()
		require.NoError(t, want.Add(pts))

		for i := range sum.Value {
			require.True(t, want.Value[i].Equal(tc.decrypt(sum.Value[i])))
		}

		require.ErrorIs(t, sum.Add(NewCiphertextVector(params, 2)), ErrPreconditionViolation)
	})
}
