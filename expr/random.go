package expr

import "math/rand"

// ConstGenerator produces the constant leaf values of a synthesized tree.
// The random source is threaded explicitly so seeded runs stay reproducible
// and shards can carry independent sources.
type ConstGenerator func(rng *rand.Rand) uint32

// UniformConst draws uniformly over the full 32-bit range. It is the
// default generator.
func UniformConst(rng *rand.Rand) uint32 {
	return rng.Uint32()
}

// PoolConst draws uniformly from a fixed pool of values.
func PoolConst(pool []uint32) ConstGenerator {
	return func(rng *rand.Rand) uint32 {
		return pool[rng.Intn(len(pool))]
	}
}

// Variant draw probabilities at depth > 0.
const (
	pConst = 0.40
	pAdd   = 0.25
	pMul   = 0.25
	// Byte takes the remaining 0.10.
)

// Random synthesizes an expression tree with at most maxDepth levels of
// operators. Depth 0 always yields a Const, which guarantees termination:
// the depth strictly decreases on every recursion. A nil constGen selects
// UniformConst.
func Random(rng *rand.Rand, maxDepth int, constGen ConstGenerator) Expr {
	if constGen == nil {
		constGen = UniformConst
	}
	if maxDepth <= 0 {
		return Const{Value: constGen(rng)}
	}

	switch choice := rng.Float64(); {
	case choice < pConst:
		return Const{Value: constGen(rng)}
	case choice < pConst+pAdd:
		return Add{
			Left:  Random(rng, maxDepth-1, constGen),
			Right: Random(rng, maxDepth-1, constGen),
		}
	case choice < pConst+pAdd+pMul:
		return Mul{
			Left:  Random(rng, maxDepth-1, constGen),
			Right: Random(rng, maxDepth-1, constGen),
		}
	default:
		return Byte{
			Value: Random(rng, maxDepth-1, constGen),
			Index: Random(rng, maxDepth-1, constGen),
		}
	}
}
