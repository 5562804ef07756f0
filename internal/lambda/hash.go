package lambda

// Structural hashing mixes a node's tag and children/identifiers with a
// fixed FNV-1a-style constant multiplier, giving stable hashes. Variable
// and binder ids are part of the hash, so two alpha-equivalent terms
// with different binder ids (λx7.x7 and λx8.x8) hash differently.
const hashPrime = 1099511628211
const hashOffset = 14695981039346656037

func mix(h uint64, v uint64) uint64 {
	h ^= v
	h *= hashPrime
	return h
}

func hashVariable(varID int32) uint64 {
	h := mix(hashOffset, uint64(Variable))
	return mix(h, uint64(uint32(varID)))
}

func hashAbstraction(varID int32, body Ref) uint64 {
	h := mix(hashOffset, uint64(Abstraction))
	h = mix(h, uint64(uint32(varID)))
	return mix(h, body.term().hash)
}

func hashApplication(fn, arg Ref) uint64 {
	h := mix(hashOffset, uint64(Application))
	h = mix(h, fn.term().hash)
	return mix(h, arg.term().hash)
}

// Hash returns r's structural hash.
func (r Ref) Hash() uint64 {
	if r.IsNil() {
		return 0
	}
	return r.term().hash
}
