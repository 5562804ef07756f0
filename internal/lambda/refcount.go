package lambda

import "t3/internal/terrors"

// Retain increments r's reference count. Retaining Nil is a no-op.
func Retain(r Ref) Ref {
	if r.IsNil() {
		return r
	}
	r.term().refcount++
	return r
}

// Release decrements r's reference count, recursively releasing and
// freeing children once it reaches zero. Releasing Nil is a no-op.
// Release returns a StructuralInvariant error if a term's refcount was
// already zero when Release was called, which indicates a double-free.
func Release(r Ref) error {
	if r.IsNil() {
		return nil
	}
	t := r.term()
	if t.refcount <= 0 {
		return terrors.New(terrors.StructuralInvariant, "release of term with non-positive refcount").
			With("kind", t.Kind.String())
	}
	t.refcount--
	if t.refcount > 0 {
		return nil
	}

	switch t.Kind {
	case Abstraction:
		if err := Release(t.Body); err != nil {
			return err
		}
	case Application:
		if err := Release(t.Fn); err != nil {
			return err
		}
		if err := Release(t.Arg); err != nil {
			return err
		}
	}
	r.pool.free(r.idx)
	return nil
}

// Clone deep-copies r into a fresh set of terms with independent
// refcounts, allocated from the same pool.
func Clone(r Ref) Ref {
	if r.IsNil() {
		return Nil
	}
	t := r.term()
	switch t.Kind {
	case Variable:
		return r.pool.NewVariable(t.VarID)
	case Abstraction:
		body := Clone(t.Body)
		out := r.pool.NewAbstraction(t.VarID, body)
		Release(body) // NewAbstraction retained its own reference
		return out
	case Application:
		fn := Clone(t.Fn)
		arg := Clone(t.Arg)
		out := r.pool.NewApplication(fn, arg)
		Release(fn)
		Release(arg)
		return out
	default:
		return Nil
	}
}
