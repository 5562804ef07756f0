package lambda

// Context is a reduction context (§3): created per reduction invocation,
// it counts rewrites in Step against MaxSteps, bounds how deep each
// rewrite search descends by MaxDepth, and records whether the
// reduction timed out. Reduce does not update Depth.
type Context struct {
	Step     int
	MaxSteps int
	Depth    int
	MaxDepth int
	Timeout  bool
}

// NewContext creates a context with the given step and depth limits. A
// MaxDepth of 0 means unlimited.
func NewContext(maxSteps, maxDepth int) *Context {
	return &Context{MaxSteps: maxSteps, MaxDepth: maxDepth}
}

// Step performs exactly one leftmost-outermost beta-reduction rewrite
// on t and returns the rebuilt term plus whether a rewrite occurred
// (§4.D). The caller owns the returned Ref.
func Step(p *Pool, t Ref) (Ref, bool) {
	return stepAt(p, t, 0, 0)
}

func stepAt(p *Pool, t Ref, depth, maxDepth int) (Ref, bool) {
	if t.IsNil() {
		return Nil, false
	}
	if maxDepth > 0 && depth > maxDepth {
		return Clone(t), false
	}
	term := t.term()
	switch term.Kind {
	case Variable:
		return Clone(t), false

	case Abstraction:
		newBody, reduced := stepAt(p, term.Body, depth+1, maxDepth)
		if !reduced {
			Release(newBody)
			return Clone(t), false
		}
		out := p.NewAbstraction(term.VarID, newBody)
		Release(newBody)
		return out, true

	case Application:
		f, a := term.Fn, term.Arg
		if f.Kind() == Abstraction {
			result := Substitute(p, f.Body(), f.VarID(), a)
			return result, true
		}
		newF, reduced := stepAt(p, f, depth+1, maxDepth)
		if reduced {
			// newF may now itself be an Abstraction, turning this
			// Application into a fresh redex; §4.D has that redex caught
			// by the first branch above on the *next* Step call rather
			// than reduced again within this one rewrite.
			out := p.NewApplication(newF, a)
			Release(newF)
			return out, true
		}
		Release(newF)
		newA, reducedA := stepAt(p, a, depth+1, maxDepth)
		if !reducedA {
			Release(newA)
			return Clone(t), false
		}
		out := p.NewApplication(f, newA)
		Release(newA)
		return out, true

	default:
		return Nil, false
	}
}

// Reduce repeatedly steps t to normal form, stopping when a step
// produces a term alpha-equivalent to its predecessor (no further
// progress possible) or when ctx.MaxSteps is reached. ctx.MaxSteps<=0
// is the degenerate case: returns a clone of t immediately with
// ctx.Timeout set (§8: "max_steps=0 ⇒ returns input clone, timeout=true").
// The caller owns the returned Ref.
func Reduce(p *Pool, t Ref, ctx *Context) Ref {
	if ctx.MaxSteps <= 0 {
		ctx.Timeout = true
		return Clone(t)
	}

	current := Clone(t)
	for {
		if ctx.Step >= ctx.MaxSteps {
			ctx.Timeout = true
			return current
		}
		next, reduced := stepAt(p, current, 0, ctx.MaxDepth)
		if !reduced {
			Release(next)
			return current
		}
		ctx.Step++
		if AlphaEquivalent(current, next) {
			Release(next)
			return current
		}
		Release(current)
		current = next
	}
}
