package tvm

// Saturating 2-bit branch-predictor states (§3/§4.C).
const (
	StronglyNotTaken uint8 = 0
	WeaklyNotTaken   uint8 = 1
	WeaklyTaken      uint8 = 2
	StronglyTaken    uint8 = 3
)

type bpEntry struct {
	address uint32
	counter uint8
	valid   bool
}

// BranchPredictor is a per-slot 2-bit saturating-counter predictor, the
// same size as the i-cache, indexed identically (§3). Its saturating
// increment/decrement-on-resolve update is grounded on
// Maemo32-SupraX_Legacy/proto/tage's counter update (clamp at the
// counter's max/min instead of wrapping).
type BranchPredictor struct {
	entries     []bpEntry
	mask        uint32
	predictions uint64
	mispredicts uint64
}

// NewBranchPredictor creates a predictor table of the given
// power-of-two size.
func NewBranchPredictor(size int) *BranchPredictor {
	if size <= 0 || size&(size-1) != 0 {
		panic("tvm: branch predictor size must be a positive power of two")
	}
	return &BranchPredictor{entries: make([]bpEntry, size), mask: uint32(size - 1)}
}

func (p *BranchPredictor) index(address uint32) uint32 {
	return address & p.mask
}

// Predict returns true (predict taken) iff the slot's counter is >= 2.
// An unseen slot starts at StronglyNotTaken, i.e. predicts not-taken.
func (p *BranchPredictor) Predict(address uint32) bool {
	e := &p.entries[p.index(address)]
	if !e.valid || e.address != address {
		return false // cold slot starts at StronglyNotTaken
	}
	return e.counter >= WeaklyTaken
}

// Resolve records the actual outcome of the branch at address,
// incrementing the saturating counter if taken and decrementing it if
// not, and updates the prediction/misprediction statistics. Per §9's
// Open Question (iii), Resolve must be called on every conditional
// branch for the statistics to be meaningful — the TVM's JZ/JNZ
// handlers always do so.
func (p *BranchPredictor) Resolve(address uint32, taken bool) {
	predicted := p.Predict(address)
	p.predictions++
	if predicted != taken {
		p.mispredicts++
	}

	idx := p.index(address)
	e := &p.entries[idx]
	if !e.valid || e.address != address {
		*e = bpEntry{address: address, counter: StronglyNotTaken, valid: true}
	}
	if taken {
		if e.counter < StronglyTaken {
			e.counter++
		}
	} else {
		if e.counter > StronglyNotTaken {
			e.counter--
		}
	}
}

// Stats returns (predictions, mispredictions) accumulated so far.
func (p *BranchPredictor) Stats() (predictions, mispredictions uint64) {
	return p.predictions, p.mispredicts
}
