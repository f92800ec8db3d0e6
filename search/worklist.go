package search

// Candidate is a partially constructed register A value.
type Candidate struct {
	Value int64 // Integer value of the chunks fixed so far.
	Depth int   // Number of 3-bit chunks fixed so far.
}

// Worklist is a LIFO of candidates awaiting extension.
type Worklist struct {
	Data []Candidate
}

func (w *Worklist) Push(cand Candidate) {
	w.Data = append(w.Data, cand)
}

func (w *Worklist) Pop() (cand Candidate, ok bool) {
	if w.Empty() {
		return
	}

	cand, ok = w.Data[len(w.Data)-1], true
	w.Data = w.Data[:len(w.Data)-1]
	return
}

// PopN removes up to n candidates, most recently pushed first.
func (w *Worklist) PopN(n int) (cands []Candidate) {
	for range n {
		cand, ok := w.Pop()
		if !ok {
			break
		}
		cands = append(cands, cand)
	}
	return
}

func (w *Worklist) Empty() bool {
	return len(w.Data) == 0
}
