package tpsa

import "fmt"

// scratchExtra is the number of buffers a stack holds beyond one per variable.
const scratchExtra = 12

// stack is a LIFO of reusable series bound to one descriptor. Buffers are
// allocated at the descriptor maximum order on first use.
type stack[T Num] struct {
	d   *Desc
	buf []*Series[T]
	top int
}

func (s *stack[T]) get(mo int) *Series[T] {
	if s.top == len(s.buf) {
		panic(fmt.Errorf("%w: %d buffers in use", ErrScratchExhausted, s.top))
	}
	t := s.buf[s.top]
	if t == nil {
		t = New[T](s.d, MaxOrd)
		s.buf[s.top] = t
	}
	s.top++
	t.Clear()
	t.mo = mo
	return t
}

func (s *stack[T]) put(t *Series[T]) {
	if s.top == 0 || s.buf[s.top-1] != t {
		panic(fmt.Errorf("%w: expected top %d", ErrScratchOrder, s.top-1))
	}
	s.top--
}

// scratch is the per-worker pool: one stack per coefficient type.
type scratch struct {
	re stack[float64]
	cx stack[complex128]
}

func newScratch(d *Desc) *scratch {
	return &scratch{
		re: stack[float64]{d: d, buf: make([]*Series[float64], d.stackCap)},
		cx: stack[complex128]{d: d, buf: make([]*Series[complex128], d.stackCap)},
	}
}

func stackOf[T Num](st *scratch) *stack[T] {
	if s, ok := any(&st.re).(*stack[T]); ok {
		return s
	}
	return any(&st.cx).(*stack[T])
}

func tmp[T Num](st *scratch, mo int) *Series[T] {
	return stackOf[T](st).get(mo)
}

func rel[T Num](st *scratch, t *Series[T]) {
	stackOf[T](st).put(t)
}

// acquire hands the calling goroutine a scratch pool for the duration of one
// operation.
func (d *Desc) acquire() *scratch {
	return d.stacks.Get().(*scratch)
}

func (d *Desc) release(st *scratch) {
	if st.re.top != 0 || st.cx.top != 0 {
		panic(fmt.Errorf("%w: %d real and %d complex buffers still held",
			ErrScratchOrder, st.re.top, st.cx.top))
	}
	d.stacks.Put(st)
}

// ScratchCap returns the number of buffers of each scratch stack.
func (d *Desc) ScratchCap() int { return d.stackCap }
