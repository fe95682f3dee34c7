package tpsa

import "fmt"

// Map is a vector of series sharing one descriptor.
type Map[T Num] []*Series[T]

// NewMap allocates n zero series of order mo on d.
func NewMap[T Num](d *Desc, n, mo int) Map[T] {
	m := make(Map[T], n)
	for i := range m {
		m[i] = New[T](d, mo)
	}
	return m
}

// IdentityMap returns the map x_i -> ref[i] + x_i over the map variables of
// d. ref may be nil.
func IdentityMap[T Num](d *Desc, mo int, ref []T) Map[T] {
	m := NewMap[T](d, d.nmv, mo)
	for i, s := range m {
		var v T
		if i < len(ref) {
			v = ref[i]
		}
		s.SetVar(i, v, 1)
	}
	return m
}

// Desc returns the descriptor of the first component.
func (m Map[T]) Desc() *Desc {
	if len(m) == 0 {
		return nil
	}
	return m[0].d
}

// Clone returns a deep copy of m.
func (m Map[T]) Clone() Map[T] {
	c := make(Map[T], len(m))
	for i, s := range m {
		c[i] = s.Clone()
	}
	return c
}

// Copy sets every component of m from src.
func (m Map[T]) Copy(src Map[T]) error {
	if len(m) != len(src) {
		return &CompatError{Op: "copy", Reason: fmt.Sprintf("size %d != %d", len(m), len(src))}
	}
	for i := range m {
		m[i].Copy(src[i])
	}
	return nil
}

// Values returns the constant terms of m.
func (m Map[T]) Values() []T {
	v := make([]T, len(m))
	for i, s := range m {
		v[i] = s.coef[0]
	}
	return v
}

// Hi returns the highest order present in m.
func (m Map[T]) Hi() int {
	hi := 0
	for _, s := range m {
		hi = max(hi, s.hi)
	}
	return hi
}

// Linear returns the first order coefficients: row i holds d m_i / d x_j.
func (m Map[T]) Linear() [][]T {
	d := m.Desc()
	rows := make([][]T, len(m))
	unit := make([]int, d.nv)
	for j := 0; j < d.nv; j++ {
		unit[j] = 1
		idx := d.Index(unit)
		unit[j] = 0
		for i, s := range m {
			if rows[i] == nil {
				rows[i] = make([]T, d.nv)
			}
			if idx >= 0 {
				rows[i][j] = s.coef[idx]
			}
		}
	}
	return rows
}

// Eval evaluates m at the point x, one value per variable.
func (m Map[T]) Eval(x []T) ([]T, error) {
	d := m.Desc()
	if d == nil {
		return nil, nil
	}
	if len(x) != d.nv {
		return nil, &CompatError{Op: "eval", Reason: fmt.Sprintf("point has %d values, want %d", len(x), d.nv)}
	}
	n := d.ord2idx[m.Hi()+1]
	vals := monomialValues(d, x, n)
	out := make([]T, len(m))
	for k, s := range m {
		if s.d != d {
			return nil, &CompatError{Op: "eval", Reason: "mixed descriptors"}
		}
		var sum T
		for i := 0; i < n; i++ {
			if v := s.coef[i]; v != 0 {
				sum += v * vals[i]
			}
		}
		out[k] = sum
	}
	return out, nil
}

// Eval evaluates c at the point x.
func (c *Series[T]) Eval(x []T) (T, error) {
	v, err := Map[T]{c}.Eval(x)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// monomialValues returns the value of the first n monomials at x. Every
// monomial is its predecessor with one exponent lowered, times that variable.
func monomialValues[T Num](d *Desc, x []T, n int) []T {
	vals := make([]T, n)
	vals[0] = 1
	m := make([]uint8, d.nv)
	for i := 1; i < n; i++ {
		copy(m, d.mono(i))
		j := 0
		for m[j] == 0 {
			j++
		}
		m[j]--
		vals[i] = vals[d.indexOf(m)] * x[j]
	}
	return vals
}
