package physics

import (
	"fmt"

	"github.com/san-kum/gtpsa/internal/dynamo"
	"github.com/san-kum/gtpsa/internal/tpsa"
)

func unknownParam(name string) error {
	return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
}

// temps returns n zero series shaped like x[0].
func temps(x dynamo.State, n int) []*tpsa.TPSA {
	out := make([]*tpsa.TPSA, n)
	for i := range out {
		out[i] = tpsa.NewLike(x[0])
	}
	return out
}
