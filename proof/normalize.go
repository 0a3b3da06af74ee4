package proof

import (
	"errors"
	"fmt"
)

var (
	// ErrNodeTooLarge is returned when a proof node is wider than the
	// padded node width.
	ErrNodeTooLarge = errors.New("proof node exceeds maximum size")

	// ErrProofTooDeep is returned when a proof has more nodes than the
	// padded node count.
	ErrProofTooDeep = errors.New("proof exceeds maximum depth")
)

// Normalize pads every node to width bytes and the proof to count nodes,
// then concatenates them. The result is always count*width bytes long.
func Normalize(nodes [][]byte, width, count int) ([]byte, error) {
	if len(nodes) > count {
		return nil, fmt.Errorf("%w: %d nodes, max %d", ErrProofTooDeep, len(nodes), count)
	}
	out := make([]byte, count*width)
	for i, node := range nodes {
		if len(node) > width {
			return nil, fmt.Errorf("%w: node %d is %d bytes, max %d", ErrNodeTooLarge, i, len(node), width)
		}
		copy(out[i*width:], node)
	}
	return out, nil
}
