// Package bitstack implements the 64-level nesting stack shared by the JSON
// reader and writer: one machine word with bit 0 at depth d recording
// whether the container opened at that depth is an object (1) or an array
// (0). It is deliberately not a slice-backed stack, matching Azure's
// az_json_bit_stack: it fits in a register and never allocates.
package bitstack

import "github.com/diwise/iot-core-sdk/pkg/result"

const maxDepth = 64

// Stack is a copy-trivial 64-level packed bit-stack.
type Stack struct {
	bits  uint64
	depth uint8
}

// New returns an empty stack.
func New() Stack { return Stack{} }

// Depth returns the current nesting depth (0..64).
func (s Stack) Depth() int { return int(s.depth) }

// PushObject records entry into an object container.
func (s *Stack) PushObject() result.Code { return s.push(1) }

// PushArray records entry into an array container.
func (s *Stack) PushArray() result.Code { return s.push(0) }

func (s *Stack) push(bit uint64) result.Code {
	if s.depth >= maxDepth {
		return result.JSONNestingOverflow
	}
	s.bits = (s.bits << 1) | bit
	s.depth++
	return result.Ok
}

// Pop removes the innermost container marker. Popping at depth 0 is
// forbidden and returns JSONInvalidState.
func (s *Stack) Pop() result.Code {
	if s.depth == 0 {
		return result.JSONInvalidState
	}
	s.bits >>= 1
	s.depth--
	return result.Ok
}

// CurrentIsObject reports whether the innermost open container is an
// object. Calling it at depth 0 returns false.
func (s Stack) CurrentIsObject() bool {
	if s.depth == 0 {
		return false
	}
	return s.bits&1 == 1
}
