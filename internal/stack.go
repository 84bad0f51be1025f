package internal

// StackLimit is the maximum call depth.
const StackLimit = 16

// Stack holds subroutine return addresses.
type Stack struct {
	data [StackLimit]uint16
	sp   uint8
}

// Push stores a return address.
func (s *Stack) Push(addr uint16) error {
	if s.Full() {
		return ErrStackOverflow
	}
	s.data[s.sp] = addr
	s.sp++
	return nil
}

// Pop removes and returns the most recent return address.
func (s *Stack) Pop() (uint16, error) {
	if s.Empty() {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.data[s.sp], nil
}

// Peek returns the most recent return address without removing it.
func (s *Stack) Peek() (addr uint16, ok bool) {
	if s.Empty() {
		return
	}
	return s.data[s.sp-1], true
}

func (s *Stack) Empty() bool {
	return s.sp == 0
}

func (s *Stack) Full() bool {
	return s.sp == StackLimit
}

// Depth returns the number of stored return addresses.
func (s *Stack) Depth() int {
	return int(s.sp)
}

// Addresses returns the stored return addresses, oldest first.
func (s *Stack) Addresses() []uint16 {
	out := make([]uint16, s.sp)
	copy(out, s.data[:s.sp])
	return out
}
