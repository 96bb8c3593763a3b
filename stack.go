package castor

// Stack is a LIFO view over an exclusively owned Vector. Every operation
// forwards to the back of the vector, so push, pop and peek are O(1) and Copy
// inherits the vector's deep-clone semantics.
//
// Stack is not safe for concurrent use.
type Stack struct {
	vector *Vector
}

// NewStack constructs a stack holding elements of objectSize bytes. The
// options are the vector options; construction failure propagates.
func NewStack(objectSize int, optFns ...Option) (*Stack, error) {
	vector, err := NewVector(objectSize, optFns...)
	if err != nil {
		return nil, err
	}
	return &Stack{vector: vector}, nil
}

// Push places a raw byte copy of obj on top of the stack.
func (s *Stack) Push(obj []byte) error {
	return s.vector.PushBack(obj)
}

// Pop removes the top element and copies its bytes into dst. No Release hook
// is invoked: ownership transfers to the caller with the bytes.
func (s *Stack) Pop(dst []byte) error {
	return s.vector.PopBack(dst)
}

// Peek returns the top element without removing it, or ok=false if the stack
// is empty. The returned slice aliases the buffer and is invalidated by any
// subsequent Push that grows it.
func (s *Stack) Peek() ([]byte, bool) {
	return s.vector.Back()
}

// Empty reports whether the stack holds no elements.
func (s *Stack) Empty() bool {
	return s.vector.Empty()
}

// Len returns the number of stacked elements.
func (s *Stack) Len() int {
	return s.vector.Len()
}

// ObjectSize returns the fixed byte width of one element.
func (s *Stack) ObjectSize() int {
	return s.vector.ObjectSize()
}

// Copy produces a deep structural clone of the stack; see Vector.Copy for the
// shrinkToFit and element-hook semantics.
func (s *Stack) Copy(shrinkToFit bool) (*Stack, error) {
	vector, err := s.vector.Copy(shrinkToFit)
	if err != nil {
		return nil, err
	}
	return &Stack{vector: vector}, nil
}

// Close releases all elements and the owned vector. Close is nil-safe and
// idempotent.
func (s *Stack) Close() error {
	if s == nil {
		return nil
	}
	return s.vector.Close()
}
