package tensor

// Backend defines the manipulation kernels the collator needs from a compute backend.
// Backends panic on malformed input; callers validate shapes and dtypes first.
//
// Implementations:
//   - CPU: Pure Go, dtype-agnostic byte copies
type Backend interface {
	// Cat concatenates tensors along an existing dimension.
	Cat(tensors []*RawTensor, dim int) *RawTensor

	// Stack joins same-shaped tensors along a new dimension.
	Stack(tensors []*RawTensor, dim int) *RawTensor

	// Unsqueeze adds a dimension of size 1 (view, no copy).
	Unsqueeze(x *RawTensor, dim int) *RawTensor

	// Reshape returns a view with a new shape of equal element count.
	Reshape(x *RawTensor, newShape Shape) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
