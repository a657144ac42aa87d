package collate

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/born-ml/padcollate/internal/tensor"
)

// Structure is one node of a sample or batch: a Leaf, a Tuple, or a *Mapping.
// The set of implementations is closed.
type Structure interface {
	fmt.Stringer
	isStructure()
}

// LeafKind enumerates the leaf variants.
type LeafKind int

// Leaf kinds. Token, Scalar, Dense, Masked and Opaque appear in samples;
// Tokens and List are produced by collating pass-through leaves.
const (
	LeafToken LeafKind = iota
	LeafScalar
	LeafDense
	LeafMasked
	LeafOpaque
	LeafTokens
	LeafList
)

// String returns the kind name.
func (k LeafKind) String() string {
	switch k {
	case LeafToken:
		return "token"
	case LeafScalar:
		return "scalar"
	case LeafDense:
		return "dense"
	case LeafMasked:
		return "masked"
	case LeafOpaque:
		return "opaque"
	case LeafTokens:
		return "tokens"
	case LeafList:
		return "list"
	default:
		return "unknown"
	}
}

// Leaf is a terminal value. Construct it with Token, Scalar, Dense, Masked or Opaque.
type Leaf struct {
	kind   LeafKind
	text   string
	scalar int64
	dense  *tensor.RawTensor
	masked *MaskedTensor
	tokens []string
	list   []any
	value  any
}

func (Leaf) isStructure() {}

// Token makes an opaque string leaf. Token batches pass through unpadded.
func Token(s string) Leaf { return Leaf{kind: LeafToken, text: s} }

// Scalar makes an integer leaf.
func Scalar(v int64) Leaf { return Leaf{kind: LeafScalar, scalar: v} }

// Dense makes a sequence leaf whose first dimension may vary across samples.
func Dense(t *tensor.RawTensor) Leaf { return Leaf{kind: LeafDense, dense: t} }

// Masked makes a masked sequence leaf.
func Masked(m *MaskedTensor) Leaf { return Leaf{kind: LeafMasked, masked: m} }

// Opaque wraps any other value. Opaque batches pass through as a List.
func Opaque(v any) Leaf { return Leaf{kind: LeafOpaque, value: v} }

// Tokens makes a batched token leaf.
func Tokens(tokens []string) Leaf { return Leaf{kind: LeafTokens, tokens: tokens} }

// List makes a batched pass-through leaf.
func List(values []any) Leaf { return Leaf{kind: LeafList, list: values} }

// Kind returns the leaf variant.
func (l Leaf) Kind() LeafKind { return l.kind }

// Token returns the string of a token leaf.
func (l Leaf) Token() string { return l.text }

// Scalar returns the value of a scalar leaf.
func (l Leaf) Scalar() int64 { return l.scalar }

// Tensor returns the tensor of a dense leaf.
func (l Leaf) Tensor() *tensor.RawTensor { return l.dense }

// Masked returns the value and mask pair of a masked leaf.
func (l Leaf) Masked() *MaskedTensor { return l.masked }

// Tokens returns the strings of a tokens leaf.
func (l Leaf) Tokens() []string { return l.tokens }

// List returns the values of a list leaf.
func (l Leaf) List() []any { return l.list }

// Value returns the leaf's payload as an untyped Go value.
func (l Leaf) Value() any {
	switch l.kind {
	case LeafToken:
		return l.text
	case LeafScalar:
		return l.scalar
	case LeafDense:
		return l.dense
	case LeafMasked:
		return l.masked
	case LeafTokens:
		return l.tokens
	case LeafList:
		return l.list
	default:
		return l.value
	}
}

// String implements fmt.Stringer.
func (l Leaf) String() string {
	switch l.kind {
	case LeafToken:
		return fmt.Sprintf("token(%q)", l.text)
	case LeafScalar:
		return fmt.Sprintf("scalar(%d)", l.scalar)
	case LeafDense:
		return fmt.Sprintf("dense(%v)", l.dense)
	case LeafMasked:
		return fmt.Sprintf("masked(%v)", l.masked)
	case LeafTokens:
		return fmt.Sprintf("tokens%q", l.tokens)
	case LeafList:
		return fmt.Sprintf("list%v", l.list)
	default:
		return fmt.Sprintf("opaque(%v)", l.value)
	}
}

// Tuple is an ordered, fixed-arity structure.
type Tuple []Structure

func (Tuple) isStructure() {}

// String implements fmt.Stringer.
func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, s := range t {
		parts[i] = describe(s)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Mapping is a keyed structure. Keys keep insertion order; collated batches
// take their key order from the first sample.
type Mapping struct {
	fields *orderedmap.OrderedMap[string, Structure]
}

func (*Mapping) isStructure() {}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{fields: orderedmap.New[string, Structure]()}
}

// Set adds or replaces a field and returns m for chaining.
// Replacing a key keeps its original position.
func (m *Mapping) Set(key string, value Structure) *Mapping {
	if m.fields == nil {
		m.fields = orderedmap.New[string, Structure]()
	}
	m.fields.Set(key, value)
	return m
}

// Get returns the field stored under key.
func (m *Mapping) Get(key string) (Structure, bool) {
	if m == nil || m.fields == nil {
		return nil, false
	}
	return m.fields.Get(key)
}

// Len returns the number of fields.
func (m *Mapping) Len() int {
	if m == nil || m.fields == nil {
		return 0
	}
	return m.fields.Len()
}

// Keys returns the field names in insertion order.
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, m.Len())
	if m.Len() == 0 {
		return keys
	}
	for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// String implements fmt.Stringer.
func (m *Mapping) String() string {
	keys := m.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		v, _ := m.Get(k)
		parts[i] = k + ": " + describe(v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func describe(s Structure) string {
	if s == nil {
		return "<nil>"
	}
	return s.String()
}

// nodeName names a node's shape for structure mismatch messages.
func nodeName(s Structure) string {
	switch v := s.(type) {
	case Leaf:
		return v.kind.String() + " leaf"
	case Tuple:
		return fmt.Sprintf("tuple of %d", len(v))
	case *Mapping:
		return "mapping"
	default:
		return "nil"
	}
}
