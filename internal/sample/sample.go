// Package sample decodes JSON samples into collatable structures.
//
// Objects become mappings with their key order kept, arrays become tuples,
// strings become token leaves and integral numbers scalar leaves. Any other
// JSON value becomes an opaque leaf. Tensors are written as
//
//	{"$tensor": {"dtype": "float32", "shape": [3, 2], "data": [...], "mask": [...]}}
//
// where data is flat in row-major order and the optional mask makes the leaf masked.
package sample

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/born-ml/padcollate/internal/collate"
	"github.com/born-ml/padcollate/internal/tensor"
)

// TensorKey marks an object as a tensor literal.
const TensorKey = "$tensor"

// ErrInvalidSample is wrapped by every decoding error.
var ErrInvalidSample = errors.New("invalid sample")

// LineError locates a decoding failure in JSON Lines input.
type LineError struct {
	Line int
	Err  error
}

// Error implements the error interface.
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *LineError) Unwrap() error {
	return e.Err
}

type tensorLiteral struct {
	DType string          `json:"dtype"`
	Shape []int           `json:"shape"`
	Data  json.RawMessage `json:"data"`
	Mask  []bool          `json:"mask"`
}

// Decode parses one JSON document into a Structure.
func Decode(data []byte) (collate.Structure, error) {
	s, err := decodeValue("", data)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ReadJSONL decodes one sample per non-blank line of r.
func ReadJSONL(r io.Reader) ([]collate.Structure, error) {
	var samples []collate.Structure
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	for line := 1; scanner.Scan(); line++ {
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		s, err := Decode(text)
		if err != nil {
			return nil, &LineError{Line: line, Err: err}
		}
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}
	return samples, nil
}

func invalid(path, format string, args ...any) error {
	if path == "" {
		path = "<root>"
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidSample, path, fmt.Sprintf(format, args...))
}

func decodeValue(path string, data []byte) (collate.Structure, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, invalid(path, "empty value")
	}

	switch data[0] {
	case '{':
		return decodeObject(path, data)

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, invalid(path, "%v", err)
		}
		tup := make(collate.Tuple, len(items))
		for i, item := range items {
			s, err := decodeValue(fmt.Sprintf("%s[%d]", path, i), item)
			if err != nil {
				return nil, err
			}
			tup[i] = s
		}
		return tup, nil

	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, invalid(path, "%v", err)
		}
		return collate.Token(s), nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, invalid(path, "%v", err)
	}
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return collate.Scalar(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, invalid(path, "%v", err)
		}
		return collate.Opaque(f), nil
	}
	return collate.Opaque(v), nil
}

func decodeObject(path string, data []byte) (collate.Structure, error) {
	fields := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, fields); err != nil {
		return nil, invalid(path, "%v", err)
	}

	if raw, ok := fields.Get(TensorKey); ok {
		if fields.Len() != 1 {
			return nil, invalid(path, "%s object must have no other keys", TensorKey)
		}
		return decodeTensor(path, raw)
	}

	m := collate.NewMapping()
	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		key := pair.Key
		child := key
		if path != "" {
			child = path + "." + key
		}
		s, err := decodeValue(child, pair.Value)
		if err != nil {
			return nil, err
		}
		m.Set(key, s)
	}
	return m, nil
}

func decodeTensor(path string, raw json.RawMessage) (collate.Structure, error) {
	var lit tensorLiteral
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&lit); err != nil {
		return nil, invalid(path, "tensor: %v", err)
	}

	dtype, ok := tensor.ParseDataType(lit.DType)
	if !ok {
		return nil, invalid(path, "tensor: unknown dtype %q", lit.DType)
	}
	shape := tensor.Shape(lit.Shape)
	if err := shape.Validate(); err != nil {
		return nil, invalid(path, "tensor: %v", err)
	}

	values, err := decodeData(dtype, shape, lit.Data)
	if err != nil {
		return nil, invalid(path, "tensor: %v", err)
	}
	if lit.Mask == nil {
		return collate.Dense(values), nil
	}

	if len(lit.Mask) != shape.NumElements() {
		return nil, invalid(path, "tensor: mask has %d entries, shape %v needs %d", len(lit.Mask), shape, shape.NumElements())
	}
	mask, err := tensor.FromSlice(lit.Mask, shape, tensor.CPU)
	if err != nil {
		return nil, invalid(path, "tensor mask: %v", err)
	}
	m, err := collate.NewMasked(values, mask)
	if err != nil {
		return nil, invalid(path, "%v", err)
	}
	return collate.Masked(m), nil
}

// decodeData builds a CPU tensor of dtype from a flat JSON array.
func decodeData(dtype tensor.DataType, shape tensor.Shape, raw json.RawMessage) (*tensor.RawTensor, error) {
	switch dtype {
	case tensor.Bool:
		return fromJSON[bool](raw, shape)
	case tensor.Int32:
		return fromJSON[int32](raw, shape)
	case tensor.Int64:
		return fromJSON[int64](raw, shape)
	case tensor.Uint8:
		// []uint8 unmarshals from base64, so go through []int32.
		wide, err := decodeFlat[int32](raw, shape)
		if err != nil {
			return nil, err
		}
		narrow := make([]uint8, len(wide))
		for i, v := range wide {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("value %d at %d out of uint8 range", v, i)
			}
			narrow[i] = uint8(v)
		}
		return tensor.FromSlice(narrow, shape, tensor.CPU)
	case tensor.Float64:
		return fromJSON[float64](raw, shape)
	default:
		values, err := decodeFlat[float32](raw, shape)
		if err != nil {
			return nil, err
		}
		return tensor.FromFloat32(values, shape, dtype, tensor.CPU)
	}
}

func decodeFlat[T any](raw json.RawMessage, shape tensor.Shape) ([]T, error) {
	var values []T
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	if len(values) != shape.NumElements() {
		return nil, fmt.Errorf("data has %d values, shape %v needs %d", len(values), shape, shape.NumElements())
	}
	return values, nil
}

func fromJSON[T tensor.DType](raw json.RawMessage, shape tensor.Shape) (*tensor.RawTensor, error) {
	values, err := decodeFlat[T](raw, shape)
	if err != nil {
		return nil, err
	}
	return tensor.FromSlice(values, shape, tensor.CPU)
}
