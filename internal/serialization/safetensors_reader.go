package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/born-ml/padcollate/internal/tensor"
)

// SafeTensorsHeader is the parsed JSON header of a SafeTensors file.
type SafeTensorsHeader struct {
	Metadata map[string]string
	Tensors  map[string]SafeTensorInfo
}

// UnmarshalJSON splits "__metadata__" from the tensor entries.
func (h *SafeTensorsHeader) UnmarshalJSON(data []byte) error {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return err
	}

	if metadataRaw, ok := rawMap[metadataKey]; ok {
		if err := json.Unmarshal(metadataRaw, &h.Metadata); err != nil {
			return fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
		delete(rawMap, metadataKey)
	}

	h.Tensors = make(map[string]SafeTensorInfo, len(rawMap))
	for key, value := range rawMap {
		var info SafeTensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("failed to unmarshal tensor %s: %w", key, err)
		}
		h.Tensors[key] = info
	}
	return nil
}

// SafeTensorsReader reads SafeTensors files.
type SafeTensorsReader struct {
	file       *os.File
	header     SafeTensorsHeader
	dataOffset int64
}

// NewSafeTensorsReader opens path and validates its header.
func NewSafeTensorsReader(path string) (*SafeTensorsReader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for batch inspection
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r := &SafeTensorsReader{file: file}
	if err := r.readHeader(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return r, nil
}

func (r *SafeTensorsReader) readHeader() error {
	var headerSize uint64
	if err := binary.Read(r.file, binary.LittleEndian, &headerSize); err != nil {
		return fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return &ValidationError{Kind: ErrHeaderTooLarge, Details: fmt.Sprintf("%d bytes", headerSize)}
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r.file, headerBytes); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if err := json.Unmarshal(headerBytes, &r.header); err != nil {
		return fmt.Errorf("failed to parse header JSON: %w", err)
	}
	r.dataOffset = int64(8 + headerSize) //nolint:gosec // G115: bounded by MaxHeaderSize.

	stat, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	metas := make([]TensorMeta, 0, len(r.header.Tensors))
	for name, info := range r.header.Tensors {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		metas = append(metas, TensorMeta{
			Name:   name,
			Offset: info.DataOffsets[0],
			Size:   info.DataOffsets[1] - info.DataOffsets[0],
		})
	}
	return ValidateTensorOffsets(metas, stat.Size()-r.dataOffset)
}

// Close closes the SafeTensors file.
func (r *SafeTensorsReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Metadata returns the metadata map from the header.
func (r *SafeTensorsReader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns the tensor names in alphabetical order.
func (r *SafeTensorsReader) TensorNames() []string {
	names := make([]string, 0, len(r.header.Tensors))
	for name := range r.header.Tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TensorInfo returns the header entry of a tensor.
func (r *SafeTensorsReader) TensorInfo(name string) (SafeTensorInfo, error) {
	info, ok := r.header.Tensors[name]
	if !ok {
		return SafeTensorInfo{}, fmt.Errorf("tensor %s not found", name)
	}
	return info, nil
}

// LoadTensor reads a tensor onto device. Every SafeTensors dtype written by this
// package, including F16 and BF16, is loaded without conversion.
func (r *SafeTensorsReader) LoadTensor(name string, device tensor.Device) (*tensor.RawTensor, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	dtype, err := dataTypeOf(info.DType)
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}

	shape := make(tensor.Shape, len(info.Shape))
	for i, dim := range info.Shape {
		shape[i] = int(dim)
	}
	raw, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		return nil, fmt.Errorf("invalid shape for tensor %s: %w", name, err)
	}

	size := info.DataOffsets[1] - info.DataOffsets[0]
	if size != int64(raw.ByteSize()) {
		return nil, &ValidationError{
			Kind:    ErrSizeMismatch,
			Tensor:  name,
			Details: fmt.Sprintf("%d bytes for %s%v", size, dtype, shape),
		}
	}

	if _, err := r.file.ReadAt(raw.Data(), r.dataOffset+info.DataOffsets[0]); err != nil {
		return nil, fmt.Errorf("failed to read tensor %s: %w", name, err)
	}
	if dtype == tensor.Bool {
		for i, v := range raw.Data() {
			if v > 1 {
				return nil, &ValidationError{
					Kind:    ErrInvalidBool,
					Tensor:  name,
					Details: fmt.Sprintf("byte %d is 0x%02x", i, v),
				}
			}
		}
	}
	return raw, nil
}

// ReadSafeTensors loads every tensor of the file at path onto the CPU.
func ReadSafeTensors(path string) (map[string]*tensor.RawTensor, map[string]string, error) {
	r, err := NewSafeTensorsReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = r.Close()
	}()

	tensors := make(map[string]*tensor.RawTensor, len(r.header.Tensors))
	for _, name := range r.TensorNames() {
		raw, err := r.LoadTensor(name, tensor.CPU)
		if err != nil {
			return nil, nil, err
		}
		tensors[name] = raw
	}
	return tensors, r.Metadata(), nil
}

func dataTypeOf(dtype SafeTensorsDType) (tensor.DataType, error) {
	for dt, name := range safeTensorsDTypes {
		if name == dtype {
			return dt, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedDType, dtype)
}
