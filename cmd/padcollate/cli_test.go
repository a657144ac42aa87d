package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/padcollate/internal/serialization"
	"github.com/born-ml/padcollate/internal/tensor"
)

const samplesJSONL = `{"text": "ab", "id": 1, "pose": {"$tensor": {"dtype": "float32", "shape": [2, 2], "data": [1, 2, 3, 4], "mask": [true, true, true, true]}}}
{"text": "abc", "id": 2, "pose": {"$tensor": {"dtype": "float32", "shape": [3, 2], "data": [5, 6, 7, 8, 9, 10], "mask": [true, true, true, true, false, false]}}}
{"text": "c", "id": 3, "pose": {"$tensor": {"dtype": "float32", "shape": [1, 2], "data": [11, 12], "mask": [true, true]}}}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewCLI()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeSamples(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(samplesJSONL), 0o600))
	return path
}

func TestCollateCommand_PrintsShapes(t *testing.T) {
	out, err := execute(t, "collate", writeSamples(t), "--batch-size", "2", "--workers", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "3 samples, 2 batches")
	assert.Contains(t, out, "batch 0")
	assert.Contains(t, out, "batch 1")
	assert.Contains(t, out, "PATH")

	lines := strings.Split(out, "\n")
	var poseRows []string
	for _, line := range lines {
		if strings.HasPrefix(line, "pose") {
			poseRows = append(poseRows, strings.Join(strings.Fields(line), " "))
		}
	}
	assert.Equal(t, []string{"pose masked float32 [2 3 2]", "pose masked float32 [1 1 2]"}, poseRows)
}

func TestCollateCommand_TokenizeAndExport(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "batches")
	_, err := execute(t, "collate", writeSamples(t),
		"--batch-size", "3", "--tokenize", "text", "--encoding", "char", "--out", outDir)
	require.NoError(t, err)

	path := filepath.Join(outDir, "batch-00000.safetensors")
	tensors, metadata, err := serialization.ReadSafeTensors(path)
	require.NoError(t, err)

	assert.Len(t, metadata["batch_id"], 36)
	assert.Equal(t, "0", metadata["batch_index"])

	ids := tensors["text.data"]
	require.NotNil(t, ids)
	assert.Equal(t, tensor.Int32, ids.DType())
	assert.Equal(t, tensor.Shape{3, 5}, ids.Shape())
	// Alphabet "abc": a=4, b=5, c=6, bracketed by bos=1 and eos=2, padded with 0.
	assert.Equal(t, []int32{
		1, 4, 5, 2, 0,
		1, 4, 5, 6, 2,
		1, 6, 2, 0, 0,
	}, ids.AsInt32())

	assert.Equal(t, tensor.Shape{3, 3, 2}, tensors["pose.data"].Shape())
	assert.Equal(t, []int64{1, 2, 3}, tensors["id"].AsInt64())

	out, err := execute(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "pose.mask")
	assert.Contains(t, out, "BOOL")
	assert.Contains(t, out, "batch_id")
}

func TestCollateCommand_EmptySequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl")
	doc := `{"pose": {"$tensor": {"dtype": "float32", "shape": [0, 2], "data": [], "mask": []}}}
{"pose": {"$tensor": {"dtype": "float32", "shape": [2, 2], "data": [1, 2, 3, 4], "mask": [true, true, true, true]}}}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	outDir := t.TempDir()
	_, err := execute(t, "collate", path, "--batch-size", "2", "--out", outDir)
	require.NoError(t, err)

	tensors, _, err := serialization.ReadSafeTensors(filepath.Join(outDir, "batch-00000.safetensors"))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2, 2}, tensors["pose.data"].Shape())
	assert.Equal(t, []float32{0, 0, 0, 0, 1, 2, 3, 4}, tensors["pose.data"].AsFloat32())
	assert.Equal(t, []bool{false, false, false, false, true, true, true, true}, tensors["pose.mask"].AsBool())
}

func TestCollateCommand_Errors(t *testing.T) {
	_, err := execute(t, "collate", filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)

	_, err = execute(t, "collate", writeSamples(t), "--batch-size", "0")
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(bad, []byte("{\"id\": 1}\n{\"id\": 2, \"x\": 3}\n"), 0o600))
	_, err = execute(t, "collate", bad, "--batch-size", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "structure mismatch")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "padcollate version "+version+"\n", out)
}

func TestEnvCommand(t *testing.T) {
	t.Setenv("PADCOLLATE_WORKERS", "3")
	t.Setenv("PADCOLLATE_DEBUG", "1")
	out, err := execute(t, "env")
	require.NoError(t, err)

	rows := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		if fields := strings.Fields(line); len(fields) >= 2 {
			rows[fields[0]] = fields[1]
		}
	}
	assert.Equal(t, "3", rows["PADCOLLATE_WORKERS"])
	assert.Equal(t, "DEBUG", rows["PADCOLLATE_DEBUG"])
	assert.Equal(t, "0", rows["PADCOLLATE_PREFETCH"])
}
