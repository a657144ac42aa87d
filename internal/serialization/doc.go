// Package serialization exports collated batches as SafeTensors files and reads them back.
//
// SafeTensors layout:
//
//	[8 bytes: header size (uint64 LE)]
//	[header: JSON, tensor entries plus optional "__metadata__" string map]
//	[tensor data: raw little-endian bytes, in header order]
//
// Batches are flattened by leaf path. Dense leaves keep their path as the tensor
// name, masked leaves split into "<path>.data" and "<path>.mask", and pass-through
// leaves are stored as JSON strings in the metadata under their path.
//
// Example usage:
//
//	batch, err := collate.Collate(samples)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := serialization.WriteBatch("batch-00000.safetensors", batch, nil); err != nil {
//	    log.Fatal(err)
//	}
package serialization
