package index

import "errors"

// ErrVectorLengthMismatch indicates two vectors have different dimensions.
var ErrVectorLengthMismatch = errors.New("vector length mismatch")

// ErrEmptyInput is returned by Build when no commands are given.
var ErrEmptyInput = errors.New("cannot build index from empty command list")

// ErrNoIndex is returned by Search and Save when no index was ever built or loaded.
//
// An index that exists but holds zero commands is not an error.
var ErrNoIndex = errors.New("index not loaded: build or load an index first")

// ErrPersistence wraps failures while writing index artifacts to disk.
var ErrPersistence = errors.New("cannot persist index")

// ErrEmbedding wraps failures reported by the embeddings provider.
var ErrEmbedding = errors.New("embedding provider failed")
