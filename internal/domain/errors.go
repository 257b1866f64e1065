package domain

import "errors"

var (
	// ErrIngestion marks failures while loading, embedding or indexing the corpus.
	ErrIngestion = errors.New("ingestion failed")
	// ErrRetrieval marks failures while searching the index.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrInvalidArgument is returned for out-of-range search parameters.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptyIndex is returned when searching an index with no entries.
	ErrEmptyIndex = errors.New("index is empty")
	// ErrExport marks failures while rendering the chat transcript.
	ErrExport = errors.New("export failed")
)
