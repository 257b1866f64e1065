package domain

import "context"

// Document represents a single file loaded from the documents folder.
type Document struct {
	Name    string
	Path    string
	Content string
}

// Chunk is a bounded span of a document used as the unit of retrieval.
// ID is assigned once by the ingestion pipeline and links the chunk to its
// embedding and index entry.
type Chunk struct {
	ID     int
	Source string
	Index  int
	Text   string
}

// Hit is a raw index match: the chunk ID and its squared Euclidean distance.
type Hit struct {
	ID       int
	Distance float32
}

// SearchResult represents a retrieved chunk with its distance to the query.
type SearchResult struct {
	Chunk    Chunk
	Distance float32
}

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// ChatTurn is one message in a chat session.
type ChatTurn struct {
	Role    Role
	Message string
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(ctx context.Context, corpus []string) error
	Dimension() int
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// VectorIndex is an immutable nearest-neighbor structure over chunk vectors.
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, k int) ([]Hit, error)
	Size() int
	Dimension() int
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// Completer sends a system and user message to a chat model and returns the reply.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Answerer turns a question into an answer grounded in the corpus.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}
