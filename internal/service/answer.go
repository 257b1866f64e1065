package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"docqa/internal/domain"
)

const (
	// DefaultTopK is the number of chunks placed in the prompt context.
	DefaultTopK = 4
	// DefaultSystemPrompt is sent as the system message of every request.
	DefaultSystemPrompt = "You are a helpful assistant."
	// APIErrorPrefix marks answers that report a failed model call.
	APIErrorPrefix = "⚠️ API Error: "
)

// AnswerOptions tunes an AnswerService.
type AnswerOptions struct {
	TopK         int
	SystemPrompt string
}

// AnswerService answers questions from a corpus using a remote language model.
type AnswerService struct {
	corpus    *Corpus
	completer domain.Completer
	topK      int
	system    string
}

// NewAnswerService creates an answer service over corpus.
func NewAnswerService(corpus *Corpus, completer domain.Completer, opts AnswerOptions) *AnswerService {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	return &AnswerService{corpus: corpus, completer: completer, topK: opts.TopK, system: opts.SystemPrompt}
}

// Answer retrieves context for question and asks the model. Retrieval errors
// are returned; a failed model call is reported in the answer text instead.
func (s *AnswerService) Answer(ctx context.Context, question string) (string, error) {
	results, err := s.corpus.Retrieve(ctx, question, s.topK)
	if err != nil {
		return "", err
	}
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Chunk.Text
	}
	prompt := BuildPrompt(strings.Join(texts, "\n\n"), question)

	start := time.Now()
	answer, err := s.completer.Complete(ctx, s.system, prompt)
	if err != nil {
		log.Warn().Err(err).Int("k", len(results)).Msg("answer request failed")
		return APIErrorPrefix + err.Error(), nil
	}
	log.Info().Int("k", len(results)).Dur("elapsed", time.Since(start)).Msg("answered question")
	return answer, nil
}

// BuildPrompt fills the question-answering template.
func BuildPrompt(context, question string) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant. Use the context below to answer the user's question.\n")
	b.WriteString("Context:\n")
	b.WriteString(context)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer:")
	return b.String()
}
