// Package session keeps the ordered chat log of one user conversation.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"docqa/internal/domain"
)

// ErrClosed is returned by Ask after Close.
var ErrClosed = errors.New("session closed")

// ErrorPrefix marks bot turns that report a failed question.
const ErrorPrefix = "⚠️ Error: "

// Session is an append-only log of chat turns. It is safe for concurrent use.
type Session struct {
	answerer domain.Answerer

	mu     sync.RWMutex
	turns  []domain.ChatTurn
	closed bool
}

// Open starts an empty session answering through answerer.
func Open(answerer domain.Answerer) *Session {
	return &Session{answerer: answerer}
}

// Ask records question as a user turn, answers it and records the bot turn.
// When answering fails the bot turn carries the error text and the error is
// returned as well.
func (s *Session) Ask(ctx context.Context, question string) (domain.ChatTurn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.ChatTurn{}, fmt.Errorf("%w: empty question", domain.ErrInvalidArgument)
	}
	if err := s.append(domain.ChatTurn{Role: domain.RoleUser, Message: question}); err != nil {
		return domain.ChatTurn{}, err
	}

	answer, err := s.answerer.Answer(ctx, question)
	turn := domain.ChatTurn{Role: domain.RoleBot, Message: answer}
	if err != nil {
		turn.Message = ErrorPrefix + err.Error()
	}
	if appendErr := s.append(turn); appendErr != nil {
		return domain.ChatTurn{}, appendErr
	}
	return turn, err
}

func (s *Session) append(turn domain.ChatTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.turns = append(s.turns, turn)
	return nil
}

// Turns returns a copy of the log in insertion order.
func (s *Session) Turns() []domain.ChatTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ChatTurn(nil), s.turns...)
}

// Len returns the number of turns.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Close discards the log. Further questions fail with ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	s.closed = true
}
