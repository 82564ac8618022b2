// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/collection"
	"github.com/kemujan/hubcms/internal/model"
)

// QuestionBackend is the remote question collection.
type QuestionBackend interface {
	collection.Backend[model.Question, int64]
	Answer(ctx context.Context, id int64, answer, answeredBy string) error
}

// QuestionService manages visitor questions.
type QuestionService struct {
	*collection.Manager[model.Question, int64]
	backend QuestionBackend
}

// NewQuestionService creates a QuestionService.
func NewQuestionService(backend QuestionBackend, logger *slog.Logger) *QuestionService {
	return &QuestionService{
		Manager: collection.New[model.Question, int64](backend, collection.Options[model.Question, int64]{
			Name:    "questions",
			IDOf:    func(q model.Question) int64 { return q.ID },
			Prepare: prepareQuestion,
			Logger:  logger,
		}),
		backend: backend,
	}
}

func prepareQuestion(q model.Question) (model.Question, error) {
	q.Name = strings.TrimSpace(q.Name)
	q.Email = strings.TrimSpace(q.Email)
	q.Question = strings.TrimSpace(q.Question)
	if q.Name == "" {
		return q, apperr.Required("name")
	}
	if q.Question == "" {
		return q, apperr.Required("question")
	}
	if q.Status == "" {
		q.Status = model.QuestionStatusPending
	}
	return q, nil
}

// Answer submits an answer and reloads. The answer is sent as typed, only
// trimmed; escaping is up to whoever renders it. An empty answeredBy
// defaults to the admin author. Re-answering an answered question
// overwrites the previous answer.
func (s *QuestionService) Answer(ctx context.Context, id int64, answer, answeredBy string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return apperr.Required("answer")
	}
	answeredBy = strings.TrimSpace(answeredBy)
	if answeredBy == "" {
		answeredBy = model.DefaultAuthor
	}
	return s.Mutate(ctx, "answer", func(ctx context.Context) error {
		return s.backend.Answer(ctx, id, answer, answeredBy)
	})
}

// FilterStatus returns cached questions by status: "all", "pending" or
// "answered". Order is preserved.
func (s *QuestionService) FilterStatus(status string) ([]model.Question, error) {
	switch status {
	case model.QuestionFilterAll, "":
		return s.Items(), nil
	case model.QuestionStatusPending, model.QuestionStatusAnswered:
		return s.Filter(func(q model.Question) bool { return q.Status == status }), nil
	default:
		return nil, apperr.Invalid("status", apperr.CodeInvalidValue,
			"status must be all, pending or answered, got %q", status)
	}
}

// Summary counts cached questions by status.
func (s *QuestionService) Summary() model.QuestionSummary {
	var sum model.QuestionSummary
	for _, q := range s.Items() {
		sum.Total++
		switch q.Status {
		case model.QuestionStatusPending:
			sum.Pending++
		case model.QuestionStatusAnswered:
			sum.Answered++
		}
	}
	return sum
}
