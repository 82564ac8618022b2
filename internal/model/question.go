// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Question statuses
const (
	QuestionStatusPending  = "pending"
	QuestionStatusAnswered = "answered"
)

// Question filter values accepted in addition to the statuses.
const QuestionFilterAll = "all"

// Question is a visitor question. Answer, AnsweredBy and AnsweredAt stay
// nil until an answer is submitted.
type Question struct {
	ID         int64   `json:"id,omitempty"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Question   string  `json:"question"`
	Answer     *string `json:"answer"`
	AnsweredBy *string `json:"answered_by"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at,omitempty"`
	AnsweredAt *string `json:"answered_at"`
}

// IsAnswered reports whether the question has been answered.
func (q *Question) IsAnswered() bool {
	return q.Status == QuestionStatusAnswered
}

// AnswerText returns the answer or the empty string.
func (q *Question) AnswerText() string {
	if q.Answer == nil {
		return ""
	}
	return *q.Answer
}

// QuestionSummary holds per-status counts.
type QuestionSummary struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Answered int `json:"answered"`
}
