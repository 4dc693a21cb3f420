package util

import "errors"

var (
	ErrQuestionNotFound        = errors.New("question not found")
	ErrAnalysisNotFound        = errors.New("analysis result not found for this question/session, trigger analysis first")
	ErrUnsupportedQuestionType = errors.New("option statistics are only available for multiple-choice questions")
	ErrLockTimeout             = errors.New("timed out waiting for analysis lock")
)
