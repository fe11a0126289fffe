package service

import "errors"

// Domain errors shared across services. Handlers map these onto HTTP
// status codes and response error codes.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("not the resource owner")
	ErrProjectLimit     = errors.New("free plan project limit reached")
	ErrNotPublished     = errors.New("questionnaire not published")
	ErrNotDraft         = errors.New("questionnaire not in draft status")
	ErrNoQuestions      = errors.New("questionnaire has no questions")
	ErrPasscodeRequired = errors.New("passcode required")
	ErrPasscodeRejected = errors.New("passcode rejected")
	ErrAINotConfigured  = errors.New("ai generation not configured")
)
