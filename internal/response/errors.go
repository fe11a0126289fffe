package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_ALREADY_REGISTERED"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"
	ErrNotOwner        ErrCode = "NOT_RESOURCE_OWNER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Plans ─────────────────────────────────────────────────────────
	ErrProjectLimit ErrCode = "PROJECT_LIMIT_REACHED"

	// ─── Survey-specific ───────────────────────────────────────────────
	ErrSurveyNotPublished  ErrCode = "SURVEY_NOT_PUBLISHED"
	ErrPasscodeRequired    ErrCode = "PASSCODE_REQUIRED"
	ErrPasscodeRejected    ErrCode = "PASSCODE_REJECTED"
	ErrRequiredFields      ErrCode = "REQUIRED_FIELDS_MISSING"
	ErrNoQuestions         ErrCode = "NO_QUESTIONS"
	ErrNotDraft            ErrCode = "QUESTIONNAIRE_NOT_DRAFT"
	ErrAINotConfigured     ErrCode = "AI_NOT_CONFIGURED"
	ErrAIGenerationFailed  ErrCode = "AI_GENERATION_FAILED"
	ErrSubmissionRejected  ErrCode = "SUBMISSION_REJECTED"
	ErrQuestionnaireClosed ErrCode = "QUESTIONNAIRE_CLOSED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrEmailTaken:
		return "An account with this email already exists."
	case ErrSessionInvalidated:
		return "Your session has ended. Please sign in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."
	case ErrNotOwner:
		return "You do not own this resource."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is invalid."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The resource was not found."
	case ErrConflict:
		return "The resource already exists."

	// ─── Plans ─────────────────────────────────────────────────────────
	case ErrProjectLimit:
		return "Project limit reached. Please upgrade to Pro for unlimited projects."

	// ─── Survey-specific ───────────────────────────────────────────────
	case ErrSurveyNotPublished:
		return "This survey is not published."
	case ErrPasscodeRequired:
		return "This survey is passcode protected."
	case ErrPasscodeRejected:
		return "Incorrect passcode."
	case ErrRequiredFields:
		return "Some required questions are unanswered."
	case ErrNoQuestions:
		return "This questionnaire has no questions and cannot be published."
	case ErrNotDraft:
		return "This questionnaire is not in draft status."
	case ErrAINotConfigured:
		return "AI question generation is not configured on this server."
	case ErrAIGenerationFailed:
		return "AI question generation failed. Please try again."
	case ErrSubmissionRejected:
		return "The response could not be accepted."
	case ErrQuestionnaireClosed:
		return "This questionnaire is no longer accepting responses."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
