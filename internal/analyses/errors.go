package analyses

import "errors"

var (
	ErrExtractionFailed       = errors.New("could not extract text")
	ErrJobDescriptionRequired = errors.New("job description is required")
	ErrInvalidEmail           = errors.New("a valid email is required")
	ErrFileRequired           = errors.New("a resume file is required")
	ErrUnknownStrategy        = errors.New("unknown scoring strategy")
	ErrInvalidKind            = errors.New("unknown analysis kind")
	ErrSessionRequired        = errors.New("session id is required")
)

const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeExtractionFailed     = "extraction_failed"
	ErrorCodeSubscriptionRequired = "subscription_required"
	ErrorCodeInternal             = "internal_error"
	ErrorCodeTimeout              = "timeout"
	ErrorCodeFileTooLarge         = "file_too_large"
)

// Messages shown to users.
const (
	MessageExtractionFailed = "Could not extract text from this file."
	MessageNotSaved         = "Your result may not have been saved."
	MessageLimitReached     = "You've used your free check. Subscribe for unlimited checks."
)
