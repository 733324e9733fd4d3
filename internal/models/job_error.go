package models

// JobErrorType is the failure category stored on a job
type JobErrorType string

const (
	ErrorTypeProcessing JobErrorType = "processing" // ffmpeg or reconstruction failed
	ErrorTypeSystem     JobErrorType = "system"     // database, worker, or other system error
	ErrorTypeNotFound   JobErrorType = "not_found"  // input missing or unusable, never retried
)

// StructuredJobError is a processor failure already sorted into a category
// and code for the job record.
type StructuredJobError struct {
	Type     JobErrorType
	Code     string
	Message  string
	Details  string
	Original error
}

func (e *StructuredJobError) Error() string {
	return e.Message
}

func (e *StructuredJobError) Unwrap() error {
	return e.Original
}

// Permanent reports whether the job should not be retried.
func (e *StructuredJobError) Permanent() bool {
	return e.Type == ErrorTypeNotFound
}

// NewProcessingError reports a media stage that failed
func NewProcessingError(code, message, details string, original error) *StructuredJobError {
	return &StructuredJobError{Type: ErrorTypeProcessing, Code: code, Message: message, Details: details, Original: original}
}

// NewSystemError reports a failure outside the media stages
func NewSystemError(code, message, details string, original error) *StructuredJobError {
	return &StructuredJobError{Type: ErrorTypeSystem, Code: code, Message: message, Details: details, Original: original}
}

// NewNotFoundError reports an unusable request. The job fails permanently.
func NewNotFoundError(code, message, details string, original error) *StructuredJobError {
	return &StructuredJobError{Type: ErrorTypeNotFound, Code: code, Message: message, Details: details, Original: original}
}
