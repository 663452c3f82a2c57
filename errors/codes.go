package errors

// ErrorCode identifies an application error class across the API
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1003
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1004

	// Alignment
	ErrorCode_ALIGN_EMPTY_TRANSCRIPT ErrorCode = 2000
	ErrorCode_ALIGN_EMPTY_OUTLINE    ErrorCode = 2001
	ErrorCode_TRANSCRIPTION_FAILED   ErrorCode = 2002
	ErrorCode_OUTLINE_FAILED         ErrorCode = 2003

	// Jobs
	ErrorCode_JOB_CONFLICT      ErrorCode = 3000
	ErrorCode_JOB_SUBMIT_FAILED ErrorCode = 3001

	// Merge / catalog
	ErrorCode_MERGE_INVALID_INPUT ErrorCode = 4000
	ErrorCode_REORDER_INVALID     ErrorCode = 4001
	ErrorCode_CARD_INVALID        ErrorCode = 4002

	// Storage
	ErrorCode_STORAGE_FAILED ErrorCode = 5000
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                "OK",
	ErrorCode_INTERNAL:               "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:       "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:              "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:        "INVALID_PAYLOAD",
	ErrorCode_UNAUTHENTICATED:        "UNAUTHENTICATED",
	ErrorCode_ALIGN_EMPTY_TRANSCRIPT: "ALIGN_EMPTY_TRANSCRIPT",
	ErrorCode_ALIGN_EMPTY_OUTLINE:    "ALIGN_EMPTY_OUTLINE",
	ErrorCode_TRANSCRIPTION_FAILED:   "TRANSCRIPTION_FAILED",
	ErrorCode_OUTLINE_FAILED:         "OUTLINE_FAILED",
	ErrorCode_JOB_CONFLICT:           "JOB_CONFLICT",
	ErrorCode_JOB_SUBMIT_FAILED:      "JOB_SUBMIT_FAILED",
	ErrorCode_MERGE_INVALID_INPUT:    "MERGE_INVALID_INPUT",
	ErrorCode_REORDER_INVALID:        "REORDER_INVALID",
	ErrorCode_CARD_INVALID:           "CARD_INVALID",
	ErrorCode_STORAGE_FAILED:         "STORAGE_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
