package errors

// ErrorCode identifies a failure class across the service. Codes are stable
// integers so dashboards and alerts can key on them without string matching.
type ErrorCode int32

const (
	ErrorCode_INTERNAL      ErrorCode = 1
	ErrorCode_INVALID_INPUT ErrorCode = 2
	ErrorCode_NOT_FOUND     ErrorCode = 3

	// Session lifecycle
	ErrorCode_SESSION_NOT_FOUND  ErrorCode = 100
	ErrorCode_SESSION_SEALED     ErrorCode = 101
	ErrorCode_SESSION_NOT_ACTIVE ErrorCode = 102
	ErrorCode_SESSION_EXPIRED    ErrorCode = 103

	// Ratings and trainee input
	ErrorCode_MISSING_RATING         ErrorCode = 110
	ErrorCode_RATING_OUT_OF_RANGE    ErrorCode = 111
	ErrorCode_INVALID_TRAINING_LEVEL ErrorCode = 112

	// Storage and collaborators
	ErrorCode_STORAGE_UNAVAILABLE ErrorCode = 200
	ErrorCode_ARCHIVE_UNAVAILABLE ErrorCode = 201

	// Retraining pipeline
	ErrorCode_INSUFFICIENT_DATA ErrorCode = 300
	ErrorCode_SIGNAL_NOT_FOUND  ErrorCode = 301
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_INTERNAL:               "INTERNAL",
	ErrorCode_INVALID_INPUT:          "INVALID_INPUT",
	ErrorCode_NOT_FOUND:              "NOT_FOUND",
	ErrorCode_SESSION_NOT_FOUND:      "SESSION_NOT_FOUND",
	ErrorCode_SESSION_SEALED:         "SESSION_SEALED",
	ErrorCode_SESSION_NOT_ACTIVE:     "SESSION_NOT_ACTIVE",
	ErrorCode_SESSION_EXPIRED:        "SESSION_EXPIRED",
	ErrorCode_MISSING_RATING:         "MISSING_RATING",
	ErrorCode_RATING_OUT_OF_RANGE:    "RATING_OUT_OF_RANGE",
	ErrorCode_INVALID_TRAINING_LEVEL: "INVALID_TRAINING_LEVEL",
	ErrorCode_STORAGE_UNAVAILABLE:    "STORAGE_UNAVAILABLE",
	ErrorCode_ARCHIVE_UNAVAILABLE:    "ARCHIVE_UNAVAILABLE",
	ErrorCode_INSUFFICIENT_DATA:      "INSUFFICIENT_DATA",
	ErrorCode_SIGNAL_NOT_FOUND:       "SIGNAL_NOT_FOUND",
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
