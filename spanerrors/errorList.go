package spanerrors

// Draining a body's byte source failed. The source I/O error is available through
// Unwrap().
var BodyReadError = NewSpanErrorType(
	"BodyReadError",
	1007,
	422,
)

// Serializing an object into body content failed.
var BodyEncodeError = NewSpanErrorType(
	"BodyEncodeError",
	1008,
	500,
)

// Body content could not be deserialized into the receiver. Distinct from
// BodyReadError: the bytes arrived but could not be understood.
var BodyDecodeError = NewSpanErrorType(
	"BodyDecodeError",
	1009,
	422,
)

// Declared body length cannot be held in memory for conversion.
var BodyTooLargeError = NewSpanErrorType(
	"BodyTooLargeError",
	1010,
	413,
)

// Body content is not valid UTF-8 text.
var InvalidTextError = NewSpanErrorType(
	"InvalidTextError",
	1011,
	422,
)

// List of default SpanError definitions.
var ErrorList = [5]*SpanErrorType{
	BodyReadError,
	BodyEncodeError,
	BodyDecodeError,
	BodyTooLargeError,
	InvalidTextError,
}

// Used to make ErrorTypeCodeIndex.
func makeDefaultErrorCodeIndex() map[int]*SpanErrorType {
	index := make(map[int]*SpanErrorType)
	for _, errorType := range ErrorList {
		index[errorType.apiCode] = errorType
	}
	return index
}

// ApiCode:*ErrorType indexing of default errors.
var ErrorTypeCodeIndex = makeDefaultErrorCodeIndex()
