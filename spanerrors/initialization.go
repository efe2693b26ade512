package spanerrors

import (
	"github.com/illuscio-dev/spanbody-go/encoding"
	"github.com/illuscio-dev/spanbody-go/mimetype"
	uuid "github.com/satori/go.uuid"
	"golang.org/x/xerrors"
	"strconv"
	"strings"
)

// NewSpanErrorType returns a new error type definition. Declare each type once in a
// shared library so every service in the ecosystem reports the same name and api code
// for it.
func NewSpanErrorType(name string, apiCode int, httpCode int) *SpanErrorType {
	return &SpanErrorType{
		name:     name,
		apiCode:  apiCode,
		httpCode: httpCode,
	}
}

// Counterpart to headerSetter for objects errors can be read back out of, like
// http.Header.
type headerGetter interface {
	Get(key string) string
}

// Unpacks the error-data header through the engine's json decoder. A missing header
// yields an empty map so receivers never need to nil-check ErrorData.
func errorDataFromHeader(
	headers headerGetter, dataEngine encoding.ContentEngine,
) (map[string]interface{}, error) {
	errorData := make(map[string]interface{})

	dataHeader := headers.Get("error-data")
	if dataHeader == "" {
		return errorData, nil
	}

	err := dataEngine.Decode(
		mimetype.JSON, errorData, strings.NewReader(dataHeader),
	)
	if err != nil {
		return nil, xerrors.New("error data could not be parsed as JSON")
	}

	return errorData, nil
}

/*
ErrorFromHeaders rebuilds a SpanError sent through message headers by ToHeader.

hasError reports whether the headers carried an error at all: when no error-code
header is present, hasError is false and err describes the absence. When an error
code is found but the rest of the header data is malformed, hasError is true and err
details the parsing failure instead.

errorTypeCodeIndex maps api codes to the error types they rebuild as. Pass
ErrorTypeCodeIndex for this library's stock errors, or a custom index to add
service-specific types.
*/
func ErrorFromHeaders(
	headers headerGetter,
	dataEngine encoding.ContentEngine,
	errorTypeCodeIndex map[int]*SpanErrorType,
) (spanError *SpanError, hasError bool, err error) {
	codeHeader := headers.Get("error-code")
	if codeHeader == "" {
		return nil, false, xerrors.New("no error in headers")
	}

	errorCode, err := strconv.Atoi(codeHeader)
	if err != nil {
		return nil, false, xerrors.New("error-code not int")
	}

	// From here on out SOMETHING was sent, so the caller is told an error exists
	// even when its headers cannot be parsed.
	if errorTypeCodeIndex == nil {
		return nil, true, xerrors.New("no error index provided")
	}

	errorType, known := errorTypeCodeIndex[errorCode]
	if !known {
		return nil, true, xerrors.Errorf("no known error for code %d", errorCode)
	}

	errorID, err := uuid.FromString(headers.Get("error-id"))
	if err != nil {
		return nil, true, xerrors.New("error Id is not valid UUID")
	}

	errorData, err := errorDataFromHeader(headers, dataEngine)
	if err != nil {
		return nil, true, err
	}

	// Rebuild through New so the stack and frame point here, then restore the
	// sender's error id from the wire.
	spanError = errorType.New(headers.Get("error-message"), errorData, nil)
	spanError.Id = errorID

	return spanError, true, nil
}
