package spanerrors_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"github.com/illuscio-dev/spanbody-go/encoding"
	"github.com/illuscio-dev/spanbody-go/spanerrors"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/xerrors"
	"net/http"
	"reflect"
	"testing"
)

const decodeFailureMessage = "could not parse payload"

// Engine for rendering / parsing the error-data header in these tests.
func newHeaderEngine(test *testing.T) encoding.ContentEngine {
	engine, err := encoding.NewContentEngine(true)
	if err != nil {
		test.Fatal(err)
	}
	return engine
}

// Stand-in for the error a handler raises when a request body fails to parse.
func newDecodeFailure() *spanerrors.SpanError {
	return spanerrors.BodyDecodeError.New(
		decodeFailureMessage,
		map[string]interface{}{"field": "starships"},
		xerrors.New("underlying parse error"),
	)
}

// Checks every property newDecodeFailure() promises, so tests that mint the
// error through different paths can share one verification.
func checkDecodeFailure(test *testing.T, spanErr *spanerrors.SpanError) {
	assert := assert.New(test)

	assert.Equal(spanerrors.BodyDecodeError, spanErr.SpanErrorType)
	assert.Equal(decodeFailureMessage, spanErr.Message)
	assert.Equal(
		map[string]interface{}{"field": "starships"}, spanErr.ErrorData,
	)
	assert.NotEqual(uuid.Nil, spanErr.Id)
	assert.EqualError(spanErr.Unwrap(), "underlying parse error")

	assert.Equal("BodyDecodeError", spanErr.Name())
	assert.Equal(1009, spanErr.ApiCode())
	assert.Equal(422, spanErr.HttpCode())

	assert.True(spanErr.IsType(spanerrors.BodyDecodeError))
	assert.False(spanErr.IsType(spanerrors.BodyReadError))
}

func TestNewSpanError(test *testing.T) {
	checkDecodeFailure(test, newDecodeFailure())
}

func TestPanicSpanError(test *testing.T) {
	recovered := func() (recovered interface{}) {
		defer func() { recovered = recover() }()
		spanerrors.BodyDecodeError.Panic(
			decodeFailureMessage,
			map[string]interface{}{"field": "starships"},
			xerrors.New("underlying parse error"),
		)
		return nil
	}()

	spanErr, ok := recovered.(*spanerrors.SpanError)
	if !ok {
		test.Fatalf("recovered value was %v, not a SpanError", recovered)
	}
	checkDecodeFailure(test, spanErr)
}

func TestWithHttpCodeType(test *testing.T) {
	assert := assert.New(test)

	adjusted := spanerrors.BodyReadError.WithHttpCode(500)

	assert.Equal(422, spanerrors.BodyReadError.HttpCode())
	assert.Equal(500, adjusted.HttpCode())

	spanErr := adjusted.New("read failed mid-stream", nil, nil)
	assert.True(spanErr.IsType(spanerrors.BodyReadError))
	assert.False(spanErr.IsType(spanerrors.BodyDecodeError))
}

func TestSpanErrorMessage(test *testing.T) {
	assert.Equal(
		test,
		"BodyDecodeError (1009) - could not parse payload",
		newDecodeFailure().Error(),
	)
}

func TestSpanLogMessage(test *testing.T) {
	assert := assert.New(test)

	logMessage := newDecodeFailure().LogMessage()

	assert.Contains(
		logMessage, "MESSAGE: BodyDecodeError (1009) - could not parse payload",
	)
	assert.Contains(logMessage, "ORIGINAL: underlying parse error")
	assert.Contains(logMessage, "PANIC STACK:")
	assert.Contains(logMessage, "runtime/debug.Stack(")
}

func TestToHeaders(test *testing.T) {
	assert := assert.New(test)

	spanErr := newDecodeFailure()
	headers := make(http.Header)

	if err := spanErr.ToHeader(headers, newHeaderEngine(test)); err != nil {
		test.Fatal(err)
	}

	assert.Equal("BodyDecodeError", headers.Get("error-name"))
	assert.Equal("1009", headers.Get("error-code"))
	assert.Equal(decodeFailureMessage, headers.Get("error-message"))
	assert.Equal(spanErr.Id.String(), headers.Get("error-id"))
	assert.Equal(`{"field":"starships"}`, headers.Get("error-data"))
}

func TestFromHeaders(test *testing.T) {
	assert := assert.New(test)

	engine := newHeaderEngine(test)
	sent := newDecodeFailure()
	headers := make(http.Header)

	if err := sent.ToHeader(headers, engine); err != nil {
		test.Fatal(err)
	}

	received, hasErr, err := spanerrors.ErrorFromHeaders(
		headers, engine, spanerrors.ErrorTypeCodeIndex,
	)
	if err != nil {
		test.Fatal(err)
	}

	assert.True(hasErr)
	assert.Equal(sent.Error(), received.Error())
	assert.Equal(sent.Id, received.Id)
	assert.Equal(sent.ErrorData, received.ErrorData)
}

type unencodableData string

type panickingJSONExt struct{}

func (ext *panickingJSONExt) ConvertExt(value interface{}) interface{} {
	panic(xerrors.New("bad extension"))
}

func (ext *panickingJSONExt) UpdateExt(dest interface{}, value interface{}) {
	panic(xerrors.New("bad extension"))
}

// An error rendering the data payload has to surface from ToHeader.
func TestErrorDumpingData(test *testing.T) {
	engine := newHeaderEngine(test)
	spanEngine := engine.(*encoding.SpanEngine)

	err := spanEngine.AddJSONExtensions([]*encoding.JSONExtensionOpts{
		{
			ValueType:    reflect.TypeOf(unencodableData("")),
			ExtInterface: &panickingJSONExt{},
		},
	})
	if err != nil {
		test.Fatal(err)
	}

	spanErr := newDecodeFailure()
	spanErr.ErrorData["poison"] = unencodableData("boom")

	dumpErr := spanErr.ToHeader(make(http.Header), engine)
	assert.EqualError(
		test, dumpErr, "encode error: json encode error: bad extension",
	)
}

func TestErrorFromHeaderFailures(test *testing.T) {
	engine := newHeaderEngine(test)

	cases := []struct {
		name       string
		headers    map[string]string
		index      map[int]*spanerrors.SpanErrorType
		wantHasErr bool
		wantErr    string
	}{
		{
			name:       "NoError",
			headers:    nil,
			index:      spanerrors.ErrorTypeCodeIndex,
			wantHasErr: false,
			wantErr:    "no error in headers",
		},
		{
			name:       "CodeNotInt",
			headers:    map[string]string{"error-code": "not an int"},
			index:      spanerrors.ErrorTypeCodeIndex,
			wantHasErr: false,
			wantErr:    "error-code not int",
		},
		{
			name:       "CodeUnknown",
			headers:    map[string]string{"error-code": "9999"},
			index:      spanerrors.ErrorTypeCodeIndex,
			wantHasErr: true,
			wantErr:    "no known error for code 9999",
		},
		{
			name: "BadID",
			headers: map[string]string{
				"error-code": "1009",
				"error-id":   "not a uuid",
			},
			index:      spanerrors.ErrorTypeCodeIndex,
			wantHasErr: true,
			wantErr:    "error Id is not valid UUID",
		},
		{
			name: "BadData",
			headers: map[string]string{
				"error-code": "1009",
				"error-id":   uuid.NewV4().String(),
				"error-data": "not valid json object",
			},
			index:      spanerrors.ErrorTypeCodeIndex,
			wantHasErr: true,
			wantErr:    "error data could not be parsed as JSON",
		},
		{
			name: "NoIndex",
			headers: map[string]string{
				"error-code": "1009",
				"error-id":   uuid.NewV4().String(),
			},
			index:      nil,
			wantHasErr: true,
			wantErr:    "no error index provided",
		},
	}

	for _, thisCase := range cases {
		test.Run(thisCase.name, func(test *testing.T) {
			assert := assert.New(test)

			headers := make(http.Header)
			for key, value := range thisCase.headers {
				headers.Set(key, value)
			}

			spanErr, hasErr, err := spanerrors.ErrorFromHeaders(
				headers, engine, thisCase.index,
			)

			assert.Nil(spanErr)
			assert.Equal(thisCase.wantHasErr, hasErr)
			assert.EqualError(err, thisCase.wantErr)
		})
	}
}

func TestCustomErrorFromHeader(test *testing.T) {
	assert := assert.New(test)

	engine := newHeaderEngine(test)

	invalidQueryError := spanerrors.NewSpanErrorType(
		"InvalidQueryError", 2001, 400,
	)

	index := make(map[int]*spanerrors.SpanErrorType)
	for code, errType := range spanerrors.ErrorTypeCodeIndex {
		index[code] = errType
	}
	index[invalidQueryError.ApiCode()] = invalidQueryError

	headers := make(http.Header)
	headers.Set("error-code", "2001")
	headers.Set("error-id", uuid.NewV4().String())

	spanErr, hasErr, err := spanerrors.ErrorFromHeaders(headers, engine, index)
	if err != nil {
		test.Fatal(err)
	}

	assert.True(hasErr)
	assert.NotNil(spanErr)
	assert.True(spanErr.IsType(invalidQueryError))
}
