package encoding

import (
	"bytes"
	"github.com/gorilla/schema"
	"github.com/illuscio-dev/spanbody-go/mimetype"
	"github.com/ugorji/go/codec"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"golang.org/x/xerrors"
	"io"
	"reflect"
)

/*
ContentEngine is the contract for a content encoding engine: one object that
knows how to marshal and unmarshal every mimetype a service speaks. Handlers
for individual mimetypes are registered on the engine, and callers pick the
encoding per call instead of binding to a concrete codec.
*/
type ContentEngine interface {
	// Registers an encoder to handle mimeType.
	SetEncoder(mimeType mimetype.MimeType, encoder Encoder)

	// Registers a decoder to handle mimeType.
	SetDecoder(mimeType mimetype.MimeType, decoder Decoder)

	// Reports whether an encoder is registered for mimeType.
	HandlesEncode(mimeType mimetype.MimeType) bool

	// Reports whether a decoder is registered for mimeType.
	HandlesDecode(mimeType mimetype.MimeType) bool

	// Reports whether both an encoder AND a decoder are registered for
	// mimeType.
	Handles(mimeType mimetype.MimeType) bool

	// Whether the engine may try registered decoders one by one on content
	// of unknown mimetype.
	SniffType() bool

	// Reads content of mimeType from reader and unmarshals it into
	// contentReceiver.
	Decode(
		mimeType mimetype.MimeType,
		contentReceiver interface{},
		reader io.Reader,
	) error

	// Marshals content as mimeType and writes it to writer.
	Encode(
		mimeType mimetype.MimeType,
		content interface{},
		writer io.Writer,
	) error
}

/*
SpanEngine is the stock implementation of ContentEngine. Services are
expected to share a single engine value, extending it with their own
handlers and type extensions where needed. Call sites take the
ContentEngine interface so SpanEngine can be wrapped by a custom engine
type.

Instantiation

Create a SpanEngine through NewContentEngine().

Default Mimetypes

Handlers for the following mimetypes are registered out of the box:

• application/json

• application/bson

• application/yaml

• application/x-www-form-urlencoded

• text/plain

Stock JSON Extensions

JSON content moves through github.com/ugorji/go/codec, whose handle accepts
interface extensions for named types. These ship enabled:

• uuid.UUID values from github.com/satori/go.uuid.

• Binary blobs held as the named type BinData in this module's spantypes
package, rendered as hex strings.

• primitive.Binary values from the mongodb driver. Subtype 0x3 renders as a
uuid string and subtype 0x0 as a hex string. Other subtypes panic, which
the engine surfaces as errors.

• bson.Raw documents, unmarshalled to a map before being rendered as a
json object.

Register more through AddJSONExtensions().

Stock BSON Codecs

BSON content moves through the official mongodb driver
(https://godoc.org/go.mongodb.org/mongo-driver), which supports custom type
codecs. These ship registered:

• primitive.Binary subtype 0x3 encodes from / decodes to uuid.UUID values.

• primitive.Binary subtype 0x0 encodes from / decodes to spantypes.BinData
values.

Register more through AddBSONCodecs().

Plaintext Content

Any value can be encoded to text/plain. Encoding writes the value as
fmt.Sprint renders it. Decoding requires a *string receiver.

YAML Content

YAML moves through gopkg.in/yaml.v2 in strict mode: payload keys with no
matching receiver field are decode errors rather than being dropped. That
keeps foreign payloads from zero-filling a receiver during sniffing.

Form Content

Url-encoded forms move through url.Values and github.com/gorilla/schema.
Struct fields map to form keys through "schema" tags. url.Values content
and receivers skip the struct mapping and get the parsed pairs directly.
Converters for more field types can be hung off FormEncoder() and
FormDecoder().

Mimetype Sniffing

An engine created with allowSniff true will decode UNKNOWN content by
trying every registered decoder until one accepts it. Decoders live in a
map, so the order of attempts shifts between runs.

Panics

A panic inside any encoder or decoder is recovered and handed back as a
normal error.
*/
type SpanEngine struct {
	encoders map[mimetype.MimeType]Encoder
	decoders map[mimetype.MimeType]Decoder
	// Flat view of decoders used when sniffing. Rebuilt on every SetDecoder
	// call, so registration order is not preserved.
	sniffOrder []Decoder
	// Whether unknown mimetypes get the sniff treatment on decode.
	sniffEnabled bool

	// Shared handle for the stock json handler.
	jsonHandle *codec.JsonHandle
	// Registry backing the stock bson handler.
	bsonRegistry *bsoncodec.Registry
	// Every codec ever registered through AddBSONCodecs.
	bsonCodecs []*BsonCodecOpts
	// Struct <-> url.Values mappers backing the stock form handler.
	schemaEncoder *schema.Encoder
	schemaDecoder *schema.Decoder
	// When set, handed to encoders / decoders in place of the SpanEngine
	// itself.
	passedEngine ContentEngine
}

// SetPassedEngine changes the engine handed to encoders and decoders. Set
// this when wrapping SpanEngine in a custom engine type so handlers see the
// wrapper.
func (engine *SpanEngine) SetPassedEngine(newEngine ContentEngine) {
	engine.passedEngine = newEngine
}

// SetEncoder registers an encoder to handle mimeType.
func (engine *SpanEngine) SetEncoder(mimeType mimetype.MimeType, encoder Encoder) {
	engine.encoders[mimeType] = encoder
}

// SetDecoder registers a decoder to handle mimeType.
func (engine *SpanEngine) SetDecoder(mimeType mimetype.MimeType, decoder Decoder) {
	engine.decoders[mimeType] = decoder

	// Rebuild the flat list played through when sniffing. Map iteration
	// makes the resulting ORDER OF SNIFF ATTEMPTS RANDOM.
	engine.sniffOrder = make([]Decoder, 0, len(engine.decoders))
	for _, registered := range engine.decoders {
		engine.sniffOrder = append(engine.sniffOrder, registered)
	}
}

// SniffType reports whether the engine may attempt to decode UNKNOWN
// content by sniffing.
func (engine *SpanEngine) SniffType() bool {
	return engine.sniffEnabled
}

// HandlesEncode reports whether an encoder is registered for mimeType.
func (engine *SpanEngine) HandlesEncode(mimeType mimetype.MimeType) bool {
	_, registered := engine.encoders[mimeType]
	return registered
}

// HandlesDecode reports whether a decoder is registered for mimeType.
func (engine *SpanEngine) HandlesDecode(mimeType mimetype.MimeType) bool {
	_, registered := engine.decoders[mimeType]
	return registered
}

// Handles reports whether both an encoder AND a decoder are registered for
// mimeType.
func (engine *SpanEngine) Handles(mimeType mimetype.MimeType) bool {
	return engine.HandlesEncode(mimeType) && engine.HandlesDecode(mimeType)
}

// Picks the engine handed to encoders / decoders, honoring an override set
// through SetPassedEngine when the engine type is wrapped.
func (engine *SpanEngine) delegateEngine() ContentEngine {
	if engine.passedEngine != nil {
		return engine.passedEngine
	}
	return engine
}

// Invokes encoder, converting any panic it raises into a returned error.
func (engine *SpanEngine) runEncoder(
	encoder Encoder, writer io.Writer, content interface{},
) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = xerrors.Errorf("encoder panicked: %w", recovered)
		}
	}()

	return encoder.Encode(engine.delegateEngine(), writer, content)
}

// Invokes decoder, converting any panic it raises into a returned error.
func (engine *SpanEngine) runDecoder(
	decoder Decoder, reader io.Reader, contentReceiver interface{},
) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = xerrors.Errorf("decoder panicked: %w", recovered)
		}
	}()

	return decoder.Decode(engine.delegateEngine(), reader, contentReceiver)
}

// Plays content against every registered decoder until one takes it. The
// content is buffered up front so each attempt gets a fresh read.
func (engine *SpanEngine) decodeBySniffing(
	contentReceiver interface{}, reader io.Reader,
) error {
	contentBuffer := new(bytes.Buffer)
	if _, err := contentBuffer.ReadFrom(reader); err != nil {
		return xerrors.Errorf("error buffering content for sniffing: %w", err)
	}

	var attemptErrs error

	for _, decoder := range engine.sniffOrder {
		attemptReader := bytes.NewReader(contentBuffer.Bytes())

		thisErr := engine.runDecoder(decoder, attemptReader, contentReceiver)
		if thisErr == nil {
			return nil
		}

		if attemptErrs == nil {
			attemptErrs = thisErr
		} else {
			// %v keeps every attempt's message readable in the final chain.
			attemptErrs = xerrors.Errorf(
				"sniff attempt failed: %v after: %w", thisErr, attemptErrs,
			)
		}
	}

	return attemptErrs
}

// Resolves an UNKNOWN mimetype to a concrete one where the content gives it
// away: strings travel as text/plain, and anything else defaults to
// application/json when encoding. On decode only string receivers force a
// resolution, since sniffing covers the rest.
func resolveMimeType(
	mimeType mimetype.MimeType, content interface{}, encoding bool,
) mimetype.MimeType {
	if mimeType != mimetype.UNKNOWN {
		return mimeType
	}

	_, isString := content.(string)
	if !isString {
		_, isString = content.(*string)
	}

	switch {
	case isString:
		return mimetype.TEXT
	case encoding:
		return mimetype.JSON
	default:
		return mimeType
	}
}

// Decode reads content of mimeType from reader and unmarshals it into
// contentReceiver. Readers that implement io.ReadCloser are closed before
// Decode returns.
func (engine *SpanEngine) Decode(
	mimeType mimetype.MimeType,
	contentReceiver interface{},
	reader io.Reader,
) error {
	mimeType = resolveMimeType(mimeType, contentReceiver, false)

	if readCloser, isCloser := reader.(io.ReadCloser); isCloser {
		defer func() {
			_ = readCloser.Close()
		}()
	}

	if mimeType == mimetype.UNKNOWN {
		if !engine.SniffType() {
			return xerrors.New(
				"cannot decode unknown mimetype with sniffing disabled",
			)
		}
		return engine.decodeBySniffing(contentReceiver, reader)
	}

	decoder, registered := engine.decoders[mimeType]
	if !registered {
		return xerrors.New("no decoder registered for " + string(mimeType))
	}

	if err := engine.runDecoder(decoder, reader, contentReceiver); err != nil {
		return xerrors.Errorf("decode error: %w", err)
	}

	return nil
}

// Encode marshals content as mimeType and writes it to writer.
func (engine *SpanEngine) Encode(
	mimeType mimetype.MimeType,
	content interface{},
	writer io.Writer,
) error {
	mimeType = resolveMimeType(mimeType, content, true)

	encoder, registered := engine.encoders[mimeType]
	if !registered {
		return xerrors.New("no encoder registered for " + string(mimeType))
	}

	if err := engine.runEncoder(encoder, writer, content); err != nil {
		return xerrors.Errorf("encode error: %w", err)
	}

	return nil
}

// JSONHandle exposes the handle used by the stock json handler so callers
// can tune it or register extensions directly.
func (engine *SpanEngine) JSONHandle() *codec.JsonHandle {
	return engine.jsonHandle
}

// BSONRegistry exposes the registry used by the stock bson handler.
func (engine *SpanEngine) BSONRegistry() *bsoncodec.Registry {
	return engine.bsonRegistry
}

// FormEncoder exposes the schema.Encoder used by the stock form handler.
// Converters for custom field types can be registered on it.
func (engine *SpanEngine) FormEncoder() *schema.Encoder {
	return engine.schemaEncoder
}

// FormDecoder exposes the schema.Decoder used by the stock form handler.
// Converters for custom field types can be registered on it.
func (engine *SpanEngine) FormDecoder() *schema.Decoder {
	return engine.schemaDecoder
}

// AddJSONExtensions registers interface extensions on the engine's json
// handle. Extensions let named types control their json representation.
func (engine *SpanEngine) AddJSONExtensions(extensions []*JSONExtensionOpts) error {
	for _, extension := range extensions {
		err := engine.jsonHandle.SetInterfaceExt(
			extension.ValueType, 1, extension.ExtInterface,
		)
		if err != nil {
			return xerrors.Errorf("error registering json extension: %w", err)
		}
	}
	return nil
}

// AddBSONCodecs registers additional bson codecs with the engine. The
// registry is rebuilt from the driver defaults plus every codec registered
// so far, so later additions never drop earlier ones.
func (engine *SpanEngine) AddBSONCodecs(codecs []*BsonCodecOpts) error {
	engine.bsonCodecs = append(engine.bsonCodecs, codecs...)

	builder := bsoncodec.NewRegistryBuilder()
	bsoncodec.DefaultValueEncoders{}.RegisterDefaultEncoders(builder)
	bsoncodec.DefaultValueDecoders{}.RegisterDefaultDecoders(builder)

	for _, codecOpts := range engine.bsonCodecs {
		builder.RegisterCodec(codecOpts.ValueType, codecOpts.Codec)
	}

	engine.bsonRegistry = builder.Build()

	// The json extension that renders raw bson documents holds its own
	// registry reference, so it is rebuilt alongside.
	err := engine.jsonHandle.SetInterfaceExt(
		reflect.TypeOf(bson.Raw{}), 1, &bsonRawJSONExt{engine.bsonRegistry},
	)
	if err != nil {
		return xerrors.Errorf("error refreshing bson raw json extension: %w", err)
	}

	return nil
}

// NewContentEngine builds a SpanEngine with handlers for every stock
// mimetype registered and ready. allowSniff controls whether content of
// unknown mimetype may be decoded by sniffing.
func NewContentEngine(allowSniff bool) (*SpanEngine, error) {
	engine := &SpanEngine{
		encoders:      make(map[mimetype.MimeType]Encoder),
		decoders:      make(map[mimetype.MimeType]Decoder),
		sniffEnabled:  allowSniff,
		jsonHandle:    new(codec.JsonHandle),
		schemaEncoder: schema.NewEncoder(),
		schemaDecoder: schema.NewDecoder(),
	}

	stockHandlers := []struct {
		mimeType mimetype.MimeType
		handler  interface {
			Encoder
			Decoder
		}
	}{
		{mimetype.JSON, &jsonEncoder{}},
		{mimetype.BSON, &bsonEncoder{}},
		{mimetype.TEXT, &textEncoder{}},
		{mimetype.YAML, &yamlEncoder{}},
		{mimetype.FORM, &formEncoder{}},
	}

	for _, registration := range stockHandlers {
		engine.SetEncoder(registration.mimeType, registration.handler)
		engine.SetDecoder(registration.mimeType, registration.handler)
	}

	if err := engine.AddJSONExtensions(builtinJSONExtensions); err != nil {
		return nil, xerrors.Errorf(
			"error installing default json extensions: %w", err,
		)
	}

	if err := engine.AddBSONCodecs(builtinBsonCodecs); err != nil {
		return nil, xerrors.Errorf(
			"error installing default bson codecs: %w", err,
		)
	}

	return engine, nil
}
