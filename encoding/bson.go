package encoding

import (
	"bufio"
	"bytes"
	"github.com/illuscio-dev/spanbody-go/spantypes"
	uuid "github.com/satori/go.uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"golang.org/x/xerrors"
	"io"
	"reflect"
)

// BsonListSepString separates top-level documents when a list of bson
// documents travels in a single payload, something bson itself has no
// framing for. The unicode SYMBOL FOR RECORD SEPARATOR is used
// (http://fileformat.info/info/unicode/char/241e/index.htm).
const BsonListSepString = "␞"

// BsonListSepBytes is BsonListSepString as raw bytes.
var BsonListSepBytes = []byte(BsonListSepString)

// bufio.SplitFunc yielding one bson document per token.
func bsonDocSplit(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if sepIndex := bytes.Index(data, BsonListSepBytes); sepIndex >= 0 {
		return sepIndex + len(BsonListSepBytes), data[:sepIndex], nil
	}

	// No separator in sight. At EOF whatever remains is the last document,
	// otherwise ask for more data.
	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}

// BsonCodecOpts describes a bson codec to register with the engine: the
// concrete type it handles and the codec itself.
type BsonCodecOpts struct {
	ValueType reflect.Type
	Codec     bsoncodec.ValueCodec
}

// Moves uuid.UUID values through bson binary fields of subtype 0x3.
type uuidBsonCodec struct{}

func (uuidCodec uuidBsonCodec) EncodeValue(
	encodeCTX bsoncodec.EncodeContext,
	valueWriter bsonrw.ValueWriter,
	value reflect.Value,
) error {
	uuidValue, _ := value.Interface().(uuid.UUID)
	_ = valueWriter.WriteBinaryWithSubtype(uuidValue.Bytes(), 0x3)
	return nil
}

func (uuidCodec uuidBsonCodec) DecodeValue(
	decodeCTX bsoncodec.DecodeContext,
	valueReader bsonrw.ValueReader,
	value reflect.Value,
) error {
	uuidBytes, _, _ := valueReader.ReadBinary()

	uuidValue, err := uuid.FromBytes(uuidBytes)
	if err != nil {
		return err
	}

	value.Set(reflect.ValueOf(uuidValue))
	return nil
}

// Moves BinData blobs through bson binary fields of subtype 0x0.
type binDataBsonCodec struct{}

func (blobCodec binDataBsonCodec) EncodeValue(
	encodeCTX bsoncodec.EncodeContext,
	valueWriter bsonrw.ValueWriter,
	value reflect.Value,
) error {
	blob, _ := value.Interface().(spantypes.BinData)
	return valueWriter.WriteBinaryWithSubtype(blob, 0x0)
}

func (blobCodec binDataBsonCodec) DecodeValue(
	decodeCTX bsoncodec.DecodeContext,
	valueReader bsonrw.ValueReader,
	value reflect.Value,
) error {
	blob, subtype, err := valueReader.ReadBinary()
	if err != nil {
		return err
	}

	// Other subtypes carry type information a blind byte copy would lose.
	if subtype != 0x0 {
		return xerrors.New("BinData receiver requires bson subtype 0x0")
	}

	value.Set(reflect.ValueOf(spantypes.BinData(blob)))
	return nil
}

// Codecs installed on every new engine's bson registry.
var builtinBsonCodecs = []*BsonCodecOpts{
	{
		ValueType: reflect.TypeOf(uuid.UUID{}),
		Codec:     uuidBsonCodec{},
	},
	{
		ValueType: reflect.TypeOf(spantypes.BinData{}),
		Codec:     binDataBsonCodec{},
	},
}

// Stock handler for application/bson content. Handles single documents as
// well as separator-framed document lists.
type bsonEncoder struct{}

// Reports whether value is a slice or array.
func (handler *bsonEncoder) isListKind(value reflect.Value) bool {
	return value.Kind() == reflect.Slice || value.Kind() == reflect.Array
}

// Marshals a single document to writer. *bson.Raw content is written
// through untouched.
func (handler *bsonEncoder) encodeOne(
	spanEngine *SpanEngine, writer io.Writer, content interface{},
) error {
	var document bson.Raw

	if rawDoc, isRaw := content.(*bson.Raw); isRaw {
		document = *rawDoc
	} else {
		marshalled, err := bson.MarshalWithRegistry(
			spanEngine.bsonRegistry, content,
		)
		if err != nil {
			return err
		}
		document = marshalled
	}

	_, err := writer.Write(document)
	return err
}

// Marshals a sequence of documents to writer, writing the list separator
// between each pair.
func (handler *bsonEncoder) encodeList(
	spanEngine *SpanEngine, writer io.Writer, listValue reflect.Value,
) error {
	for index := 0; index < listValue.Len(); index++ {
		if index > 0 {
			if _, err := writer.Write(BsonListSepBytes); err != nil {
				return xerrors.Errorf("error writing list separator: %w", err)
			}
		}

		element := listValue.Index(index)
		err := handler.encodeOne(spanEngine, writer, element.Interface())
		if err != nil {
			return err
		}
	}

	return nil
}

func (handler *bsonEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	spanEngine := engine.(*SpanEngine)

	contentValue := reflect.Indirect(reflect.ValueOf(content))

	// bson.Raw is itself a byte slice, so it must not take the list path.
	_, isRaw := content.(*bson.Raw)

	if handler.isListKind(contentValue) && !isRaw {
		return handler.encodeList(spanEngine, writer, contentValue)
	}

	return handler.encodeOne(spanEngine, writer, content)
}

// Unmarshals a single document from reader into contentReceiver.
func (handler *bsonEncoder) decodeOne(
	spanEngine *SpanEngine, reader io.Reader, contentReceiver interface{},
) error {
	document, err := bson.NewFromIOReader(reader)
	if err != nil {
		return err
	}

	return bson.UnmarshalWithRegistry(
		spanEngine.bsonRegistry, document, contentReceiver,
	)
}

// Unmarshals a separator-framed payload of documents into the slice pointed
// to by contentReceiver.
func (handler *bsonEncoder) decodeList(
	spanEngine *SpanEngine, reader io.Reader, contentReceiver interface{},
) error {
	receiverPointer := reflect.ValueOf(contentReceiver)
	if receiverPointer.Kind() != reflect.Ptr {
		return xerrors.New("list receiver must be a pointer")
	}
	receiverValue := receiverPointer.Elem()

	// Element type of the receiving slice, needed to build values to decode
	// each document into.
	elementType := reflect.TypeOf(contentReceiver).Elem().Elem()

	documentScanner := bufio.NewScanner(reader)
	documentScanner.Split(bsonDocSplit)

	for documentScanner.Scan() {
		element := reflect.New(elementType)

		documentReader := bytes.NewReader(documentScanner.Bytes())
		err := handler.decodeOne(spanEngine, documentReader, element.Interface())
		if err != nil {
			return err
		}

		receiverValue.Set(reflect.Append(receiverValue, element.Elem()))
	}

	// A scanner failure (like a document over the token limit) otherwise looks
	// like a clean end of input.
	return documentScanner.Err()
}

func (handler *bsonEncoder) Decode(
	engine ContentEngine, reader io.Reader, contentReceiver interface{},
) error {
	spanEngine := engine.(*SpanEngine)

	// A slice or array receiver means the payload is a document list.
	receiverValue := reflect.Indirect(reflect.ValueOf(contentReceiver))
	if handler.isListKind(receiverValue) {
		return handler.decodeList(spanEngine, reader, contentReceiver)
	}

	return handler.decodeOne(spanEngine, reader, contentReceiver)
}
