package encoding

import (
	"encoding/hex"
	"github.com/illuscio-dev/spanbody-go/spantypes"
	uuid "github.com/satori/go.uuid"
	"github.com/ugorji/go/codec"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/xerrors"
	"io"
	"reflect"
)

// Stock handler for application/json content.
type jsonEncoder struct{}

func (handler *jsonEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	spanEngine := engine.(*SpanEngine)
	return codec.NewEncoder(writer, spanEngine.jsonHandle).Encode(content)
}

func (handler *jsonEncoder) Decode(
	engine ContentEngine, reader io.Reader, contentReceiver interface{},
) error {
	spanEngine := engine.(*SpanEngine)
	return codec.NewDecoder(reader, spanEngine.jsonHandle).Decode(contentReceiver)
}

// JSONExtensionOpts describes a json interface extension to hang on the
// engine's handle: the concrete type it intercepts and the extension that
// converts it.
type JSONExtensionOpts struct {
	ValueType    reflect.Type
	ExtInterface codec.InterfaceExt
}

// Renders mongodb primitive.Binary values as json. Subtype 0x3 becomes a
// uuid string and subtype 0x0 a hex string. Decoding back into a
// primitive.Binary field is not supported.
type bsonBinaryJSONExt struct{}

func (ext *bsonBinaryJSONExt) ConvertExt(value interface{}) interface{} {
	binValue := value.(*primitive.Binary)

	switch binValue.Subtype {
	case 0x3:
		uuidValue, err := uuid.FromBytes(binValue.Data)
		if err != nil {
			panic(xerrors.Errorf("error converting bson uuid bytes: %w", err))
		}
		return uuidValue
	case 0x0:
		return spantypes.BinData(binValue.Data)
	}

	panic(xerrors.New("unsupported bson binary subtype"))
}

func (ext *bsonBinaryJSONExt) UpdateExt(dest interface{}, value interface{}) {
	panic(xerrors.New(
		"cannot decode into a bson binary field, receive with a uuid or" +
			" BinData field instead",
	))
}

// Moves BinData blobs over the wire as hex strings.
type binDataJSONExt struct{}

func (ext *binDataJSONExt) ConvertExt(value interface{}) interface{} {
	var blob spantypes.BinData

	switch typed := value.(type) {
	case spantypes.BinData:
		blob = typed
	case *spantypes.BinData:
		blob = *typed
	default:
		panic(xerrors.New("BinData extension cannot convert this type"))
	}

	encoded := make([]byte, hex.EncodedLen(len(blob)))
	if written := hex.Encode(encoded, blob); written != len(encoded) {
		panic(xerrors.New("error encoding BinData as hex"))
	}

	return string(encoded)
}

func (ext *binDataJSONExt) UpdateExt(dest interface{}, value interface{}) {
	hexString, isString := value.(string)
	if !isString {
		panic(xerrors.New("BinData fields must arrive as hex strings"))
	}

	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		panic(xerrors.Errorf("could not decode hex string: %w", err))
	}

	*dest.(*spantypes.BinData) = decoded
}

// Renders raw bson documents as json objects. The document is unmarshalled
// to a map with the engine's registry, then encoded like any other map.
// Decoding back into a bson.Raw field is not supported.
type bsonRawJSONExt struct {
	bsonRegistry *bsoncodec.Registry
}

func (ext *bsonRawJSONExt) ConvertExt(value interface{}) interface{} {
	rawDoc := value.(bson.Raw)

	fields := make(map[string]interface{})
	if len(rawDoc) == 0 {
		return fields
	}

	err := bson.UnmarshalWithRegistry(ext.bsonRegistry, rawDoc, &fields)
	if err != nil {
		panic(xerrors.Errorf(
			"error unmarshalling raw bson for json encoding: %w", err,
		))
	}

	return fields
}

func (ext *bsonRawJSONExt) UpdateExt(dest interface{}, value interface{}) {
	panic(xerrors.New("cannot decode into a raw bson field"))
}

// Extensions installed on every new engine's json handle. The bson.Raw
// extension is not listed here since AddBSONCodecs installs it with the
// live registry.
var builtinJSONExtensions = []*JSONExtensionOpts{
	{
		ValueType:    reflect.TypeOf(primitive.Binary{}),
		ExtInterface: &bsonBinaryJSONExt{},
	},
	{
		ValueType:    reflect.TypeOf(spantypes.BinData{}),
		ExtInterface: &binDataJSONExt{},
	},
}
