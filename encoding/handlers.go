package encoding

import "io"

// Encoder is implemented by mimetype handlers that marshal content.
type Encoder interface {
	// Encode writes content to writer in the handler's mimetype. The engine
	// driving the call is passed through so handlers can reach shared
	// settings like the json handle or bson registry.
	Encode(engine ContentEngine, writer io.Writer, content interface{}) error
}

// Decoder is implemented by mimetype handlers that unmarshal content.
type Decoder interface {
	// Decode reads content from reader and unmarshals it into
	// contentReceiver. The engine driving the call is passed through so
	// handlers can reach shared settings.
	Decode(engine ContentEngine, reader io.Reader, contentReceiver interface{}) error
}
