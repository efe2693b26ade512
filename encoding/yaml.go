package encoding

import (
	"gopkg.in/yaml.v2"
	"io"
)

// Handles encoding to / decoding from application/yaml
type yamlEncoder struct{}

func (handler *yamlEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	yamlWriter := yaml.NewEncoder(writer)
	if err := yamlWriter.Encode(content); err != nil {
		return err
	}

	return yamlWriter.Close()
}

func (handler *yamlEncoder) Decode(
	engine ContentEngine, reader io.Reader, contentReceiver interface{},
) error {
	yamlReader := yaml.NewDecoder(reader)

	// Strict mode makes unmatched keys an error instead of silently dropping them,
	// so foreign payloads fail here during type sniffing instead of zero-filling
	// the receiver.
	yamlReader.SetStrict(true)

	return yamlReader.Decode(contentReceiver)
}
