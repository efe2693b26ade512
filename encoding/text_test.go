package encoding_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"bou.ke/monkey"
	"bytes"
	"github.com/illuscio-dev/spanbody-go/mimetype"
	"github.com/stretchr/testify/assert"
	"golang.org/x/xerrors"
	"io"
	"io/ioutil"
	"testing"
)

func TestTextReceiverNotStringError(test *testing.T) {
	assert := assert.New(test)
	engine := createEngine(test)

	buffer := bytes.NewBufferString("some text content")
	receiver := &Character{}

	err := engine.Decode(mimetype.TEXT, receiver, buffer)

	assert.EqualError(
		err, "decode error: text content requires a *string receiver",
	)
}

func TestTextReaderFailure(test *testing.T) {
	assert := assert.New(test)
	engine := createEngine(test)

	mockReadAll := func(reader io.Reader) ([]byte, error) {
		return nil, xerrors.New("mock reader error")
	}

	defer monkey.UnpatchAll()
	monkey.Patch(ioutil.ReadAll, mockReadAll)

	receiver := new(string)
	buffer := new(bytes.Buffer)

	err := engine.Decode(mimetype.TEXT, receiver, buffer)

	assert.EqualError(err, "decode error: mock reader error")
}
