package mimetype_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"github.com/illuscio-dev/spanbody-go/mimetype"
	"github.com/stretchr/testify/assert"
	"net/http"
	"testing"
)

// Spellings that have to normalize to each default type, through both
// FromString and FromHeader.
var normalizeCases = []struct {
	expected  mimetype.MimeType
	spellings []string
}{
	{
		expected: mimetype.JSON,
		spellings: []string{
			"json",
			"JSON",
			"x-json",
			"application/json",
			"application/JSON",
			"application/x-json",
			"application/X-JSON",
			"application/json; charset=utf-8",
		},
	},
	{
		expected: mimetype.BSON,
		spellings: []string{
			"bson",
			"BSON",
			"x-bson",
			"application/bson",
			"application/BSON",
			"application/x-bson",
		},
	},
	{
		expected: mimetype.YAML,
		spellings: []string{
			"yaml",
			"YAML",
			"x-yaml",
			"application/yaml",
			"application/x-yaml",
		},
	},
	{
		expected: mimetype.FORM,
		spellings: []string{
			"application/x-www-form-urlencoded",
			"application/X-WWW-FORM-URLENCODED",
			"application/x-www-form-urlencoded; charset=utf-8",
		},
	},
	{
		expected: mimetype.TEXT,
		spellings: []string{
			"text",
			"TEXT",
			"text/plain",
			"TEXT/PLAIN",
			"text/plain; charset=utf-8",
		},
	},
}

func TestNormalizeDefaultTypes(test *testing.T) {
	for _, thisCase := range normalizeCases {
		name := string(thisCase.expected)

		test.Run("FromString "+name, func(subTest *testing.T) {
			assert := assert.New(subTest)
			for _, spelling := range thisCase.spellings {
				assert.Equal(thisCase.expected, mimetype.FromString(spelling))
			}
		})

		test.Run("FromHeader "+name, func(subTest *testing.T) {
			assert := assert.New(subTest)
			for _, spelling := range thisCase.spellings {
				headers := make(http.Header)
				headers.Set("Content-Type", spelling)
				assert.Equal(thisCase.expected, mimetype.FromHeader(headers))
			}
		})
	}
}

func TestBlankIsUnknown(test *testing.T) {
	assert := assert.New(test)

	assert.Equal(mimetype.UNKNOWN, mimetype.FromString(""))
	assert.Equal(mimetype.UNKNOWN, mimetype.FromString("   "))

	// A header collection with no Content-Type at all.
	assert.Equal(mimetype.UNKNOWN, mimetype.FromHeader(make(http.Header)))
}

func TestNonDefaultPassesThrough(test *testing.T) {
	assert := assert.New(test)

	expected := mimetype.MimeType("text/csv")

	assert.Equal(expected, mimetype.FromString("text/csv"))
	assert.Equal(expected, mimetype.FromString("TEXT/CSV"))
	assert.Equal(expected, mimetype.FromString("text/csv; header=present"))
}

func TestOctetStreamPassesThrough(test *testing.T) {
	assert.Equal(
		test,
		mimetype.OCTET_STREAM,
		mimetype.FromString("application/octet-stream"),
	)
}
