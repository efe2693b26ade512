package mimetype_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"github.com/illuscio-dev/spanbody-go/mimetype"
	"github.com/stretchr/testify/assert"
	"testing"
)

// Builds the first 300 bytes of a minimal ustar tar archive.
func makeTarHeader() []byte {
	data := make([]byte, 300)
	copy(data[:9], "file.txt")
	copy(data[257:], "ustar")
	return data
}

func TestSniffTar(test *testing.T) {
	assert.Equal(
		test,
		mimetype.MimeType("application/x-tar"),
		mimetype.Sniff(makeTarHeader()),
	)
}

func TestSniffTruncatedTarIsUnknown(test *testing.T) {
	// The magic lives at offset 257, so a short prefix cannot identify a tar.
	assert.Equal(
		test, mimetype.UNKNOWN, mimetype.Sniff(makeTarHeader()[:256]),
	)
}

func TestSniffSignatures(test *testing.T) {
	assert := assert.New(test)

	htmlContent := []byte("<!DOCTYPE html><html><body>hi</body></html>")
	assert.Equal(mimetype.MimeType("text/html"), mimetype.Sniff(htmlContent))

	pngContent := append(
		[]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...,
	)
	assert.Equal(mimetype.MimeType("image/png"), mimetype.Sniff(pngContent))

	pdfContent := []byte("%PDF-1.4 fake document body")
	assert.Equal(mimetype.MimeType("application/pdf"), mimetype.Sniff(pdfContent))
}

func TestSniffByteOrderMarkIsText(test *testing.T) {
	// A UTF-16 byte order mark is a real signature match, not a scan fallback.
	bomContent := append([]byte("\xFE\xFF"), []byte("\x00h\x00i")...)
	assert.Equal(test, mimetype.TEXT, mimetype.Sniff(bomContent))
}

func TestSniffInconclusive(test *testing.T) {
	assert := assert.New(test)

	// Generic text only scans as text; it carries no signature, so extension
	// lookup should get a chance at it.
	assert.Equal(mimetype.UNKNOWN, mimetype.Sniff([]byte("body { color: red }")))

	// Arbitrary binary junk.
	assert.Equal(mimetype.UNKNOWN, mimetype.Sniff([]byte{0x00, 0x01, 0x02, 0x03}))

	// No data at all.
	assert.Equal(mimetype.UNKNOWN, mimetype.Sniff(nil))
	assert.Equal(mimetype.UNKNOWN, mimetype.Sniff([]byte{}))
}

func ParameterizeFromExtension(
	test *testing.T, extensions []string, mimeTypeExpected mimetype.MimeType,
) {
	for _, ext := range extensions {
		assert.Equal(test, mimeTypeExpected, mimetype.FromExtension(ext))
	}
}

func TestFromExtension(test *testing.T) {
	test.Run("css with and without dot", func(subTest *testing.T) {
		ParameterizeFromExtension(
			subTest, []string{"css", ".css"}, mimetype.MimeType("text/css"),
		)
	})

	test.Run("html", func(subTest *testing.T) {
		ParameterizeFromExtension(
			subTest, []string{"html", ".html"}, mimetype.MimeType("text/html"),
		)
	})

	test.Run("json resolves to default type", func(subTest *testing.T) {
		ParameterizeFromExtension(
			subTest, []string{"json", ".json"}, mimetype.JSON,
		)
	})

	test.Run("unregistered", func(subTest *testing.T) {
		ParameterizeFromExtension(
			subTest, []string{"definitely-not-real", ""}, mimetype.UNKNOWN,
		)
	})

	test.Run("bare dot", func(subTest *testing.T) {
		ParameterizeFromExtension(subTest, []string{"."}, mimetype.UNKNOWN)
	})
}
