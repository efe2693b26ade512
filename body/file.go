package body

import (
	"github.com/illuscio-dev/spanbody-go/mimetype"
	"golang.org/x/xerrors"
	"io"
	"os"
	"path/filepath"
)

// Number of leading bytes read when sniffing a file's mimetype. Formats like
// tar keep their magic past the first 256 bytes, so sniffing needs more than
// a typical signature-sized window.
const sniffWindowSize = 300

/*
FromPath opens the file at path and returns a Body over its content.

The declared length is the file's current size. The mimetype is sniffed from
the file's leading bytes; when sniffing is inconclusive it is guessed from the
path's extension, and when that fails too it falls back to OCTET_STREAM. The
file cursor is rewound after sniffing, so consumers read from the first byte.

The returned Body owns the file handle: Close() the body, or consume it with
a terminal converter, to release it. Open, stat, read and seek failures are
returned as plain wrapped I/O errors, with the file closed before returning.
*/
func FromPath(path string) (*Body, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("error opening body file: %w", err)
	}

	return fromFile(file, path)
}

/*
FromFile returns a Body over an already-open file, with the same length and
mimetype handling as FromPath. The extension used for the mimetype fallback
comes from the file's name. The Body takes ownership of the handle, including
closing it when construction fails.
*/
func FromFile(file *os.File) (*Body, error) {
	return fromFile(file, file.Name())
}

// Builds a file-backed body. Owns file: the handle is closed on error.
func fromFile(file *os.File, path string) (*Body, error) {
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, xerrors.Errorf("error inspecting body file: %w", err)
	}

	mimeType, err := sniffFile(file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	if mimeType == mimetype.UNKNOWN {
		mimeType = mimetype.FromExtension(filepath.Ext(path))
	}
	if mimeType == mimetype.UNKNOWN {
		mimeType = mimetype.OCTET_STREAM
	}

	return &Body{
		source: newByteSource(file),
		mime:   mimeType,
		length: info.Size(),
	}, nil
}

// Sniffs a mimetype from the first bytes of file, then rewinds the cursor so
// the sniff is invisible to the consumer. Short files sniff on whatever bytes
// they have.
func sniffFile(file *os.File) (mimetype.MimeType, error) {
	window := make([]byte, sniffWindowSize)

	byteCount, err := io.ReadFull(file, window)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return mimetype.UNKNOWN, xerrors.Errorf(
			"error reading body file header: %w", err,
		)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return mimetype.UNKNOWN, xerrors.Errorf(
			"error rewinding body file: %w", err,
		)
	}

	return mimetype.Sniff(window[:byteCount]), nil
}
