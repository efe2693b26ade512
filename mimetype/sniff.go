package mimetype

import (
	"mime"
	"net/http"
	"strings"
)

// Results http.DetectContentType falls back to when no content signature matches.
// When detection lands on one of these the content could be anything, so sniffing
// reports UNKNOWN and lets the caller try extension-based guessing instead.
const (
	detectFallbackBinary = "application/octet-stream"
	detectFallbackText   = "text/plain; charset=utf-8"
)

// Tar archives carry their magic at offset 257 rather than at the start of the
// file, which is why content sniffing wants at least 300 bytes of input.
const (
	tarMagic       = "ustar"
	tarMagicOffset = 257
)

/*
Sniff identifies content from its leading bytes. It recognizes the tar container
format (whose magic sits past the first 256 bytes) and everything
http.DetectContentType recognizes by signature.

Sniff returns UNKNOWN rather than a guess when the bytes carry no recognizable
signature. Content that merely scans as generic text counts as unrecognized
too, so that callers can fall back to extension lookup the way file loading
does.
*/
func Sniff(data []byte) MimeType {
	if len(data) == 0 {
		return UNKNOWN
	}

	if isTar(data) {
		return MimeType("application/x-tar")
	}

	detected := http.DetectContentType(data)
	if detected == detectFallbackBinary || detected == detectFallbackText {
		// Scan fallbacks, not signature matches.
		return UNKNOWN
	}

	return FromString(detected)
}

// Reports whether data starts with a ustar tar header.
func isTar(data []byte) bool {
	if len(data) < tarMagicOffset+len(tarMagic) {
		return false
	}
	return string(data[tarMagicOffset:tarMagicOffset+len(tarMagic)]) == tarMagic
}

/*
FromExtension returns the MimeType registered for a file name extension. The
leading dot is optional, so both "css" and ".css" resolve. Returns UNKNOWN when
the extension is blank or not registered.
*/
func FromExtension(ext string) MimeType {
	if ext == "" || ext == "." {
		return UNKNOWN
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	resolved := mime.TypeByExtension(ext)
	if resolved == "" {
		return UNKNOWN
	}

	return FromString(resolved)
}
