// Content type identification for message bodies.
package mimetype

import (
	"strings"
)

/*
MimeType enumerates the content types this library encodes and decodes by
default. Values outside the default set work too, any custom string can be
wrapped directly:

	MimeType("text/csv")
*/
type MimeType string

const (
	JSON = MimeType("application/json")
	BSON = MimeType("application/bson")
	YAML = MimeType("application/yaml")
	TEXT = MimeType("text/plain")
	FORM = MimeType("application/x-www-form-urlencoded")
	// OCTET_STREAM marks content that is an opaque byte stream.
	OCTET_STREAM = MimeType("application/octet-stream")
	// UNKNOWN stands in when a header is blank or when sniffing / extension
	// lookup cannot place the content.
	UNKNOWN = MimeType("")
)

// Types that carry structured objects rather than raw text. FromString matches
// these by subtype suffix so vendor spellings like "x-json" resolve as well.
var objectMimeTypes = []MimeType{JSON, BSON, YAML, FORM}

/*
FromString normalizes a content type string to a MimeType. Matching ignores
case and media-type parameters such as "; charset=utf-8", and recognizes the
default types under several spellings. Each of these resolves to
mimetype.JSON:

• "application/json"

• "application/JSON"

• "application/x-json"

• "json"

• "x-json"

• "application/json; charset=utf-8"

Anything unrecognized comes back as MimeType of the lowered input, and blank
input comes back UNKNOWN.
*/
func FromString(incoming string) MimeType {
	cleaned := incoming
	if paramStart := strings.IndexByte(cleaned, ';'); paramStart != -1 {
		// Parameters are not part of the type identity.
		cleaned = cleaned[:paramStart]
	}
	cleaned = strings.TrimSpace(strings.ToLower(cleaned))

	switch cleaned {
	case "":
		return UNKNOWN
	case "text", "text/plain":
		return TEXT
	}

	for _, objType := range objectMimeTypes {
		subtype := strings.SplitN(string(objType), "/", 2)[1]
		if strings.HasSuffix(cleaned, subtype) {
			return objType
		}
	}

	return MimeType(cleaned)
}

// Interface for header collections like http.Request.Header that a content
// type can be pulled from.
type headerFetcher interface {
	Get(string) string
}

// FromHeader pulls Content-Type from a message / request header collection and
// normalizes it with FromString.
func FromHeader(headers headerFetcher) MimeType {
	return FromString(headers.Get("Content-Type"))
}
