/*
Package encoding converts message bodies to and from Go objects without the
caller naming a concrete codec. A content engine holds one handler per
mimetype, picks the handler from a header-supplied mimetype or by sniffing
the payload, and funnels everything through the same Encode / Decode calls.

Goals

1. A client may upload content in one serialization and ask for responses
in another, and the service code handling either does not change.

2. Support for a mimetype is written once, registered on a shared engine,
and inherited by every service in an ecosystem.

3. Encoding support stays independent of service pattern: teaching the
engine yaml upgrades REST servers and http clients alike.

4. New content types plug in through small Encoder / Decoder
implementations registered at runtime.
*/
package encoding
