/*
Streaming message body value for request / response types.

Spanreed messages carry their payload as a Body: one exclusively owned byte
source paired with a declared content length, a fallback mimetype, and a count
of bytes already delivered to the consumer.

Goals of this package:

• Attach any byte source to a message: in-memory bytes, strings, open files, or
arbitrary readers.

• Guarantee that a consumer can never read past a declared content length, no
matter how reads are chunked.

• Concatenate two bodies into one whose declared length and fallback mimetype
are derived from the inputs, including inputs that were already partially read.

• Convert terminally between bodies and objects through a content engine for
any mimetype the engine handles.
*/
package body
