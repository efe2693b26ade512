/*
Error model shared by the Spanreed ecosystem, scoped to the errors that body
handling can raise.

Services and clients in the Spanreed family report failures the same way no
matter which of them raised the failure. Two objects carry that convention:

• SpanErrorType declares a KIND of error, with a stable name, api code, and
http status.

• SpanError is one occurrence of a SpanErrorType, carrying a message, a uuid,
and an optional data mapping.

Default Error Types

This package ships a SpanErrorType definition for each way a message body can
fail to convert, plus helpers that write errors into http style headers and
read them back.
*/
package spanerrors
