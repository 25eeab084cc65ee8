// Package builtin provides the functions available inside template
// placeholders.
//
// Available functions:
//   - uuid(): Generate a random UUID v4
//   - now(), date(layout): Current time as RFC 3339 or a Go layout
//   - timestamp(), timestampMs(): Current Unix time in seconds or milliseconds
//   - random(min, max): Random integer in range
//   - randomString(length): Random alphanumeric string
//   - base64(value), base64Decode(value), md5(value), sha256(value)
//   - urlEncode(value), urlDecode(value), upper(value), lower(value)
//
// Functions are invoked using the {{functionName(args)}} syntax in templates.
package builtin
