// Package document models the contents of an m8db database file.
//
// A Document maps unique string keys to Values. A Value is any JSON-representable
// datum: null, boolean, number, string, array or object. Values are normalised to
// their decoded-JSON form on construction, so a value written to disk and read back
// compares Equal to the value that was stored.
//
// Encode and Decode handle the on-disk form: a single JSON object pretty-printed with
// four-space indentation.
package document
