// Package dictionary provides the word catalogue: a flat-file dictionary
// (base words plus user-added words), an HTTP client for the REST service
// and a source that falls back from one to the other.
package dictionary
