// Package store provides the byte-oriented key-value stores the word of the
// day history is persisted in: an in-memory map, a directory of files, a
// SQLite table and a remote HTTP API.
package store
