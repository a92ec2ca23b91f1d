// Package daily picks the word of the day and keeps the per-date history
// of shown words.
//
// The engine reads the catalogue from an injected WordSource and persists
// its history log as one JSON document in an injected HistoryStore. Storage
// faults never reach the caller: they are logged and the engine carries on
// as if the history were empty.
package daily
