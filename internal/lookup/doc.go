// Package lookup fetches definitions for new dictionary words from the
// Merriam-Webster thesaurus API, OpenAI or Gemini. Definers can be chained
// with a fallback and wrapped in an in-memory cache.
package lookup
