// Package server exposes the dictionary, the word of the day and a
// key-value store over a JSON HTTP API.
//
// Routes:
//
//	GET    /api/words          all words
//	POST   /api/words          add a word
//	GET    /api/words/random   one random word
//	GET    /api/words/{term}   one word
//	GET    /api/today          today's word
//	GET    /api/stats          today's progress
//	DELETE /api/history        clear the history log
//	GET    /api/kv/{key}       read a stored value
//	PUT    /api/kv/{key}       write a stored value
//	DELETE /api/kv/{key}       remove a stored value
//	GET    /api/health         liveness
package server
