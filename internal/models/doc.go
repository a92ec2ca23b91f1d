// Package models defines the word type shared by the dictionary, the
// daily selection engine and the outer surfaces (CLI, REST service).
package models
