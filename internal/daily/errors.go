package daily

import "errors"

// ErrEmptyCatalogue is returned when the word source has no words to pick from.
var ErrEmptyCatalogue = errors.New("word catalogue is empty")
