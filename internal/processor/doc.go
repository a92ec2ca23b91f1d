// Package processor contains the application flows behind the goodwords
// commands. It builds the history store, the dictionary, the definition
// lookup chain and the daily selection engine from configuration and
// coordinates them for showing, adding, importing and exporting words.
package processor
