// Package cli builds the goodwords command tree. Persistent flags are
// bound to viper keys so that the config file, GOODWORDS_ environment
// variables and flags resolve to one configuration.
package cli
