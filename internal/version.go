package internal

// Version is the goodwords release version.
const Version = "0.3.0"
