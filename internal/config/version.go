package config

// Version is the server and CLI version.
// Set at build time via: -ldflags "-X github.com/persistorai/promiscuity/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
