package dichokey

// Version is the library version, overridable at build time with
// -ldflags "-X github.com/dichokey/dichokey.Version=...".
var Version = "0.1.0"
