package version

// Version is overridden at build time with -ldflags "-X github.com/CameronXie/grubdash/internal/version.Version=...".
var Version = "dev"
