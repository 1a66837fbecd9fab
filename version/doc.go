// Package version reports the seqkit release linked into a binary.
//
// Inside a program that depends on seqkit the version comes from the Go
// module build info. A build of seqkit itself may set it via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/seqkit/version.Version=1.0.0"
package version
