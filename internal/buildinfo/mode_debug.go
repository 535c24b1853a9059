//go:build debug

package buildinfo

const debugBuild = true
