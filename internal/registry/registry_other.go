// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package registry

// NewPlatform returns the configuration store for this platform. Non-Windows
// hosts have no registry; discovery relies on the filesystem tiers alone.
func NewPlatform() Store { return Empty{} }
