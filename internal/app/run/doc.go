// SPDX-License-Identifier: MPL-2.0

// Package run orchestrates a full diagnostic pass for the vkvia report
// pipeline. It decouples CLI-layer concerns (flags, rendering, exit codes)
// from the fixed sequence of discovery passes and the run-wide verdict.
package run
