// SPDX-License-Identifier: MPL-2.0

// Package discovery locates Vulkan driver and layer manifests and aggregates
// them into report sections with per-category verdicts.
//
// This package intentionally combines two related concerns:
//   - Source enumeration: walking every configured location (registry keys,
//     well-known directories, environment overrides) for manifest candidates
//   - Aggregation: parsing candidates, resolving and probing their libraries,
//     evaluating implicit-layer enablement, and producing report rows
//
// These concerns are tightly coupled because aggregation depends directly on
// enumeration results and ordering. Splitting them would create unnecessary
// indirection without meaningful abstraction benefit.
//
// Every source tier is enumerated unconditionally: a manifest found in one
// tier never suppresses the scan of another. The tool diagnoses the whole
// installation, it does not emulate the loader's first-match selection.
//
// File organization:
//   - sources.go: Source enumeration (Enumerator, Location, Origin)
//   - enablement.go: Implicit-layer enablement evaluation
//   - aggregate.go: Category aggregation and verdicts (Aggregator)
//   - runtime.go: Loader runtime discovery
//   - sdk.go: SDK installation discovery
package discovery
