// Package soong synthesizes Soong (Android.bp) module declarations for blobs
// and reconciles blobs against modules the reference build already produces.
//
// Key responsibilities:
//   - Module: a tagged variant over the prebuilt module kinds vendorgen emits
//   - BlobToModule: per-extension and per-directory module synthesis,
//     including 32/64-bit merging of shared libraries
//   - ModuleIndex: the reference build's module-info.json
//   - FindOverrideModules: which blobs are already built, and under which
//     multilib variant
//   - SerializeBlueprint: Android.bp text
package soong
