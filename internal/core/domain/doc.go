// Package domain defines the core business entities for Hatchmark.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - PixelBuffer: Decoded RGB pixel data, the carrier for watermarks
//   - Fingerprint: A 64-bit perceptual summary of an image
//   - RegistrationRecord: A ledger entry proving provenance
//   - WatermarkJob: A queued unit of watermarking work
//   - Verdict: The classified authenticity decision with evidence
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
