// Package model defines the value types shared across the brandlens
// pipeline: colors, per-document observations produced by analyzers,
// and the brand rules synthesized from them.
//
// DocumentObservation is the normalized shape every analyzer emits,
// regardless of source format, so the aggregation stage can treat
// presentation, PDF, and image analyzers uniformly. BrandRule is the
// unit of output: an immutable, confidence-scored inference with a
// provenance trail.
package model
