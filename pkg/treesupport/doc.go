// Package treesupport generates tree-like branching support structures
// for fused-filament printing.
//
// Given sliced layer outlines and per-mesh overhang areas in a
// [slicestore.SliceDataStorage], the pipeline places tapered branches that
// root on the build plate (or the model, when support_type allows) and
// touch the model at overhang points. Output is written back into the
// slice storage as per-layer support infill parts, roof and floor
// interface polygons.
//
// # Pipeline
//
// The stages run in order:
//
//  1. Collision: per (branch radius sample, layer), the region branches of
//     that radius must avoid.
//  2. Avoidance: per sample, the region from which the build plate can no
//     longer be reached by descending one layer at a time at bounded
//     lateral speed.
//  3. Internal guide: avoidance minus collision, the corridor used to
//     route branches stranded over the model.
//  4. Contact seeding: a rotated grid of candidate branch tops inside
//     every overhang area.
//  5. Node drop: layer-by-layer descent of the node forest, merging
//     branches that meet and steering the rest along spanning trees.
//  6. Circle rasterisation: stamping tapered circles per node and carving
//     out roof and floor interfaces.
//
// Collision, avoidance and rasterisation parallelise over independent
// axes; the drop is inherently serial from top to bottom.
package treesupport
