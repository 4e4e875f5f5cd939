/*
	Package amr provides the index-space types of a block-structured adaptive mesh
	refinement (AMR) hierarchy.  The central type is Box, the integer extent of one
	structured block at one refinement level, together with the points, grid
	descriptions, and serialization helpers that have no other dependencies and can
	be used by all packages that hold or exchange boxes.
*/
package amr
