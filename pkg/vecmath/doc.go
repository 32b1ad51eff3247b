/*
Package vecmath holds the small amount of linear algebra the nodes need:
3-vectors, row-major 4x4 matrices in the row-vector convention, and XYZ Euler
composition/extraction.

All degeneracy checks use the single Epsilon constant.
*/
package vecmath
