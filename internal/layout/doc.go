// Package layout computes destination directories (including date
// sub-buckets) and collision-free destination filenames.
package layout
