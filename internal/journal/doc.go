// Package journal persists the reversible record of the most recent
// organize run. At most one batch exists at a time: a new run replaces it
// wholesale and an undo consumes it wholesale.
package journal
