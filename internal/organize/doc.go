// Package organize implements the classification-and-move engine and the
// undo executor that replays a recorded journal in reverse.
package organize
