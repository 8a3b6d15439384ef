// Package scan enumerates candidate files beneath an organize root,
// skipping transient files and anything already inside a destination folder.
package scan
