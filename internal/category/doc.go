// Package category maps file extensions to destination category names.
package category
