// Command gallery-render computes gallery layouts and thumbnails from the
// command line, using the same configuration as the server (.env and
// environment variables).
//
// Usage:
//
//	gallery-render <command> [flags]
//
// Commands:
//
//	layout DIR      Print the row layout of a directory
//	render PATH     Print the gallery fragment of a directory, or expand
//	                the gallery and image tags of a page file
//	thumb FILE      Write a single thumbnail
//	warm DIR        Generate the thumbnails a gallery of DIR will request
//	cache stats     Show cache size and entry count
//	cache clear     Remove every cached thumbnail
//
// Directory and file arguments must live under CONTENT_DIR, which can be
// overridden with --content.
package main
