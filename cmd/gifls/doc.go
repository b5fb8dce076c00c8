// Command gifls prints the index the GIF viewer would build for a
// directory, without starting a server.
//
// Usage:
//
//	gifls [--dir DIR] <command> [args]
//
// Commands:
//
//	list           Every GIF: name, owner, year and size.
//	people         Owners with their GIF counts.
//	years          Years with their GIF counts.
//	search QUERY   GIFs matching QUERY, best first, with scores.
//
// Environment:
//
//	GIFS_DIR - Directory to scan when --dir is not given (default: .)
//
// When standard output is a terminal, rows are cut to its width.
package main
