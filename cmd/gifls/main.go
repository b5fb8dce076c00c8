package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"gif-viewer/internal/database"
	"gif-viewer/internal/names"
	"gif-viewer/internal/search"

	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const defaultDir = "."

func main() {
	fs := pflag.NewFlagSet("gifls", pflag.ExitOnError)
	fs.Usage = printUsage
	dir := fs.String("dir", "", "directory to scan (default: $GIFS_DIR or .)")
	suffix := fs.String("suffix", names.Extension, "filename suffix to index")
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	source := *dir
	if source == "" {
		source = os.Getenv("GIFS_DIR")
	}
	if source == "" {
		source = defaultDir
	}

	db, err := database.New(source, database.WithSuffix(*suffix))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := &truncatingWriter{w: os.Stdout, width: terminalWidth()}

	switch cmd := fs.Arg(0); cmd {
	case "list":
		err = listGIFs(out, db.All())
	case "people":
		err = listPeople(out, db)
	case "years":
		err = listYears(out, db)
	case "search":
		err = listResults(out, search.Rank(db, strings.Join(fs.Args()[1:], " ")))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitizeCommand(cmd))
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// sanitizeCommand replaces anything outside [a-zA-Z0-9_-] with '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage() {
	fmt.Println("GIF Viewer index listing")
	fmt.Println("")
	fmt.Println("Usage: gifls [--dir DIR] [--suffix .gif] <command> [args]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list          - Every GIF with owner, year and size")
	fmt.Println("  people        - Owners and their GIF counts")
	fmt.Println("  years         - Years and their GIF counts")
	fmt.Println("  search QUERY  - Ranked search results")
	fmt.Println("")
	fmt.Println("Environment:")
	fmt.Printf("  GIFS_DIR - Directory to scan (default: %s)\n", defaultDir)
}

// terminalWidth returns the width of stdout, or 0 when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func listGIFs(w io.Writer, gifs []*database.GIF) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tOWNER\tYEAR\tSIZE\tFILE")
	for _, g := range gifs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", g.Name, g.Person, g.Year, g.Size, g.Filename)
	}
	return tw.Flush()
}

func listPeople(w io.Writer, db *database.Database) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "OWNER\tGIFS")
	for _, p := range db.People() {
		gifs, err := db.ByPerson(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d\n", p, len(gifs))
	}
	return tw.Flush()
}

func listYears(w io.Writer, db *database.Database) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "YEAR\tGIFS")
	for _, y := range db.Years() {
		gifs, err := db.ByYear(y)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%d\t%d\n", y, len(gifs))
	}
	return tw.Flush()
}

func listResults(w io.Writer, results []search.Result) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "SCORE\tNAME\tFILE")
	for _, r := range results {
		fmt.Fprintf(tw, "%.2f\t%s\t%s\n", r.Score, r.GIF.Name, r.GIF.Filename)
	}
	return tw.Flush()
}

// truncatingWriter cuts every line to width runes. A zero width passes
// lines through unchanged.
type truncatingWriter struct {
	w       io.Writer
	width   int
	pending []byte
}

func (t *truncatingWriter) Write(p []byte) (int, error) {
	if t.width <= 0 {
		return t.w.Write(p)
	}

	t.pending = append(t.pending, p...)
	for {
		i := strings.IndexByte(string(t.pending), '\n')
		if i < 0 {
			break
		}
		line := truncate(string(t.pending[:i]), t.width)
		if _, err := io.WriteString(t.w, line+"\n"); err != nil {
			return 0, err
		}
		t.pending = t.pending[i+1:]
	}
	return len(p), nil
}

func truncate(line string, width int) string {
	if width <= 0 || utf8.RuneCountInString(line) <= width {
		return line
	}
	if width == 1 {
		return "…"
	}
	runes := []rune(line)
	return string(runes[:width-1]) + "…"
}
