package handlers

import (
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"net/url"
	"strconv"
	texttemplate "text/template"

	"gif-viewer/internal/names"
)

const (
	listTemplate       = "list.html"
	openSearchTemplate = "opensearchdescription.xml"
)

var funcs = htmltemplate.FuncMap{
	"capitalize": names.Capitalize,
	"personURL":  personURL,
	"yearURL":    yearURL,
	"gifURL":     gifURL,
	"thumbURL":   thumbURL,
	"humanBytes": humanBytes,
	"inc":        func(i int) int { return i + 1 },
	"dec":        func(i int) int { return i - 1 },
}

func loadTemplates(fsys fs.FS) (*htmltemplate.Template, *texttemplate.Template, error) {
	list, err := htmltemplate.New(listTemplate).Funcs(funcs).ParseFS(fsys, listTemplate)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", listTemplate, err)
	}
	osd, err := texttemplate.New(openSearchTemplate).ParseFS(fsys, openSearchTemplate)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", openSearchTemplate, err)
	}
	return list, osd, nil
}

func personURL(person string) string {
	return "/c/" + url.PathEscape(person) + "/"
}

func yearURL(year int) string {
	return "/y/" + strconv.Itoa(year) + "/"
}

func gifURL(filename string) string {
	return "/gifs/" + url.PathEscape(filename)
}

func thumbURL(filename string) string {
	return "/t/" + url.PathEscape(filename)
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
