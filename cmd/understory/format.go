package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jward/understory"
)

// jsonFinding is the wire shape for --format json.
type jsonFinding struct {
	Path      string `json:"path"`
	Rule      string `json:"rule"`
	Message   string `json:"message"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// outputFindings renders findings grouped by path in the selected format.
func outputFindings(w io.Writer, byPath map[string][]understory.FileFinding) error {
	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	if flagFormat == "json" {
		out := make([]jsonFinding, 0)
		for _, p := range paths {
			for _, f := range byPath[p] {
				out = append(out, jsonFinding{
					Path:      p,
					Rule:      f.Rule,
					Message:   f.Message,
					StartLine: f.StartLine,
					StartCol:  f.StartCol,
					EndLine:   f.EndLine,
					EndCol:    f.EndCol,
				})
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, p := range paths {
		for _, f := range byPath[p] {
			if _, err := fmt.Fprintf(w, "%s:%d:%d: [%s] %s\n",
				p, f.StartLine, f.StartCol, f.Rule, f.Message); err != nil {
				return err
			}
		}
	}
	return nil
}
