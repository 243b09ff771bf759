// cmd/xsltchunk/boundaries.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stylesheet-ai/xsltchunk/internal/boundary"
	"github.com/stylesheet-ai/xsltchunk/internal/document"
)

var boundariesCmd = &cobra.Command{
	Use:   "boundaries [stylesheet]",
	Short: "List boundary candidates in a stylesheet",
	Long:  `Print every split point the lexical detectors find, with its priority.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runBoundaries,
}

var boundariesUnit int

func init() {
	boundariesCmd.Flags().IntVar(&boundariesUnit, "unit", 0, "Scan only the Nth template unit (1-based, 0 = whole document)")
	rootCmd.AddCommand(boundariesCmd)
}

func runBoundaries(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := document.New(path, string(data))
	if err != nil {
		return err
	}

	start, end := 1, doc.LineCount()
	if boundariesUnit > 0 {
		start, end, err = unitRange(doc, boundariesUnit)
		if err != nil {
			return err
		}
	}

	cands := boundary.Aggregate(doc, start, end, boundary.DefaultDetectors())

	fmt.Printf("%s: %d boundary candidates in lines %d-%d\n\n", path, len(cands), start, end)
	for _, c := range cands {
		line := fmt.Sprintf("  line %5d  p%-2d %s", c.Line, c.Kind.Priority(), c.Kind)
		if c.Label != "" {
			line += "  " + c.Label
		}
		fmt.Println(line)
	}

	return nil
}

// unitRange finds the line range of the nth template unit (1-based). An
// unclosed unit runs to the document end.
func unitRange(doc *document.Document, n int) (int, int, error) {
	cands := boundary.UnitDetector{}.Detect(doc, 1, doc.LineCount())

	seen := 0
	openLine := 0
	open := false
	for _, c := range cands {
		switch c.Kind {
		case boundary.KindUnitStart:
			if open {
				continue
			}
			openLine, open = c.Line, true
			seen++
		case boundary.KindUnitEnd:
			if !open {
				continue
			}
			if seen == n {
				return openLine, c.Line, nil
			}
			open = false
		}
	}
	if open && seen == n {
		return openLine, doc.LineCount(), nil
	}
	return 0, 0, fmt.Errorf("unit %d not found (%d units in document)", n, seen)
}
