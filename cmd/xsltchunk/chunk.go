// cmd/xsltchunk/chunk.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stylesheet-ai/xsltchunk/internal/chunker"
	"github.com/stylesheet-ai/xsltchunk/internal/document"
	"github.com/stylesheet-ai/xsltchunk/internal/pipeline"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk [stylesheet]",
	Short: "Chunk a single stylesheet",
	Long:  `Split one stylesheet into bounded chunks and print them.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runChunk,
}

var (
	chunkMaxTokens int
	chunkMinTokens int
	chunkOverlap   int
	chunkJSON      bool
)

func init() {
	chunkCmd.Flags().IntVar(&chunkMaxTokens, "max-tokens", 0, "Hard token budget per chunk (0 = config value)")
	chunkCmd.Flags().IntVar(&chunkMinTokens, "min-tokens", 0, "Minimum tokens per boundary split (0 = config value)")
	chunkCmd.Flags().IntVar(&chunkOverlap, "overlap", -1, "Overlap lines between sub-chunks (-1 = config value)")
	chunkCmd.Flags().BoolVar(&chunkJSON, "json", false, "Output chunks as JSON")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := pipeline.OptionsFromConfig(cfg)
	if chunkMaxTokens > 0 {
		opts.MaxChunkTokens = chunkMaxTokens
	}
	if chunkMinTokens > 0 {
		opts.MinChunkTokens = chunkMinTokens
	}
	if chunkOverlap >= 0 {
		opts.OverlapTargetLines = chunkOverlap
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := document.New(path, string(data))
	if err != nil {
		return err
	}

	chunks, err := chunker.New().Chunk(doc, opts)
	if err != nil {
		return err
	}

	if chunkJSON {
		out, err := json.MarshalIndent(chunks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%s: %d lines, %d chunks\n\n", path, doc.LineCount(), len(chunks))
	for _, c := range chunks {
		var flags []string
		if c.IsBoundaryFallback {
			flags = append(flags, "fallback")
		}
		if c.IsBudgetExceeded {
			flags = append(flags, "over-budget")
		}
		if c.HasSecrets {
			flags = append(flags, "secrets")
		}

		line := fmt.Sprintf("  %-13s lines %d-%d (~%d tokens)", c.Kind, c.StartLine, c.EndLine, c.TokenEstimate)
		if c.UnitLabel != "" {
			line += " " + c.UnitLabel
		}
		if c.OverlapWithPrevious > 0 {
			line += fmt.Sprintf(" [overlap %d]", c.OverlapWithPrevious)
		}
		if len(flags) > 0 {
			line += " [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Println(line)
	}

	return nil
}
