// cmd/xsltchunk/status.go
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylesheet-ai/xsltchunk/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show chunk store status",
	RunE:  runStatus,
}

var statusCollection string

func init() {
	statusCmd.Flags().StringVar(&statusCollection, "collection", "xslt_chunks", "Qdrant collection name")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	qdrantStore, err := store.NewQdrantStore(cfg.Storage.QdrantURL)
	if err != nil {
		return fmt.Errorf("failed to connect to Qdrant at %s: %w", cfg.Storage.QdrantURL, err)
	}
	defer qdrantStore.Close()

	info, err := qdrantStore.CollectionInfo(context.Background(), statusCollection)
	if err != nil {
		fmt.Println("No chunk store found. Run 'xsltchunk index <dir>' to create one.")
		return nil
	}

	fmt.Println("Chunk Store Status:")
	fmt.Printf("  Collection: %s\n", statusCollection)
	fmt.Printf("  Points:     %d\n", info.PointsCount)
	fmt.Printf("  Vectors:    %d dimensions\n", info.VectorSize)
	fmt.Printf("  Status:     %s\n", info.Status)

	return nil
}
