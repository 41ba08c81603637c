package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vineetnegi0101/postgresql-mcp-server/internal/catalog"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "利用可能なデータベース操作関数を一覧表示する",
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	for _, fn := range catalog.Schemas() {
		binding, ok := catalog.Resolve(fn.Name)
		if !ok {
			continue
		}
		fmt.Printf("%-24s → %s\n", fn.Name, binding.Tool)
		fmt.Printf("    %s\n", fn.Description)
	}
	return nil
}
