package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newStatusCmd creates the "debatecore status" subcommand.
func newStatusCmd(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show backend index status",
		Long:  "Fetches the backend status once and prints whether the index is\nready, how many chunks it holds and which files are indexed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := e.gw.FetchStatus(cmd.Context())
			if err != nil {
				return errorf("status", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				files := status.FilesIndexed
				if files == nil {
					files = []string{}
				}
				return enc.Encode(struct {
					IndexReady   bool     `json:"index_ready"`
					ChunkCount   int      `json:"chunk_count"`
					FilesIndexed []string `json:"files_indexed"`
				}{status.IndexReady, status.ChunkCount, files})
			}

			ready := "no"
			if status.IndexReady {
				ready = "yes"
			}
			fmt.Fprintf(out, "backend:     %s\n", e.gw.BaseURL())
			fmt.Fprintf(out, "index ready: %s\n", ready)
			fmt.Fprintf(out, "chunks:      %d\n", status.ChunkCount)
			fmt.Fprintf(out, "files:       %d\n", len(status.FilesIndexed))
			for _, f := range status.FilesIndexed {
				fmt.Fprintf(out, "  - %s\n", f)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")
	return cmd
}
