package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"debatecore/internal/lifecycle"
	"debatecore/internal/watch"
)

// newUploadCmd creates the "debatecore upload" subcommand.
func newUploadCmd(e *env) *cobra.Command {
	var watchDir string
	var existing bool

	cmd := &cobra.Command{
		Use:   "upload [file...]",
		Short: "Add documents to the backend knowledge base",
		Long: "Uploads each file in turn. With --watch, keeps running and uploads\n" +
			"every new matching file that appears in the directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if watchDir == "" && len(args) == 0 {
				return errors.New("nothing to upload: pass files or --watch DIR")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			uc := lifecycle.NewUploadController(e.gw, nil, nil,
				lifecycle.WithLogger(e.logger),
				lifecycle.WithContext(ctx))
			defer uc.Close()

			var failed int
			for _, path := range args {
				if err := uploadOne(e, uc, out, path); err != nil {
					failed++
				}
			}

			if watchDir != "" {
				w := watch.New(watchDir, e.loader(), uc,
					watch.WithLogger(e.logger),
					watch.WithExisting(existing),
					watch.WithOnResult(func(r watch.Result) {
						printResult(out, r.Path, r.State, r.Err)
					}))
				fmt.Fprintf(out, "watching %s (ctrl+c to stop)\n", watchDir)
				if err := w.Run(ctx); err != nil {
					return err
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&watchDir, "watch", "w", "", "watch a directory and upload new files")
	cmd.Flags().BoolVar(&existing, "existing", false, "with --watch, also upload files already in the directory")
	return cmd
}

func uploadOne(e *env, uc *lifecycle.UploadController, out io.Writer, path string) error {
	f, err := e.loader().Load(path)
	if err == nil {
		err = uc.Submit(f)
	}
	if err != nil {
		printResult(out, path, lifecycle.UploadState{}, err)
		return err
	}
	uc.Wait()

	state := uc.State()
	printResult(out, path, state, nil)
	if state.Phase != lifecycle.Succeeded {
		return errors.New(state.Message)
	}
	return nil
}

func printResult(out io.Writer, path string, state lifecycle.UploadState, err error) {
	name := filepath.Base(path)
	switch {
	case err != nil:
		fmt.Fprintf(out, "✗ %s: %v\n", name, err)
	case state.Phase == lifecycle.Succeeded:
		msg := state.Payload.Message
		if msg == "" {
			msg = "uploaded"
		}
		fmt.Fprintf(out, "✓ %s: %s\n", name, msg)
	case state.Phase == lifecycle.Failed:
		fmt.Fprintf(out, "✗ %s: %s\n", name, state.Message)
	}
}
