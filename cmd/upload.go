// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"nlq/cli/internal/api"
	"nlq/cli/internal/ingest"

	"atomicgo.dev/cursor"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	verboseUpload bool
)

// uploadCmd submits a batch of documents for ingestion and tracks the job to a
// terminal state, rendering live progress while the engine works through the
// batch.
var uploadCmd = &cobra.Command{
	Use:   "upload <files...>",
	Short: "Upload documents for indexing",
	Long: `The upload command submits PDF, DOCX, or TXT files to the query engine for
processing. The engine indexes the documents asynchronously; upload follows the
job's progress until it completes or fails.

Files are pre-checked locally: only .pdf, .docx, and .txt are accepted, up to
10 MB each. The engine applies the same rules server-side.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if verboseUpload {
			os.Setenv("NLQ_VERBOSE", "1")
		}

		client, logger, err := newClient()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		startAt := time.Now()

		files, err := ingest.LoadFiles(args)
		if err != nil {
			pterm.Println("❌ " + err.Error())
			return err
		}

		tracker := ingest.NewTracker(client, logger)
		defer tracker.Close()

		// The listener runs inside the tracker; hand states to the render loop
		// over a channel. Generously buffered so the tracker never stalls on a
		// slow terminal.
		updates := make(chan api.IngestionJob, 64)
		tracker.SetListener(func(job api.IngestionJob) {
			select {
			case updates <- job:
			default:
			}
		})

		if err := tracker.Submit(ctx, files); err != nil {
			presentServiceError(err, "submitting the documents")
			return err
		}

		// Live progress area, braille spinner frames similar to docker CLI
		cursor.Hide()
		area, areaErr := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
		if areaErr != nil {
			cursor.Show()
			area = nil
		}
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		frameIdx := 0
		last, _ := tracker.Job()
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()

	render:
		for {
			select {
			case job := <-updates:
				last = job
				if job.Status.Terminal() {
					break render
				}
			case <-ticker.C:
				// Guard against a dropped terminal update
				if job, ok := tracker.Job(); ok && job.Status.Terminal() {
					last = job
					break render
				}
				frameIdx++
				if area != nil {
					area.Update(progressLine(frames[frameIdx%len(frames)], last, len(files)))
				}
			case <-ctx.Done():
				if area != nil {
					area.Stop()
				}
				cursor.Show()
				return ctx.Err()
			}
		}

		if area != nil {
			area.Stop()
		}
		cursor.Show()

		elapsed := time.Since(startAt).Round(time.Millisecond)
		if last.Status == api.JobFailed {
			details := fmt.Sprintf("Duration: %s\nProcessed: %d of %d", elapsed, last.Processed, last.Total)
			if last.Error != "" {
				details += "\n\n" + last.Error
			}
			title := pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Upload Failed")
			pterm.Println(pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(details))
			return errors.New("document processing failed")
		}

		title := pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("Upload Completed")
		details := fmt.Sprintf("Duration: %s\nDocuments processed: %d", elapsed, last.Processed)
		pterm.Println(pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(details))
		return nil
	},
}

// progressLine formats one line of live upload progress.
func progressLine(frame string, job api.IngestionJob, fileCount int) string {
	switch job.Status {
	case api.JobUploading:
		return fmt.Sprintf("%s uploading %d file(s)", frame, fileCount)
	case api.JobProcessing:
		return fmt.Sprintf("%s processing %d/%d (%.0f%%)", frame, job.Processed, job.Total, job.Progress*100)
	default:
		return fmt.Sprintf("%s %s", frame, job.Status)
	}
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().BoolVarP(&verboseUpload, "verbose", "v", false, "Enable verbose debug output")
}
