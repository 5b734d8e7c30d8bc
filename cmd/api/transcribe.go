package main

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xpanvictor/omniscribe/internal/domains/pipeline"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
	"github.com/xpanvictor/omniscribe/internal/handlers"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
	"github.com/xpanvictor/omniscribe/pkg/io/sse"
)

func newTranscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe <file> [file...]",
		Short: "Transcribe audio files and stream progress",
		Long: "Runs the pipeline in-process, or against a running API when --server is set. " +
			"More than one file runs as a batch.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			hints := hintsFromFlags(cmd)
			out := cmd.OutOrStdout()

			if serverURL, _ := cmd.Flags().GetString("server"); serverURL != "" {
				session, _ := cmd.Flags().GetString("session")
				token, _ := cmd.Flags().GetString("token")
				return transcribeRemote(cmd.Context(), serverURL, session, token, args, hints, logger, out)
			}

			a, err := buildApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			jobs, err := loadJobs(args, hints, cfg.Pipeline.MaxUploadBytes)
			if err != nil {
				return err
			}
			var events <-chan pipeline.Event
			if len(jobs) == 1 {
				events = a.Sequencer.Run(cmd.Context(), jobs[0])
			} else {
				events = a.Controller.Run(cmd.Context(), jobs)
			}
			return writeStream(out, events)
		},
	}
	cmd.Flags().String("language", "", "language hint")
	cmd.Flags().Int("speakers", 0, "expected speaker count")
	cmd.Flags().String("orthography", "", "orthography hint")
	cmd.Flags().String("server", "", "base URL of a running API, e.g. http://localhost:8080")
	cmd.Flags().String("session", "", "X-Session-Key sent to the API")
	cmd.Flags().String("token", "", "bearer token sent to the API")
	return cmd
}

func hintsFromFlags(cmd *cobra.Command) transcript.Hints {
	language, _ := cmd.Flags().GetString("language")
	speakers, _ := cmd.Flags().GetInt("speakers")
	orthography, _ := cmd.Flags().GetString("orthography")
	return transcript.Hints{Language: language, SpeakerCount: speakers, Orthography: orthography}
}

func loadJobs(paths []string, hints transcript.Hints, limit int64) ([]pipeline.Job, error) {
	jobs := make([]pipeline.Job, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(io.LimitReader(f, limit+1))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		name := filepath.Base(p)
		jobs = append(jobs, pipeline.Job{
			Input:    transcript.AudioInput{Data: data, FileName: name, MimeType: transcript.MimeTypeFor(name)},
			Hints:    hints,
			ScopeKey: handlers.AnonymousScope,
		})
	}
	return jobs, nil
}

func transcribeRemote(ctx context.Context, baseURL, session, token string, paths []string, hints transcript.Hints, logger *Logger.Logger, out io.Writer) error {
	endpoint, field := "/api/transcribe-stream", "file"
	if len(paths) > 1 {
		endpoint, field = "/api/transcribe-batch-stream", "files"
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(mw, field, paths, hints))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+endpoint, pr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "text/event-stream")
	if session != "" {
		req.Header.Set(handlers.SessionHeader, session)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var failed error
	err = pipeline.Consume(resp.Body, logger, func(ev pipeline.Event) error {
		if ev.Type == pipeline.EventError {
			failed = ev.Err
		}
		printEvent(out, ev)
		return nil
	})
	if err != nil {
		return err
	}
	return failed
}

func writeForm(mw *multipart.Writer, field string, paths []string, hints transcript.Hints) error {
	for _, p := range paths {
		part, err := mw.CreateFormFile(field, filepath.Base(p))
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		_, err = io.Copy(part, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	if hints.Language != "" {
		_ = mw.WriteField("language", hints.Language)
	}
	if hints.SpeakerCount > 0 {
		_ = mw.WriteField("speaker_count", strconv.Itoa(hints.SpeakerCount))
	}
	if hints.Orthography != "" {
		_ = mw.WriteField("orthography", hints.Orthography)
	}
	return mw.Close()
}

// writeStream copies local events to w in the same wire format the API
// serves, so the output can be piped into any event-stream reader.
func writeStream(w io.Writer, events <-chan pipeline.Event) error {
	enc := sse.NewEncoder(w)
	var failed error
	for ev := range events {
		if ev.Type == pipeline.EventError {
			failed = ev.Err
		}
		if err := enc.Encode(string(ev.Type), ev.Data()); err != nil {
			return err
		}
	}
	return failed
}

func printEvent(w io.Writer, ev pipeline.Event) {
	switch ev.Type {
	case pipeline.EventProgress:
		p := ev.Progress
		if p.FileMeta != nil {
			fmt.Fprintf(w, "[%d/%d] %s: %s\n", p.FileIndex+1, p.FileCount, p.FileName, p.Step)
			return
		}
		fmt.Fprintf(w, "%s\n", p.Step)
	case pipeline.EventError:
		fmt.Fprintf(w, "error: %v\n", ev.Err)
	case pipeline.EventResult:
		if ev.Batch != nil {
			for i := range ev.Batch.Results {
				printTranscript(w, &ev.Batch.Results[i])
			}
			return
		}
		printTranscript(w, ev.Transcript)
	}
}

func printTranscript(w io.Writer, t *transcript.Transcript) {
	if t == nil {
		return
	}
	fmt.Fprintf(w, "\n== %s (%s)\n", t.FileName, t.ID)
	if t.Summary != nil {
		fmt.Fprintf(w, "%s\n", *t.Summary)
	}
	for _, s := range t.Segments {
		fmt.Fprintf(w, "[%s - %s] %s: %s\n", clock(s.Start), clock(s.End), s.Speaker, s.Text)
		if s.Translation != nil {
			fmt.Fprintf(w, "    (%s)\n", *s.Translation)
		}
	}
}

func clock(sec float64) string {
	total := int(sec)
	return fmt.Sprintf("%02d:%02d.%d", total/60, total%60, int((sec-float64(total))*10))
}
