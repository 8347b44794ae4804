package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/experian/batch"
)

var (
	batchFile        string
	batchConcurrency int
	batchJSON        bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run many endpoint calls from a YAML file",
	Long: `Run every request listed in a batch file concurrently with one session.

Example file:

  concurrency: 4
  requests:
    - name: headers
      family: business
      endpoint: headers
      expect: success == true
      data:
        bin: "404197602"
        subcode: "0517614"`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "batch file (required)")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "override the number of calls in flight")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "print results as JSON")
	_ = batchCmd.MarkFlagRequired("file")
}

func runBatch(cmd *cobra.Command, args []string) error {
	f, err := batch.Load(batchFile)
	if err != nil {
		return err
	}

	// flag > file > config
	concurrency := cfg.Batch.Concurrency
	if f.Concurrency > 0 {
		concurrency = f.Concurrency
	}
	if batchConcurrency > 0 {
		concurrency = batchConcurrency
	}

	runner := batch.NewRunner(registry, logger, batch.WithConcurrency(concurrency))
	results := runner.Run(cmd.Context(), f.Requests)

	if batchJSON {
		err = writeResultsJSON(cmd.OutOrStdout(), results)
	} else {
		writeResults(cmd.OutOrStdout(), results)
	}
	if err != nil {
		return err
	}

	summary := batch.Summarize(results)
	if summary.Failed > 0 || summary.Unmatched > 0 {
		return fmt.Errorf("%d of %d requests failed, %d did not match", summary.Failed, summary.Total, summary.Unmatched)
	}
	return nil
}

func writeResults(w io.Writer, results []batch.Result) {
	for _, res := range results {
		status := "✓"
		detail := ""
		switch {
		case res.Err != nil:
			status = "✗"
			detail = res.Err.Error()
		case !res.Matched:
			status = "✗"
			detail = "expectation not met: " + res.Request.Expect
		}
		fmt.Fprintf(w, "%s %-30s %8s", status, res.Request.Label(), res.Duration.Round(time.Millisecond))
		if detail != "" {
			fmt.Fprintf(w, "  %s", detail)
		}
		fmt.Fprintln(w)
	}

	s := batch.Summarize(results)
	fmt.Fprintf(w, "\n%d requests: %d succeeded, %d failed, %d unmatched\n", s.Total, s.Succeeded, s.Failed, s.Unmatched)
}

type resultJSON struct {
	Name     string          `json:"name"`
	Family   string          `json:"family"`
	Endpoint string          `json:"endpoint"`
	OK       bool            `json:"ok"`
	Error    string          `json:"error,omitempty"`
	Duration string          `json:"duration"`
	Body     json.RawMessage `json:"body,omitempty"`
}

func writeResultsJSON(w io.Writer, results []batch.Result) error {
	out := make([]resultJSON, len(results))
	for i, res := range results {
		out[i] = resultJSON{
			Name:     res.Request.Label(),
			Family:   res.Request.Family,
			Endpoint: res.Request.Endpoint,
			OK:       res.OK(),
			Duration: res.Duration.String(),
		}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
		}
		if json.Valid(res.Body) {
			out[i].Body = res.Body
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
