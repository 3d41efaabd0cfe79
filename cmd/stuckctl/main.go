// Command stuckctl runs the stuck detector once against a saved JSONL
// transcript and prints the verdict — useful for replaying a captured
// session offline, outside the daemon.
//
// Grounded on the teacher's cmd/bd root-command shape (global rootCmd,
// cobra flags, main() delegating straight to rootCmd.Execute()).
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/stuckdetector/internal/detector"
	"github.com/steveyegge/stuckdetector/internal/historystore"
)

var (
	headless bool
	asJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "stuckctl <transcript.jsonl>",
	Short: "stuckctl - analyze a saved session transcript for stuck loops",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return analyze(args[0])
	},
}

func init() {
	rootCmd.Flags().BoolVar(&headless, "headless", true, "treat the whole transcript as the working window (no interactive reset on the last user message)")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// result is the shape stuckctl prints, plain or as JSON.
type result struct {
	Stuck           bool   `json:"stuck"`
	LoopType        string `json:"loop_type,omitempty"`
	LoopRepeatTimes int    `json:"loop_repeat_times,omitempty"`
	LoopStartIdx    int    `json:"loop_start_idx,omitempty"`
}

func analyze(path string) error {
	events, err := historystore.ReadTranscript(path)
	if err != nil {
		return fmt.Errorf("stuckctl: %w", err)
	}

	d := detector.New(nil)
	res := result{Stuck: d.IsStuck(events, headless)}
	if res.Stuck {
		if a, ok := d.StuckAnalysis(); ok {
			res.LoopType = string(a.LoopType)
			res.LoopRepeatTimes = a.LoopRepeatTimes
			res.LoopStartIdx = a.LoopStartIdx
		}
	}

	return printResult(res)
}

func printResult(res result) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if !res.Stuck {
		fmt.Println("not stuck")
		return nil
	}
	fmt.Printf("stuck: %s (repeated %d times, starting at tail index %d)\n",
		res.LoopType, res.LoopRepeatTimes, res.LoopStartIdx)
	return nil
}
