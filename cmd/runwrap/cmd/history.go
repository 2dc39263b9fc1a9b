package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/runwrap/runwrap/internal/history"
)

var (
	historyLogDir string
	historyPrefix string
	historyLimit  int
	historyJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past executions recorded in the log directory",
	Long: `History reads the summary artifacts under the log directory and lists
past executions, newest first.

Example:
  runwrap history
  runwrap history --prefix backup --limit 10
  runwrap history --json`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyLogDir, "log-dir", "", "directory to scan (default from config)")
	historyCmd.Flags().StringVar(&historyPrefix, "prefix", "", "only show executions with this prefix")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum executions to show (0 = all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	dir := historyLogDir
	if dir == "" {
		dir = cfg.LogDir
	}

	executions, err := history.Scan(dir, historyPrefix, historyLimit)
	if err != nil {
		return err
	}

	if historyJSON {
		output, err := json.MarshalIndent(executions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if len(executions) == 0 {
		fmt.Println("No executions recorded")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Status", "Exit", "Duration", "Start", "Command")

	for _, e := range executions {
		table.Append(
			e.Name,
			e.Status,
			strconv.Itoa(e.ExitCode),
			e.Duration,
			e.StartTime,
			truncate(e.Command, 48),
		)
	}

	table.Render()
	fmt.Printf("\nTotal executions: %d\n", len(executions))
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
