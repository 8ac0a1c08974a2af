package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Zachkp/folio/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Reads and writes the local key/value store",
	Long: `The local store plays the role of the browser's local storage during
development. The map widget falls back to the key saved under mapKeyStoreKey
(default "map.key") when neither the environment nor the page provides one.`,
}

var storeGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Prints a stored value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireStore(cmd.Context(), appConfig)
		if err != nil {
			return err
		}
		defer st.Close()

		v, ok, err := st.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("key %q not found", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var storeSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Stores a value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireStore(cmd.Context(), appConfig)
		if err != nil {
			return err
		}
		defer st.Close()
		return st.Set(cmd.Context(), args[0], args[1])
	},
}

var storeRmCmd = &cobra.Command{
	Use:   "rm <key>",
	Short: "Removes a value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireStore(cmd.Context(), appConfig)
		if err != nil {
			return err
		}
		defer st.Close()

		removed, err := st.Remove(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !removed {
			logger.Info("key was not set", "key", args[0])
		}
		return nil
	},
}

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Lists recent render runs from the journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireStore(cmd.Context(), appConfig)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.RecentRuns(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), runsTable(runs))
		return nil
	},
}

var (
	runsHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	runsCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	runsFailedStyle = runsCellStyle.Foreground(lipgloss.Color("203"))
)

// runsTable lays out journal entries newest first.
func runsTable(runs []store.Run) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "STARTED", "STATE", "RENDERED", "SKIPPED", "DURATION", "ERROR").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return runsHeaderStyle
			case row >= 0 && row < len(runs) && runs[row].Error != "":
				return runsFailedStyle
			}
			return runsCellStyle
		})
	for _, r := range runs {
		t.Row(
			strconv.FormatInt(r.ID, 10),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.State,
			strconv.Itoa(len(r.Rendered)),
			strconv.Itoa(len(r.Skipped)),
			r.Duration.String(),
			r.Error,
		)
	}
	return t.String()
}

func init() {
	storeCmd.AddCommand(storeGetCmd, storeSetCmd, storeRmCmd)
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Number of runs to list")
	rootCmd.AddCommand(storeCmd, runsCmd)
}
