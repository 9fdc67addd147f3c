package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ppiankov/rivenscan/internal/pipeline"
	"github.com/ppiankov/rivenscan/internal/store"
	"github.com/ppiankov/rivenscan/internal/util"
	"github.com/spf13/cobra"
)

var (
	historyWeapon string
	historyLimit  int
	historyJSON   bool
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse previously parsed rivens",
	Long: `Every parsed report is recorded in a local SQLite database
(~/.rivenscan/history.db by default) under a sortable ID.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent reports, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, s *store.Store) error {
			rows, err := s.List(ctx, historyWeapon, historyLimit)
			if err != nil {
				return err
			}
			if historyJSON {
				return pipeline.NewRenderer().WriteJSON(os.Stdout, rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(os.Stderr, "No reports recorded")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPARSED\tWEAPON\tNAME\tSTATS\tVALID\tSOURCE")
			for _, r := range rows {
				valid := "yes"
				if !r.Valid {
					valid = "no"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
					r.ID, r.ParsedAt.Local().Format(time.DateTime), r.Weapon, r.Name, r.StatCount, valid, r.Source)
			}
			return w.Flush()
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, s *store.Store) error {
			report, err := s.Get(ctx, args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no report with id %s", args[0])
			}
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			format := cfg.Output.Format
			if cmd.Flags().Changed("format") {
				format = outFormat
			}
			return pipeline.NewRenderer().Render(os.Stdout, report, format)
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, s *store.Store) error {
			if err := s.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ Deleted %s\n", args[0])
			return nil
		})
	},
}

// withStore opens the configured history database for fn
func withStore(fn func(ctx context.Context, s *store.Store) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := store.Open(ctx, util.ExpandHome(cfg.Store.Path))
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	return fn(ctx, s)
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	historyListCmd.Flags().StringVar(&historyWeapon, "weapon", "", "only reports for this weapon")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum rows")
	historyListCmd.Flags().BoolVar(&historyJSON, "json", false, "print rows as JSON")
	historyShowCmd.Flags().StringVarP(&outFormat, "format", "f", "", "output format: text, json, md")
}
