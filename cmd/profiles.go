package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/store"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Inspect saved profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		kind, _ := cmd.Flags().GetString("kind")
		name, _ := cmd.Flags().GetString("name")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := store.ProfileFilter{Name: name, Limit: limit}
		if kind != "" {
			k, err := model.ParseSubjectKind(kind)
			if err != nil {
				return err
			}
			filter.Kind = k
		}

		snaps, err := st.ListProfiles(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "profiles list")
		}
		if len(snaps) == 0 {
			fmt.Fprintln(os.Stderr, "No profiles found.")
			return nil
		}
		formatProfilesList(os.Stdout, snaps)
		return nil
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snap, err := st.GetProfile(ctx, args[0])
		if err != nil {
			return err
		}
		return writeProfile(os.Stdout, snap.Profile)
	},
}

func formatProfilesList(w io.Writer, snaps []store.Snapshot) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tNAME\tJURISDICTION\tFAILURES\tSANCTIONS\tCREATED")
	for _, s := range snaps {
		failures, sanctioned := 0, false
		if s.Profile != nil {
			failures = len(s.Profile.ResearchMetadata.Failures)
			sanctioned = s.Profile.WatchlistAndSanctionsScreening.MatchesFound
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%t\t%s\n",
			s.ID, s.Kind, s.Name, s.Jurisdiction, failures, sanctioned,
			s.CreatedAt.Format(time.RFC3339))
	}
	tw.Flush() //nolint:errcheck
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode output")
}

func init() {
	profilesListCmd.Flags().String("kind", "", "filter by subject kind (organization, person)")
	profilesListCmd.Flags().String("name", "", "filter by name substring")
	profilesListCmd.Flags().Int("limit", 20, "maximum rows")
	profilesCmd.AddCommand(profilesListCmd, profilesShowCmd)
	rootCmd.AddCommand(profilesCmd)
}
