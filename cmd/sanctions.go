package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/fetcher"
	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/profile"
	"github.com/sells-group/profile-cli/internal/provider"
	"github.com/sells-group/profile-cli/internal/resilience"
)

const (
	defaultSDNExportURL = "https://www.treasury.gov/ofac/downloads/sdn.xml"
	defaultSDNNameXPath = "//*[local-name()='sdnEntry']/*[local-name()='lastName']"
)

var sanctionsCmd = &cobra.Command{
	Use:   "sanctions",
	Short: "Screen names against sanctions lists",
}

// screeningReport is the output of sanctions search.
type screeningReport struct {
	Query        string                  `json:"query"`
	ListsChecked []string                `json:"listsChecked"`
	Matches      []model.SanctionsMatch  `json:"matches"`
	Failures     []model.ProviderFailure `json:"failures"`
}

// screenName runs every sanctions provider against name and keeps only the
// matches whose name or aliases match it.
func screenName(ctx context.Context, providers []provider.Provider, name string) *screeningReport {
	report := &screeningReport{
		Query:        name,
		ListsChecked: []string{},
		Matches:      []model.SanctionsMatch{},
		Failures:     []model.ProviderFailure{},
	}
	for _, p := range providers {
		l, ok := p.(provider.Lookuper)
		if !ok || p.Capability() != provider.CapSanctionsList {
			continue
		}
		rec, err := l.Lookup(ctx, name, "")
		if err != nil {
			pe := resilience.Classify(p.Name(), err)
			report.Failures = append(report.Failures, model.ProviderFailure{
				Provider:  p.Name(),
				Category:  model.CategoryAdverseMedia,
				Kind:      pe.Kind,
				Message:   pe.Error(),
				Timestamp: time.Now().UTC(),
			})
			zap.L().Warn("sanctions provider failed", zap.String("provider", p.Name()), zap.Error(err))
			continue
		}
		if rec == nil {
			continue
		}
		for _, list := range rec.ListsChecked {
			if !slices.Contains(report.ListsChecked, list) {
				report.ListsChecked = append(report.ListsChecked, list)
			}
		}
		report.Matches = append(report.Matches, rec.Matches...)
	}
	report.Matches = profile.FilterSanctionsMatches(report.Matches, name)
	return report
}

var sanctionsSearchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search OFAC, OpenSanctions and sanctions.network for a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sources, _ := cmd.Flags().GetStringSlice("sources")

		env, err := initEnv(ctx, cfg, false)
		if err != nil {
			return err
		}
		defer env.Close()

		report := screenName(ctx, env.Registry.Select(sources), args[0])
		return printJSON(os.Stdout, report)
	},
}

var sanctionsListsCmd = &cobra.Command{
	Use:   "lists",
	Short: "List the sanctions lists published by OFAC",
	RunE: func(cmd *cobra.Command, _ []string) error {
		lists, err := newOFACClient(cfg).SanctionsLists(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "sanctions lists")
		}
		for _, l := range lists {
			fmt.Fprintln(os.Stdout, l)
		}
		return nil
	},
}

var sanctionsEntityCmd = &cobra.Command{
	Use:   "entity <id>",
	Short: "Show the OFAC record of one entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, err := newOFACClient(cfg).Entity(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrap(err, "sanctions entity")
		}
		return printJSON(os.Stdout, detail)
	},
}

var sanctionsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the SDN XML export and optionally grep it for a name",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		url, _ := cmd.Flags().GetString("url")
		out, _ := cmd.Flags().GetString("out")
		match, _ := cmd.Flags().GetString("match")
		xpath, _ := cmd.Flags().GetString("xpath")

		f := newFetcher(cfg)
		n, err := f.DownloadToFile(ctx, url, out)
		if err != nil {
			return err
		}
		zap.L().Info("export downloaded", zap.String("path", out), zap.Int64("bytes", n))

		if match == "" {
			return nil
		}
		names, err := exportNames(out, xpath, match)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(os.Stdout, name)
		}
		return nil
	},
}

// exportNames returns the distinct names at xpath in the XML file at path
// that match target.
func exportNames(path, xpath, target string) ([]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer fh.Close() //nolint:errcheck

	values, err := fetcher.XMLValues(fh, xpath)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, v := range profile.FilterNames(values, target) {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func init() {
	sanctionsSearchCmd.Flags().StringSlice("sources", []string{"ofac", "opensanctions", "sanctionsnet"}, "sanctions providers to query")
	sanctionsExportCmd.Flags().String("url", defaultSDNExportURL, "SDN XML export URL")
	sanctionsExportCmd.Flags().String("out", "sdn.xml", "destination file")
	sanctionsExportCmd.Flags().String("match", "", "print names in the export matching this name")
	sanctionsExportCmd.Flags().String("xpath", defaultSDNNameXPath, "XPath selecting the names to match")
	sanctionsCmd.AddCommand(sanctionsSearchCmd, sanctionsListsCmd, sanctionsEntityCmd, sanctionsExportCmd)
	rootCmd.AddCommand(sanctionsCmd)
}
