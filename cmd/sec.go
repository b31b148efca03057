package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/profile-cli/internal/fetcher"
	"github.com/sells-group/profile-cli/pkg/edgar"
)

var secCmd = &cobra.Command{
	Use:   "sec",
	Short: "Query SEC EDGAR",
}

func newEDGARClient() edgar.Client {
	var opts []edgar.Option
	if cfg.Providers.EDGAR.RateLimit > 0 {
		opts = append(opts, edgar.WithRateLimit(cfg.Providers.EDGAR.RateLimit))
	}
	return edgar.NewClient(cfg.Providers.EDGAR.UserAgent, opts...)
}

var secCompanyCmd = &cobra.Command{
	Use:   "company <name-prefix>",
	Short: "Find registrants by name prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		companies, err := newEDGARClient().SearchCompanies(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrap(err, "sec company")
		}
		if len(companies) == 0 {
			fmt.Fprintln(os.Stderr, "No registrants found.")
			return nil
		}
		formatCompanies(os.Stdout, companies)
		return nil
	},
}

func formatCompanies(w io.Writer, companies []edgar.Company) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CIK\tNAME\tTICKER")
	for _, c := range companies {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", edgar.PadCIK(c.CIK), c.Name, c.Ticker)
	}
	tw.Flush() //nolint:errcheck
}

var secFilingCmd = &cobra.Command{
	Use:   "filing <cik>",
	Short: "Print the URL of a registrant's latest filing of a form type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		form, _ := cmd.Flags().GetString("form")
		client := newEDGARClient()

		subs, err := client.Submissions(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrap(err, "sec filing")
		}
		filing := subs.LatestFiling(form)
		if filing == nil {
			return eris.Errorf("sec filing: no %s filing for CIK %s", form, args[0])
		}
		fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", filing.FilingDate, filing.Form, client.FilingURL(args[0], *filing))
		return nil
	},
}

var secSubsidiariesCmd = &cobra.Command{
	Use:   "subsidiaries <cik>",
	Short: "List subsidiaries from the Exhibit 21 of the latest 10-K",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subs, err := latestSubsidiaries(cmd.Context(), newEDGARClient(), newFetcher(cfg), args[0])
		if err != nil {
			return err
		}
		for _, s := range subs {
			fmt.Fprintln(os.Stdout, s)
		}
		return nil
	},
}

func latestSubsidiaries(ctx context.Context, client edgar.Client, f fetcher.Fetcher, cik string) ([]string, error) {
	subs, err := client.Submissions(ctx, cik)
	if err != nil {
		return nil, eris.Wrap(err, "sec subsidiaries")
	}
	filing := subs.LatestFiling("10-K")
	if filing == nil {
		return nil, eris.Errorf("sec subsidiaries: no 10-K for CIK %s", cik)
	}
	body, err := f.Download(ctx, client.FilingURL(cik, *filing))
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	text, err := fetcher.HTMLText(body)
	if err != nil {
		return nil, err
	}
	return edgar.ExtractSubsidiaries(text), nil
}

func init() {
	secFilingCmd.Flags().String("form", "10-K", "form type, e.g. 10-K or DEF 14A")
	secCmd.AddCommand(secCompanyCmd, secFilingCmd, secSubsidiariesCmd)
	rootCmd.AddCommand(secCmd)
}
