package main

import (
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Build a research profile for a company or person",
}

var profileCompanyCmd = &cobra.Command{
	Use:   "company <name>",
	Short: "Build an organization profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProfile(cmd, model.SubjectOrganization, args[0])
	},
}

var profilePersonCmd = &cobra.Command{
	Use:   "person <name>",
	Short: "Build a person profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProfile(cmd, model.SubjectPerson, args[0])
	},
}

func runProfile(cmd *cobra.Command, kind model.SubjectKind, name string) error {
	ctx := cmd.Context()

	jurisdiction, _ := cmd.Flags().GetString("jurisdiction")
	auxiliary, _ := cmd.Flags().GetString("auxiliary")
	output, _ := cmd.Flags().GetString("output")
	noFile, _ := cmd.Flags().GetBool("no-file")
	save, _ := cmd.Flags().GetBool("save")
	templates, _ := cmd.Flags().GetString("templates")
	names, _ := cmd.Flags().GetStringSlice("providers")

	if templates != "" {
		cfg.Build.TemplatesFile = templates
	}
	if len(names) == 0 {
		names = cfg.Providers.Enabled
	}

	env, err := initEnv(ctx, cfg, save)
	if err != nil {
		return err
	}
	defer env.Close()

	subject := model.Subject{Kind: kind, Name: name, Jurisdiction: jurisdiction, Auxiliary: auxiliary}
	p, err := env.BuildProfile(ctx, subject, names)
	if err != nil {
		return eris.Wrap(err, "build profile")
	}

	if err := writeProfile(os.Stdout, p); err != nil {
		return err
	}

	if !noFile {
		if output == "" {
			output = defaultOutputPath(name)
		}
		if err := writeProfileFile(output, p); err != nil {
			return err
		}
		zap.L().Info("profile written", zap.String("path", output))
	}

	if save {
		snap, err := env.Store.SaveProfile(ctx, p)
		if err != nil {
			return eris.Wrap(err, "save profile")
		}
		zap.L().Info("profile saved", zap.String("id", snap.ID))
	}

	if cfg.Monitoring.TextfilePath != "" {
		if err := env.Metrics.WriteToTextfile(cfg.Monitoring.TextfilePath); err != nil {
			zap.L().Warn("write metrics textfile", zap.Error(err))
		}
	}
	return nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// defaultOutputPath derives "<name>_profile.json" with the name reduced to
// filesystem-safe characters.
func defaultOutputPath(name string) string {
	base := strings.Trim(unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "_"), "_")
	if base == "" {
		base = "subject"
	}
	return base + "_profile.json"
}

// writeProfile emits p after checking it against the published schema.
func writeProfile(w io.Writer, p *model.Profile) error {
	if err := model.ValidateProfile(p); err != nil {
		return err
	}
	return printJSON(w, p)
}

func writeProfileFile(path string, p *model.Profile) error {
	if err := model.ValidateProfile(p); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if err := printJSON(f, p); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return eris.Wrapf(f.Close(), "close %s", path)
}

// validateTemplatesFlag fails fast on a bad --templates file before any
// provider is called.
func validateTemplatesFlag(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("templates")
	if path == "" {
		return nil
	}
	_, err := profile.LoadTemplates(path)
	return err
}

func init() {
	for _, c := range []*cobra.Command{profileCompanyCmd, profilePersonCmd} {
		c.Flags().String("jurisdiction", "", "country or state of the subject")
		c.Flags().StringP("output", "o", "", "output file (default <name>_profile.json)")
		c.Flags().Bool("no-file", false, "print to stdout only")
		c.Flags().Bool("save", false, "persist the profile to the store")
		c.Flags().String("templates", "", "YAML query templates file")
		c.Flags().StringSlice("providers", nil, "restrict to these providers (default all configured)")
		c.PreRunE = validateTemplatesFlag
	}
	profileCompanyCmd.Flags().String("auxiliary", "", "extra location or qualifier")
	profilePersonCmd.Flags().String("auxiliary", "", "occupation, used to disambiguate")
	profileCmd.AddCommand(profileCompanyCmd, profilePersonCmd)
	rootCmd.AddCommand(profileCmd)
}
