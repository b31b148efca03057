package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"profile", "profiles", "sanctions", "sec", "serve"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "profile-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestProfileCommands_Flags(t *testing.T) {
	for _, c := range []string{"company", "person"} {
		cmd, _, err := profileCmd.Find([]string{c})
		require.NoError(t, err)
		for _, name := range []string{"jurisdiction", "auxiliary", "output", "no-file", "save", "templates", "providers"} {
			assert.NotNil(t, cmd.Flags().Lookup(name), "profile %s should have --%s", c, name)
		}
		assert.Equal(t, "o", cmd.Flags().Lookup("output").Shorthand)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestSanctionsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range sanctionsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"search", "lists", "entity", "export"} {
		assert.True(t, names[name], "sanctions should have subcommand %q", name)
	}

	flag := sanctionsSearchCmd.Flags().Lookup("sources")
	require.NotNil(t, flag)
	assert.Equal(t, "[ofac,opensanctions,sanctionsnet]", flag.DefValue)
}

func TestProfilesListCommand_Flags(t *testing.T) {
	flag := profilesListCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "20", flag.DefValue)
}

func TestSecFilingCommand_Flags(t *testing.T) {
	flag := secFilingCmd.Flags().Lookup("form")
	require.NotNil(t, flag)
	assert.Equal(t, "10-K", flag.DefValue)
}
