package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profile-cli/internal/model"
)

func TestDefaultOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"Acme Corp", "Acme_Corp_profile.json"},
		{"  Jane Q. Doe ", "Jane_Q._Doe_profile.json"},
		{"A/B & C, Inc.", "A_B_C_Inc._profile.json"},
		{"***", "subject_profile.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, defaultOutputPath(tt.name), tt.name)
	}
}

func TestWriteProfileFile(t *testing.T) {
	t.Parallel()

	p := model.NewProfile(model.Subject{Kind: model.SubjectOrganization, Name: "Acme"}, time.Now())
	path := filepath.Join(t.TempDir(), "acme_profile.json")
	require.NoError(t, writeProfileFile(path, p))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got model.Profile
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Acme", got.Subject.Name)

	var buf bytes.Buffer
	require.NoError(t, writeProfile(&buf, p))
	assert.Equal(t, string(data), buf.String())
}

func TestWriteProfileFile_BadPath(t *testing.T) {
	t.Parallel()

	p := model.NewProfile(model.Subject{Kind: model.SubjectPerson, Name: "Jane"}, time.Now())
	err := writeProfileFile(filepath.Join(t.TempDir(), "missing", "out.json"), p)
	assert.Error(t, err)
}

func TestValidateTemplatesFlag(t *testing.T) {
	t.Parallel()

	newCmd := func(path string) *cobra.Command {
		c := &cobra.Command{}
		c.Flags().String("templates", "", "")
		require.NoError(t, c.Flags().Set("templates", path))
		return c
	}

	assert.NoError(t, validateTemplatesFlag(newCmd(""), nil))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("entityIdentity: [unclosed"), 0o644))
	assert.Error(t, validateTemplatesFlag(newCmd(bad), nil))

	assert.Error(t, validateTemplatesFlag(newCmd(filepath.Join(t.TempDir(), "nope.yaml")), nil))
}

func TestWriteProfile_RejectsSchemaViolation(t *testing.T) {
	t.Parallel()

	p := model.NewProfile(model.Subject{Kind: model.SubjectOrganization, Name: ""}, time.Now())

	var buf bytes.Buffer
	err := writeProfile(&buf, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")
	assert.Empty(t, buf.String())

	path := filepath.Join(t.TempDir(), "out.json")
	require.Error(t, writeProfileFile(path, p))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
