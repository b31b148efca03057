package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const programExport = `<?xml version="1.0" encoding="utf-8"?>
<sanctionsData xmlns="https://sanctionslistservice.ofac.treas.gov/api/PublicationPreview/exports/ENHANCED_XML">
  <entities>
    <entity id="36">
      <names><name><translations><translation>
        <formattedFullName>AEROCARIBBEAN AIRLINES</formattedFullName>
      </translation></translations></name></names>
    </entity>
    <entity id="173">
      <names><name><translations><translation>
        <formattedFullName> ANGLO-CARIBBEAN CO., LTD. </formattedFullName>
      </translation></translations></name></names>
    </entity>
  </entities>
</sanctionsData>`

func TestXMLValues(t *testing.T) {
	names, err := XMLValues(strings.NewReader(programExport), "//*[local-name()='formattedFullName']")
	require.NoError(t, err)
	assert.Equal(t, []string{"AEROCARIBBEAN AIRLINES", "ANGLO-CARIBBEAN CO., LTD."}, names)
}

func TestXMLValues_Attributes(t *testing.T) {
	ids, err := XMLValues(strings.NewReader(programExport), "//*[local-name()='entity']/@id")
	require.NoError(t, err)
	assert.Equal(t, []string{"36", "173"}, ids)
}

func TestXMLValues_InvalidXPath(t *testing.T) {
	_, err := XMLValues(strings.NewReader(programExport), "//[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid xpath")
}

func TestXMLValues_NoMatches(t *testing.T) {
	values, err := XMLValues(strings.NewReader("<root/>"), "//missing")
	require.NoError(t, err)
	assert.Empty(t, values)
}
