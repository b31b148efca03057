package model

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed profile.schema.json
var profileSchema []byte

// ProfileSchema returns the JSON schema downstream consumers key off.
func ProfileSchema() []byte {
	return profileSchema
}

// ValidateProfile checks the serialized profile against the published schema.
func ValidateProfile(p *Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "model: marshal profile")
	}
	return ValidateProfileJSON(doc)
}

// ValidateProfileJSON checks a serialized profile document.
func ValidateProfileJSON(doc []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(profileSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return eris.Wrap(err, "model: validate profile")
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return eris.Errorf("model: profile does not match schema: %s", strings.Join(errs, "; "))
	}
	return nil
}
