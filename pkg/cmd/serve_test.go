package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openwork/search-adapters/pkg/officeindex"
)

func TestOfficeProbeOrNil_NilConcretePointerYieldsNilInterface(t *testing.T) {
	var concrete *officeindex.ExtractorProbe

	probe := officeProbeOrNil(concrete)

	assert.Nil(t, probe, "a nil *ExtractorProbe must produce a nil office.Probe interface, not a typed-nil one")
}

func TestNewServeCmd_RejectsUnknownAdapter(t *testing.T) {
	flags := &cmdFlags{LogLevel: "info"}

	err := runServe(t.Context(), flags, "bogus")
	assert.ErrorContains(t, err, "unknown adapter")
}

func TestNewServeCmd_Structure(t *testing.T) {
	cmd := newServeCmd(&cmdFlags{})

	assert.Equal(t, "serve", cmd.Name())
	assert.NotEmpty(t, cmd.Short)
}
