package render

import (
	"testing"

	"github.com/specialistvlad/stridegen/internal/codegen"
	"github.com/specialistvlad/stridegen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGamma_Globals(t *testing.T) {
	out, err := NewGamma().Globals(codegen.Groups{
		codegen.GroupIncludes:       {"Gamma/Oscillator.h", "<cmath>", `"local.h"`, "#include <vector>"},
		codegen.GroupGlobals:        {"gam::Sine<> osc;"},
		codegen.GroupLinkTo:         {"sndfile"},
		codegen.GroupInitialization: {"osc.freq(440);"},
	})

	require.NoError(t, err)
	assert.Equal(t, `#include "Gamma/Oscillator.h"
#include <cmath>
#include "local.h"
#include <vector>
gam::Sine<> osc;
`, out)
}

func TestGamma_GlobalsEmpty(t *testing.T) {
	out, err := NewGamma().Globals(codegen.Groups{codegen.GroupLinkTo: {}})

	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestGamma_Runtime(t *testing.T) {
	out, err := NewGamma().Runtime(config.DefaultRuntime())

	require.NoError(t, err)
	assert.Equal(t, `    gam::AudioIO io(256, 44100.0, audioCB, NULL, 2, 2);
    io.deviceOut(gam::AudioDevice(0));
    gam::sampleRate(io.fps());
`, out)
}

func TestGamma_RuntimeFractionalRate(t *testing.T) {
	rt := config.DefaultRuntime()
	rt.SampleRate = 22050.5

	out, err := NewGamma().Runtime(rt)

	require.NoError(t, err)
	assert.Contains(t, out, "22050.5, audioCB")
}

func TestGamma_Configuration(t *testing.T) {
	out, err := NewGamma().Configuration([]string{"osc.freq(440);", "env.reset();"})
	require.NoError(t, err)
	assert.Equal(t, "    osc.freq(440);\n    env.reset();\n", out)

	out, err = NewGamma().Configuration(nil)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
