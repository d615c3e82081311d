package codegen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/stridegen/internal/testutil"
	"github.com/specialistvlad/stridegen/internal/toolchain"
	"github.com/specialistvlad/stridegen/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTree(t *testing.T) *tree.Tree {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, tree.FileName), []byte(`[{"platform":"Gamma"}]`), 0644))
	tr, err := tree.Load(dir)
	require.NoError(t, err)
	return tr
}

func TestBundleValidate(t *testing.T) {
	t.Parallel()

	ok := &Bundle{GlobalGroups: Groups{GroupInitialization: {}, GroupLinkTo: {}}}
	require.NoError(t, ok.Validate())

	missing := &Bundle{GlobalGroups: Groups{GroupLinkTo: {"sndfile"}}}
	err := missing.Validate()
	var groupErr *MissingGroupError
	require.True(t, errors.As(err, &groupErr))
	assert.Equal(t, []string{GroupInitialization}, groupErr.Groups)

	empty := &Bundle{}
	err = empty.Validate()
	require.ErrorAs(t, err, &groupErr)
	assert.Equal(t, []string{GroupInitialization, GroupLinkTo}, groupErr.Groups)
}

func TestExecAdapter_DecodesBundle(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	runner := &testutil.FakeRunner{Respond: func(inv toolchain.Invocation) toolchain.Result {
		return toolchain.Result{Stdout: []byte(`{
			"header_code": "gam::SineR<> osc;\n",
			"init_code": "",
			"processing_code": "io.out(0) = osc();\n",
			"global_groups": {"initialization": [], "linkTo": ["sndfile"]}
		}`)}
	}}
	adapter := NewExecAdapter([]string{"python3", "generate.py"}, "/build", runner)
	tr := loadTree(t)

	// --- Act ---
	bundle, err := adapter.Generate(context.Background(), tr)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "gam::SineR<> osc;\n", bundle.HeaderCode)
	assert.Equal(t, []string{"sndfile"}, bundle.LinkTo())
	require.NoError(t, bundle.Validate())

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "python3", calls[0].Program)
	assert.Equal(t, []string{"generate.py", "/build"}, calls[0].Args)
	assert.Equal(t, tr.Raw(), calls[0].Stdin)
}

func TestExecAdapter_Failures(t *testing.T) {
	t.Parallel()

	tr := loadTree(t)

	t.Run("no command", func(t *testing.T) {
		_, err := NewExecAdapter(nil, "/build", &testutil.FakeRunner{}).Generate(context.Background(), tr)
		assert.ErrorIs(t, err, ErrNoGenerator)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		runner := &testutil.FakeRunner{Respond: func(toolchain.Invocation) toolchain.Result {
			return toolchain.Result{ExitCode: 2, Stderr: []byte("KeyError: 'Osc'")}
		}}
		_, err := NewExecAdapter([]string{"gen"}, "/build", runner).Generate(context.Background(), tr)

		var genErr *GeneratorError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, 2, genErr.ExitCode)
		assert.Contains(t, genErr.Output, "KeyError")
	})

	t.Run("invalid json", func(t *testing.T) {
		runner := &testutil.FakeRunner{Respond: func(toolchain.Invocation) toolchain.Result {
			return toolchain.Result{Stdout: []byte("not json")}
		}}
		_, err := NewExecAdapter([]string{"gen"}, "/build", runner).Generate(context.Background(), tr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode code bundle")
	})
}

func TestStaticAdapter_ReturnsCopy(t *testing.T) {
	t.Parallel()

	src := &Bundle{GlobalGroups: Groups{GroupLinkTo: {"sndfile"}, GroupInitialization: {}}}
	adapter := &StaticAdapter{Bundle: src}

	b, err := adapter.Generate(context.Background(), nil)
	require.NoError(t, err)
	b.GlobalGroups[GroupLinkTo][0] = "changed"

	assert.Equal(t, "sndfile", src.GlobalGroups[GroupLinkTo][0])
	require.NoError(t, b.Validate())

	_, err = (&StaticAdapter{}).Generate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoGenerator)
}
