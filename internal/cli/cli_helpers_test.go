package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// isolateHome points HOME and SHIPYARD_HOME at temp dirs so tests never read
// or write the developer's global config and logs.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHIPYARD_HOME", t.TempDir())
}

// executeRoot runs the root command with args and returns stdout and the error.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	t.Cleanup(CloseLogFile)
	return out.String(), err
}

// releaseFixture is a checkout whose collaborators are tiny shell scripts.
type releaseFixture struct {
	work       string
	publicRoot string
	configPath string
}

const bundleScript = `set -e
mkdir -p "$OUTPUT_PATH/bin"
echo "#!/bin/sh" > "$OUTPUT_PATH/bin/$PRODUCT.sh"
touch "$OUTPUT_PATH.tar.gz"
`

const harnessScript = `echo "running $FEATURE_FILTER against $BUNDLE_PATH"
cat <<'JSON'
{
  "elements": [
    {"name": "remap swath", "status": "passed", "steps": [{"result": {"status": "passed", "duration": 1.5}}]}
  ]
}
JSON
echo "done"
`

const docsScript = `set -e
mkdir -p "_build/$DOC_FORMAT"
echo "<html>$PRODUCT $RELEASE_SUFFIX</html>" > "_build/$DOC_FORMAT/index.html"
`

func newReleaseFixture(t *testing.T, bundle string) *releaseFixture {
	t.Helper()

	root := t.TempDir()
	f := &releaseFixture{
		work:       filepath.Join(root, "work"),
		publicRoot: filepath.Join(root, "public"),
		configPath: filepath.Join(root, "shipyard.yaml"),
	}
	scripts := filepath.Join(root, "scripts")
	for _, dir := range []string{f.work, filepath.Join(f.work, "doc"), scripts} {
		require.NoError(t, os.MkdirAll(dir, 0o750))
	}

	write := func(name, body string) string {
		path := filepath.Join(scripts, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}
	bundlePath := write("bundle.sh", bundle)
	harnessPath := write("harness.sh", harnessScript)
	docsPath := write("docs.sh", docsScript)

	cfg := `targets:
  - code: p2g
    product: polar2grid
    feature_filter: features/polar2grid.feature
    docs_dir: doc
  - code: g2g
    product: geo2grid
    feature_filter: features/geo2grid.feature
    docs_dir: doc
bundle:
  command: sh ` + bundlePath + `
test:
  command: sh ` + harnessPath + `
  dir: .
docs:
  command: sh ` + docsPath + `
  clean_command: rm -rf _build
  formats: [html]
publish:
  backend: dir
  root: ` + f.publicRoot + `
`
	require.NoError(t, os.WriteFile(f.configPath, []byte(cfg), 0o600))
	return f
}
