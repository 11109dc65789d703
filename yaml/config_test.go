package yaml_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/newsbrief/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	Endpoint  string        `default:"http://localhost:5005"`
	Timeout   time.Duration `default:"60s"`
	RateLimit float64       `name:"rate-limit" default:"1"`
	JSON      bool          `name:"json"`
	Agent     struct {
		Addr string `default:":8080"`
	} `embed:"" prefix:"agent."`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func parse(t *testing.T, args []string, paths ...string) *testCLI {
	t.Helper()
	var cli testCLI
	parser, err := kong.New(&cli, kong.Configuration(yaml.Loader, paths...), kong.Exit(func(int) {}))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return &cli
}

func TestLoader(t *testing.T) {
	t.Parallel()

	t.Run("resolves flags from file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
endpoint: https://brief.example.com
timeout: 15s
rate_limit: 0.5
json: true
`)

		cli := parse(t, nil, path)

		assert.Equal(t, "https://brief.example.com", cli.Endpoint)
		assert.Equal(t, 15*time.Second, cli.Timeout)
		assert.InDelta(t, 0.5, cli.RateLimit, 1e-9)
		assert.True(t, cli.JSON)
	})

	t.Run("resolves dotted flags from nested mapping", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "agent:\n  addr: \":9090\"\n")

		cli := parse(t, nil, path)

		assert.Equal(t, ":9090", cli.Agent.Addr)
	})

	t.Run("command line overrides file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "endpoint: https://brief.example.com\n")

		cli := parse(t, []string{"--endpoint", "http://127.0.0.1:5005"}, path)

		assert.Equal(t, "http://127.0.0.1:5005", cli.Endpoint)
	})

	t.Run("keeps defaults for missing file", func(t *testing.T) {
		t.Parallel()

		cli := parse(t, nil, filepath.Join(t.TempDir(), "absent.yaml"))

		assert.Equal(t, "http://localhost:5005", cli.Endpoint)
		assert.Equal(t, 60*time.Second, cli.Timeout)
	})

	t.Run("accepts empty document", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Loader(strings.NewReader(""))

		require.NoError(t, err)
	})

	t.Run("rejects malformed document", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Loader(strings.NewReader("endpoint: [unclosed"))

		require.Error(t, err)
	})
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	assert.True(t, strings.HasSuffix(defaultPathOrSkip(t), filepath.Join(".newsbrief", "config.yaml")))
}

func defaultPathOrSkip(t *testing.T) string {
	t.Helper()
	p := yaml.DefaultPath()
	if p == "" {
		t.Skip("no home directory")
	}
	return p
}
