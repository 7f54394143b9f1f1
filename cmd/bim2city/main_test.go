package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/bim2city/pkg/config"
)

const roomDoc = `
project:
  name: Shed
roots: [project]
elements:
  - id: project
    kind: project
    decomposes: [building]
  - id: building
    kind: building
    global_id: 2O2Fr$t4X7Zf8NOew3FLOH
    name: Shed
    address:
      lines: ["Dock 4"]
      town: Rotterdam
    decomposes: [storey]
  - id: storey
    kind: storey
    decomposes: [space]
  - id: space
    kind: space
    name: Store
    bounded_by:
      - element: wall
        boundary: external
  - id: wall
    kind: wall
    shape:
      items:
        - box: {x: 1000, y: 1000, z: 1000}
`

// Coarse meshes keep the real kernel fast enough for unit tests.
const coarseConfig = `
engine:
  mesh_cells: 16
`

type cli struct {
	dir string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ProjectConfigFile), []byte(coarseConfig), 0644))
	return &cli{dir: dir}
}

func (c *cli) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(c.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(args ...string) (stdout, stderr string, err error) {
	cmd := rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run("version")
	require.NoError(t, err)
	assert.Equal(t, "bim2city version 0.1.0 (build: dev)\n", out)
}

func TestConvertToFile(t *testing.T) {
	c := newCLI(t)
	model := c.write(t, "shed.yaml", roomDoc)
	output := filepath.Join(c.dir, "shed.gml")

	_, logs, err := run("convert", "-i", model, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, logs, "conversion finished")
	assert.Contains(t, logs, "document written")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	doc := string(data)
	assert.Contains(t, doc, "<core:CityModel")
	assert.Contains(t, doc, "<gml:name>Shed</gml:name>")
	assert.Contains(t, doc, "<bldg:Building")
	assert.Contains(t, doc, "<bldg:interiorRoom>")
	assert.Contains(t, doc, "<bldg:WallSurface")
	assert.Contains(t, doc, "<gml:posList srsDimension=\"3\">")
	assert.Contains(t, doc, "<xAL:LocalityName>Rotterdam</xAL:LocalityName>")
}

func TestConvertWritesMetrics(t *testing.T) {
	c := newCLI(t)
	model := c.write(t, "shed.yaml", roomDoc)
	metrics := filepath.Join(c.dir, "bim2city.prom")

	_, _, err := run("convert", "-i", model, "-o", filepath.Join(c.dir, "shed.gml"), "--metrics-file", metrics)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "# TYPE bim2city_converted_nodes_total counter")
	assert.Contains(t, text, `bim2city_converted_nodes_total{type="WallSurface"}`)
	assert.Contains(t, text, "bim2city_conversion_duration_seconds_count")
}

func TestConvertToStdout(t *testing.T) {
	c := newCLI(t)
	model := c.write(t, "shed.yaml", roomDoc)

	out, _, err := run("convert", "-i", model, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "<?xml")
	assert.Contains(t, out, "<bldg:WallSurface")
}

func TestConvertRejectsInvalidModel(t *testing.T) {
	c := newCLI(t)
	model := c.write(t, "broken.yaml", `
roots: [project]
elements:
  - id: project
    kind: project
    decomposes: [missing]
`)
	output := filepath.Join(c.dir, "broken.gml")

	_, logs, err := run("convert", "-i", model, "-o", output)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation errors")
	assert.Contains(t, logs, "references missing element")
	assert.NoFileExists(t, output)
}

func TestWriteFileRemovesPartialOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gml")

	err := writeFile(path, func(w io.Writer) error {
		if _, err := io.WriteString(w, "<?xml version=\"1.0\"?>\n<core:CityModel"); err != nil {
			return err
		}
		return errors.New("encoder failed")
	})
	require.EqualError(t, err, "encoder failed")
	assert.NoFileExists(t, path)

	require.NoError(t, writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "ok")
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestConvertRequiresInput(t *testing.T) {
	_, _, err := run("convert")
	assert.ErrorContains(t, err, "required flag")
}

func TestConvertBadConfig(t *testing.T) {
	c := newCLI(t)
	model := c.write(t, "shed.yaml", roomDoc)
	cfg := c.write(t, "bad.yaml", "conversion:\n  on_geometry_error: retry\n")

	_, _, err := run("convert", "-i", model, "-c", cfg)
	assert.ErrorContains(t, err, "invalid config")
}

func TestValidate(t *testing.T) {
	c := newCLI(t)

	t.Run("valid model", func(t *testing.T) {
		model := c.write(t, "shed.yaml", roomDoc)
		out, _, err := run("validate", "-i", model)
		require.NoError(t, err)
		assert.Contains(t, out, "5 elements, 1 buildings, 0 errors")
	})

	t.Run("invalid model", func(t *testing.T) {
		model := c.write(t, "broken.yaml", `
roots: [storey]
elements:
  - id: storey
    kind: storey
`)
		out, _, err := run("validate", "-i", model)
		require.Error(t, err)
		assert.Contains(t, out, "[error] element storey: root has kind")
	})

	t.Run("unreadable model", func(t *testing.T) {
		_, _, err := run("validate", "-i", filepath.Join(c.dir, "missing.yaml"))
		assert.ErrorContains(t, err, "failed to read model file")
	})
}

func TestInspect(t *testing.T) {
	c := newCLI(t)
	model := c.write(t, "shed.yaml", roomDoc)

	t.Run("exchange document", func(t *testing.T) {
		out, _, err := run("inspect", "-i", model, "-e", "wall", "--exchange")
		require.NoError(t, err)
		assert.Contains(t, out, "; bim2city exchange 1")
		assert.Contains(t, out, `(instance "IFCWALL" "wall"`)
		assert.Contains(t, out, "(box 1000 1000 1000)")
	})

	t.Run("tessellation", func(t *testing.T) {
		out, _, err := run("inspect", "-i", model, "-e", "wall")
		require.NoError(t, err)
		assert.Contains(t, out, "vertices: ")
		assert.Contains(t, out, "IFCWALL wall: start 0, triangles ")
	})

	t.Run("element without shape", func(t *testing.T) {
		out, _, err := run("inspect", "-i", model, "-e", "space")
		require.NoError(t, err)
		assert.Equal(t, "vertices: 0\nindices: 0\n", out)
	})

	t.Run("unknown element", func(t *testing.T) {
		_, _, err := run("inspect", "-i", model, "-e", "nope")
		assert.ErrorContains(t, err, `element "nope" not found`)
	})
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "bim2city.yaml")

	out, _, err := run("init-config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	_, _, err = run("init-config", path)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = run("init-config", path, "--force")
	assert.NoError(t, err)
}
