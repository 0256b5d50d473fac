package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t      *testing.T
	dir    string
	bundle string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv("ANIWIDGETS_CACHE_DIR", t.TempDir())
	bundle := t.TempDir()
	frame := filepath.Join(bundle, "TestDesigns", "test01", "test01_frame_01.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(frame), 0o755))
	require.NoError(t, os.WriteFile(frame, []byte("\x89PNG\r\n\x1a\nx"), 0o644))
	return &cli{t: t, dir: t.TempDir(), bundle: bundle}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--container", c.dir, "--bundle", c.bundle}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

func TestFeaturedCommands(t *testing.T) {
	c := newCLI(t)

	assert.Contains(t, c.mustRun("featured", "add", "test01"), "test01: featured")
	assert.Contains(t, c.mustRun("featured", "add", "test01"), "not added")

	out := c.mustRun("--output", "json", "featured", "list")
	var reg types.FeaturedRegistry
	require.NoError(t, json.Unmarshal([]byte(out), &reg))
	assert.Equal(t, []string{"test01"}, reg.Designs)

	assert.Contains(t, c.mustRun("featured", "remove", "test01"), "removed")
}

func TestTimelineAndStart(t *testing.T) {
	c := newCLI(t)
	c.mustRun("designs", "provision", "--quiet", "test01")
	c.mustRun("featured", "add", "test01")

	out := c.mustRun("--output", "json", "timeline", types.KindSlotA)
	var tl types.Timeline
	require.NoError(t, json.Unmarshal([]byte(out), &tl))
	require.Len(t, tl.Entries, 1)
	assert.Equal(t, types.PolicyNever, tl.Policy.Kind)

	id := tl.Entries[0].InstanceID
	assert.Contains(t, c.mustRun("start", id), "started")
	assert.Contains(t, c.mustRun("start", id), "not started")

	out = c.mustRun("instances", "show", id)
	assert.Contains(t, out, `"isAnimating": true`)
}

func TestDesignsCommands(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("--output", "json", "designs", "list")
	var designs []types.AnimationDesign
	require.NoError(t, json.Unmarshal([]byte(out), &designs))
	require.Len(t, designs, 1)
	assert.Equal(t, types.SourceBundle, designs[0].Source)

	c.mustRun("designs", "provision", "-q", "test01")
	assert.Contains(t, c.mustRun("designs", "remove", "--prune"), "pruned 1 designs")

	_, err := c.run("designs", "provision", "-q", "ghost")
	assert.Error(t, err)
}

func TestArgumentErrors(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("timeline", "NotAKind")
	assert.Error(t, err)
	_, err = c.run("start")
	assert.Error(t, err)
	_, err = c.run("--mode", "sometimes", "stats")
	assert.Error(t, err)
}

func TestCleanupAndStats(t *testing.T) {
	c := newCLI(t)
	assert.Contains(t, c.mustRun("cleanup"), "scanned 0")
	assert.Contains(t, c.mustRun("stats"), "instances: 0")
}

func TestForgetAndSignals(t *testing.T) {
	c := newCLI(t)
	assert.Contains(t, c.mustRun("signals"), "no signals raised")

	c.mustRun("featured", "add", "test01")
	out := c.mustRun("--output", "json", "timeline", types.KindSlotA)
	var before types.Timeline
	require.NoError(t, json.Unmarshal([]byte(out), &before))
	require.NotEmpty(t, before.Entries)

	assert.Contains(t, c.mustRun("instances", "forget", types.KindSlotA), "forgotten")

	out = c.mustRun("--output", "json", "timeline", types.KindSlotA)
	var after types.Timeline
	require.NoError(t, json.Unmarshal([]byte(out), &after))
	require.NotEmpty(t, after.Entries)
	assert.NotEqual(t, before.Entries[0].InstanceID, after.Entries[0].InstanceID)

	out = c.mustRun("--output", "json", "signals")
	var sigs []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &sigs))
	kinds := make([]string, 0, len(sigs))
	for _, s := range sigs {
		kinds = append(kinds, s["kind"].(string))
	}
	assert.Contains(t, kinds, types.KindAll, "featured add raises a reload for every kind")
	assert.Contains(t, kinds, types.KindSlotA)

	_, err := c.run("instances", "forget", "NotAKind")
	assert.Error(t, err)
}
