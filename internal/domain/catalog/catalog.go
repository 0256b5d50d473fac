package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/providers/storage"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/paths"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/utils"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"
	"go.uber.org/zap"
)

// Catalog discovers animation designs in the shared container and the bundle.
// Nothing is cached: designs provisioned by another process show up on the
// next call.
type Catalog struct {
	store           storage.Store
	bundle          fs.FS
	defaultInterval time.Duration
	logger          *zap.Logger
}

// New creates a catalog. bundle may be nil when no bundle is shipped.
func New(store storage.Store, bundle fs.FS, defaultInterval time.Duration, logger *zap.Logger) *Catalog {
	return &Catalog{
		store:           store,
		bundle:          bundle,
		defaultInterval: defaultInterval,
		logger:          logging.Component(logger, "catalog"),
	}
}

// layout describes where one source keeps its designs
type layout struct {
	source    types.DesignSource
	root      string
	framesDir func(id string) string
}

var manifestLimit = utils.NewJSONSizeValidator(utils.MaxManifestSize)

var storeLayout = layout{
	source:    types.SourceStore,
	root:      paths.Designs,
	framesDir: func(id string) string { return paths.DesignPath(id).FramesDir() },
}

var bundleLayout = layout{
	source:    types.SourceBundle,
	root:      paths.BundleDesigns,
	framesDir: func(id string) string { return paths.DesignPath(id).BundleDir() },
}

// List returns every discovered design, store designs first. A bundle design
// is hidden once a design with the same ID has been provisioned.
func (c *Catalog) List(ctx context.Context) []types.AnimationDesign {
	designs := c.scan(ctx, c.store.FS(), storeLayout)

	seen := make(map[string]bool, len(designs))
	for _, d := range designs {
		seen[d.ID] = true
	}

	if c.bundle != nil {
		for _, d := range c.scan(ctx, c.bundle, bundleLayout) {
			if !seen[d.ID] {
				designs = append(designs, d)
			}
		}
	}
	return designs
}

// Get returns a design by ID, preferring the provisioned copy
func (c *Catalog) Get(ctx context.Context, designID string) (types.AnimationDesign, bool) {
	if utils.ValidateDesignID(designID) != nil {
		return types.AnimationDesign{}, false
	}
	if d, ok := c.describe(c.store.FS(), storeLayout, designID); ok {
		return d, true
	}
	if c.bundle != nil {
		if d, ok := c.describe(c.bundle, bundleLayout, designID); ok {
			return d, true
		}
	}
	return types.AnimationDesign{}, false
}

// FrameCount returns the design's frame count, or 0 when it is unknown
func (c *Catalog) FrameCount(ctx context.Context, designID string) int {
	d, ok := c.Get(ctx, designID)
	if !ok {
		return 0
	}
	return d.FrameCount
}

func (c *Catalog) scan(ctx context.Context, fsys fs.FS, l layout) []types.AnimationDesign {
	entries, err := fs.ReadDir(fsys, l.root)
	if err != nil {
		if !isNotExist(err) {
			c.logger.Warn("Failed to scan designs", zap.String("source", string(l.source)), zap.Error(err))
		}
		return []types.AnimationDesign{}
	}

	designs := make([]types.AnimationDesign, 0, len(entries))
	failed := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if !entry.IsDir() || utils.ValidateDesignID(entry.Name()) != nil {
			continue
		}
		d, ok := c.describe(fsys, l, entry.Name())
		if !ok {
			failed++
			continue
		}
		designs = append(designs, d)
	}

	sort.Slice(designs, func(i, j int) bool { return designs[i].ID < designs[j].ID })
	c.logger.Debug("Scanned designs",
		zap.String("source", string(l.source)), zap.Int("loaded", len(designs)), zap.Int("skipped", failed))
	return designs
}

// describe builds a design from its manifest, or from its frame files when
// there is no usable manifest.
func (c *Catalog) describe(fsys fs.FS, l layout, designID string) (types.AnimationDesign, bool) {
	dir := path.Join(l.root, designID)
	design := types.AnimationDesign{
		ID:            designID,
		Name:          designID,
		FrameInterval: c.defaultInterval.Seconds(),
		Source:        l.source,
	}

	manifest, err := readManifest(fsys, dir, designID)
	if err != nil && !isNotExist(err) {
		c.logger.Warn("Ignoring unreadable manifest", zap.String("design_id", designID), zap.Error(err))
	}
	if manifest != nil {
		if manifest.Name != "" {
			design.Name = manifest.Name
		}
		if manifest.FrameInterval > 0 {
			design.FrameInterval = manifest.FrameInterval
		}
		design.FrameCount = manifest.FrameCount
	}

	if design.FrameCount <= 0 {
		design.FrameCount = countFrames(fsys, l.framesDir(designID), designID)
	}
	if design.FrameCount <= 0 {
		return types.AnimationDesign{}, false
	}
	return design, true
}

// readManifest loads <dir>/<id>_manifest.json, falling back to the YAML variant
func readManifest(fsys fs.FS, dir, designID string) (*types.DesignManifest, error) {
	candidates := []string{
		path.Join(dir, designID+"_manifest.json"),
		path.Join(dir, designID+"_manifest.yaml"),
		path.Join(dir, designID+"_manifest.yml"),
	}

	var lastErr error = fs.ErrNotExist
	for _, p := range candidates {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			if !isNotExist(err) {
				lastErr = err
			}
			continue
		}
		if err := manifestLimit.ValidateSize(data); err != nil {
			return nil, fmt.Errorf("manifest %s: %w", p, err)
		}

		var m types.DesignManifest
		if strings.HasSuffix(p, ".json") {
			err = json.Unmarshal(data, &m)
		} else {
			err = yaml.Unmarshal(data, &m)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", p, err)
		}
		return &m, nil
	}
	return nil, lastErr
}

// countFrames counts <id>_frame_NN.png files in dir
func countFrames(fsys fs.FS, dir, designID string) int {
	pattern := path.Join(dir, designID+"_frame_[0-9][0-9].png")
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return 0
	}
	return len(matches)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
