// Package sitegen writes rendered storefronts to disk as static bundles.
// Every store gets its own directory under the sites root holding
// index.html, styles.css and app.js.
package sitegen

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"tiendazo/internal/engine"
	"tiendazo/internal/models"
)

// Bundle file names.
const (
	IndexFile  = "index.html"
	StylesFile = "styles.css"
	ScriptFile = "app.js"
)

const stagingDir = ".staging"

//go:embed assets
var assets embed.FS

// ErrSitesUnavailable is returned when the sites directory cannot be prepared.
var ErrSitesUnavailable = errors.New("unable to prepare sites directory")

var (
	styleBlock = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)
	closeBody  = regexp.MustCompile(`(?i)</body\s*>`)
)

const stylesheetLink = `<link rel="stylesheet" href="./` + StylesFile + `">`

// Site is the input of a bundle generation.
type Site struct {
	Store  *models.Store
	Theme  *models.StoreTheme
	Result *engine.RenderResult
}

// Paths locates a generated bundle.
type Paths struct {
	SitePath  string
	IndexPath string
}

// Generator writes bundles under a root directory.
type Generator struct {
	root string
}

// New creates a Generator rooted at root. The directory is created lazily.
func New(root string) (*Generator, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve sites root %s: %w", root, err)
	}
	return &Generator{root: abs}, nil
}

// Root returns the absolute sites directory.
func (g *Generator) Root() string {
	return g.root
}

// SiteDir returns the bundle directory of a store.
func (g *Generator) SiteDir(storeID int64) string {
	return filepath.Join(g.root, strconv.FormatInt(storeID, 10))
}

// Generate writes the bundle for site and returns where it lives. The
// three files are staged in a scratch directory and swapped in together,
// so a failed run leaves the previous bundle in place.
func (g *Generator) Generate(ctx context.Context, site Site) (*Paths, error) {
	if site.Store == nil || site.Result == nil {
		return nil, fmt.Errorf("generate site: store and render result are required")
	}

	staging := filepath.Join(g.root, stagingDir)
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrSitesUnavailable, staging, err)
	}

	kind := models.TemplateModern
	if site.Theme != nil {
		kind = site.Theme.Template
	}
	script, err := loadScript(kind)
	if err != nil {
		return nil, err
	}

	html, css := ExtractCSS(site.Result.HTML)
	if css == "" {
		css = site.Result.CSS
	}
	html, err = InjectMetadata(html, buildMetadata(site))
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp(staging, strconv.FormatInt(site.Store.ID, 10)+"-")
	if err != nil {
		return nil, fmt.Errorf("%w: create staging directory: %v", ErrSitesUnavailable, err)
	}
	defer os.RemoveAll(tmp)

	files := []struct {
		name string
		data []byte
	}{
		{StylesFile, []byte(css)},
		{ScriptFile, script},
		{IndexFile, []byte(html)},
	}
	for _, f := range files {
		if err := writeFileSync(filepath.Join(tmp, f.name), f.data); err != nil {
			return nil, err
		}
	}

	dir := g.SiteDir(site.Store.ID)
	if err := swapDir(tmp, dir); err != nil {
		return nil, err
	}

	slog.Info("site generated",
		"store_id", site.Store.ID,
		"template", kind,
		"path", dir,
		"html_bytes", len(html),
		"css_bytes", len(css),
	)

	return &Paths{SitePath: dir, IndexPath: filepath.Join(dir, IndexFile)}, nil
}

// ReadIndex returns the cached index.html at indexPath. The bundle only
// counts as valid when all three files are present.
func (g *Generator) ReadIndex(indexPath string) (string, bool) {
	if indexPath == "" {
		return "", false
	}
	dir := filepath.Dir(indexPath)
	for _, name := range []string{StylesFile, ScriptFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return "", false
		}
	}
	data, err := os.ReadFile(indexPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("cached site unreadable", "path", indexPath, "error", err)
		}
		return "", false
	}
	return string(data), true
}

// File returns the path of a bundle file of a store, or false when name is
// not a bundle file or does not exist.
func (g *Generator) File(storeID int64, name string) (string, bool) {
	switch name {
	case IndexFile, StylesFile, ScriptFile:
	default:
		return "", false
	}
	path := filepath.Join(g.SiteDir(storeID), name)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// Remove deletes the bundle of a store. A missing bundle is not an error.
func (g *Generator) Remove(storeID int64) error {
	if err := os.RemoveAll(g.SiteDir(storeID)); err != nil {
		return fmt.Errorf("remove site %d: %w", storeID, err)
	}
	return nil
}

// ExtractCSS moves the first inline <style> block out of html. The block
// is replaced by a link to styles.css and its content is returned. html is
// returned untouched when it has no style block.
func ExtractCSS(html string) (string, string) {
	loc := styleBlock.FindStringSubmatchIndex(html)
	if loc == nil {
		return html, ""
	}
	css := html[loc[2]:loc[3]]
	return html[:loc[0]] + stylesheetLink + html[loc[1]:], css
}

// InjectMetadata inserts the metadata bootstrap and the app.js include
// right before the closing body tag, or at the end when there is none.
func InjectMetadata(html string, meta SiteMetadata) (string, error) {
	// encoding/json escapes <, > and &, so the payload cannot close the script.
	payload, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encode site metadata: %w", err)
	}

	snippet := "<script>window.__SITE_METADATA__ = " + string(payload) + ";</script>\n" +
		`<script src="./` + ScriptFile + `"></script>` + "\n"

	matches := closeBody.FindAllStringIndex(html, -1)
	if len(matches) == 0 {
		return html + snippet, nil
	}
	idx := matches[len(matches)-1][0]
	return html[:idx] + snippet + html[idx:], nil
}

func loadScript(kind models.TemplateKind) ([]byte, error) {
	name := "assets/" + strings.ToLower(string(kind)) + "/" + ScriptFile
	data, err := fs.ReadFile(assets, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return data, nil
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// swapDir replaces dst with the fully written src directory.
func swapDir(src, dst string) error {
	old := ""
	if _, err := os.Stat(dst); err == nil {
		old = src + ".old"
		if err := os.Rename(dst, old); err != nil {
			return fmt.Errorf("move previous site %s aside: %w", dst, err)
		}
	}

	if err := os.Rename(src, dst); err != nil {
		if old != "" {
			if rerr := os.Rename(old, dst); rerr != nil {
				slog.Error("failed to restore previous site", "path", dst, "error", rerr)
			}
		}
		return fmt.Errorf("publish site %s: %w", dst, err)
	}

	if old != "" {
		if err := os.RemoveAll(old); err != nil {
			slog.Warn("failed to remove previous site", "path", old, "error", err)
		}
	}
	return nil
}
