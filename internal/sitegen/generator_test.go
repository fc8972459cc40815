package sitegen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tiendazo/internal/engine"
	"tiendazo/internal/models"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func testSite(t *testing.T, kind models.TemplateKind) Site {
	t.Helper()
	store := &models.Store{ID: 7, Name: "Tienda Test", Address: "Calle 1", Email: "hola@tienda.test"}
	theme := models.NewDefaultTheme(7)
	theme.Template = kind

	strategy := engine.NewRegistry(engine.Options{}).Template(kind)
	res, err := strategy.Render(store, theme, &engine.RenderData{
		Products: []models.Product{{ID: 1, Name: "Mochila", SellPrice: 125000}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return Site{Store: store, Theme: theme, Result: res}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestGenerateWritesBundle(t *testing.T) {
	g := testGenerator(t)
	site := testSite(t, models.TemplateModern)

	paths, err := g.Generate(context.Background(), site)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	wantDir := filepath.Join(g.Root(), "7")
	if paths.SitePath != wantDir {
		t.Errorf("SitePath: got %q, want %q", paths.SitePath, wantDir)
	}
	if paths.IndexPath != filepath.Join(wantDir, IndexFile) {
		t.Errorf("IndexPath: got %q", paths.IndexPath)
	}

	html := readFile(t, paths.IndexPath)
	css := readFile(t, filepath.Join(wantDir, StylesFile))
	js := readFile(t, filepath.Join(wantDir, ScriptFile))

	if strings.Contains(html, "<style>") {
		t.Error("index.html should not carry an inline style block")
	}
	if !strings.Contains(html, `<link rel="stylesheet" href="./styles.css">`) {
		t.Error("index.html should link the external stylesheet")
	}
	if css != site.Result.CSS {
		t.Error("styles.css should equal the generated CSS")
	}
	if !strings.Contains(js, "modern-cta-btn") {
		t.Error("app.js should be the modern client script")
	}
}

func TestGenerateInjectsMetadataBeforeBody(t *testing.T) {
	g := testGenerator(t)

	paths, err := g.Generate(context.Background(), testSite(t, models.TemplateElegant))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	html := readFile(t, paths.IndexPath)

	meta := strings.Index(html, "window.__SITE_METADATA__ = ")
	include := strings.Index(html, `<script src="./app.js"></script>`)
	body := strings.LastIndex(html, "</body>")

	if meta == -1 || include == -1 || body == -1 {
		t.Fatalf("missing metadata (%d), include (%d) or body (%d)", meta, include, body)
	}
	if !(meta < include && include < body) {
		t.Errorf("unexpected order: metadata %d, include %d, </body> %d", meta, include, body)
	}
	for _, want := range []string{`"title":"Tienda Test"`, `"address":"Calle 1"`, `"primaryColor":"#3B82F6"`, `"showContact":true`} {
		if !strings.Contains(html, want) {
			t.Errorf("metadata missing %s", want)
		}
	}
}

func TestGenerateUsesTemplateScript(t *testing.T) {
	tests := []struct {
		kind models.TemplateKind
		want string
	}{
		{models.TemplateModern, "modern-cta-btn"},
		{models.TemplateMinimalist, "minimalist-btn"},
		{models.TemplateElegant, "elegant-btn"},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			g := testGenerator(t)
			paths, err := g.Generate(context.Background(), testSite(t, tc.kind))
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if js := readFile(t, filepath.Join(paths.SitePath, ScriptFile)); !strings.Contains(js, tc.want) {
				t.Errorf("app.js should reference %s", tc.want)
			}
		})
	}
}

func TestGenerateIsRepeatable(t *testing.T) {
	g := testGenerator(t)
	site := testSite(t, models.TemplateModern)

	if _, err := g.Generate(context.Background(), site); err != nil {
		t.Fatalf("first Generate: %v", err)
	}

	site.Result.HTML = strings.Replace(site.Result.HTML, "Tienda Test", "Tienda Nueva", 1)
	paths, err := g.Generate(context.Background(), site)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if !strings.Contains(readFile(t, paths.IndexPath), "Tienda Nueva") {
		t.Error("expected the second bundle to replace the first")
	}

	entries, err := os.ReadDir(filepath.Join(g.Root(), stagingDir))
	if err != nil {
		t.Fatalf("read staging: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("staging directory should be empty, found %d entries", len(entries))
	}
}

func TestGenerateFallsBackToResultCSS(t *testing.T) {
	g := testGenerator(t)
	site := Site{
		Store:  &models.Store{ID: 3, Name: "Sin estilos"},
		Result: &engine.RenderResult{HTML: "<html><body><p>hola</p></body></html>", CSS: "body{color:red}"},
	}

	paths, err := g.Generate(context.Background(), site)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if css := readFile(t, filepath.Join(paths.SitePath, StylesFile)); css != "body{color:red}" {
		t.Errorf("styles.css: got %q", css)
	}
}

func TestGenerateUnwritableRoot(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "sites")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	g, err := New(blocker)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = g.Generate(context.Background(), testSite(t, models.TemplateModern))
	if !errors.Is(err, ErrSitesUnavailable) {
		t.Errorf("expected ErrSitesUnavailable, got %v", err)
	}
}

func TestGenerateCanceledContext(t *testing.T) {
	g := testGenerator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Generate(ctx, testSite(t, models.TemplateModern)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(g.SiteDir(7)); !os.IsNotExist(err) {
		t.Error("no bundle should be written for a canceled request")
	}
}

func TestReadIndex(t *testing.T) {
	g := testGenerator(t)

	if _, ok := g.ReadIndex(""); ok {
		t.Error("empty path should not be a valid cache")
	}

	paths, err := g.Generate(context.Background(), testSite(t, models.TemplateModern))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	html, ok := g.ReadIndex(paths.IndexPath)
	if !ok || !strings.Contains(html, "Tienda Test") {
		t.Fatal("expected the generated index to be readable")
	}

	// A bundle missing one of its files is not trusted.
	if err := os.Remove(filepath.Join(paths.SitePath, StylesFile)); err != nil {
		t.Fatalf("remove styles: %v", err)
	}
	if _, ok := g.ReadIndex(paths.IndexPath); ok {
		t.Error("incomplete bundle should not be a valid cache")
	}
}

func TestFileAndRemove(t *testing.T) {
	g := testGenerator(t)
	if _, err := g.Generate(context.Background(), testSite(t, models.TemplateModern)); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, ok := g.File(7, StylesFile); !ok {
		t.Error("expected styles.css to be served")
	}
	if _, ok := g.File(7, "../../etc/passwd"); ok {
		t.Error("only bundle files should be served")
	}
	if _, ok := g.File(8, IndexFile); ok {
		t.Error("unknown store should have no files")
	}

	if err := g.Remove(7); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := g.File(7, IndexFile); ok {
		t.Error("bundle should be gone after Remove")
	}
	if err := g.Remove(7); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}

func TestExtractCSS(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		wantHTML string
		wantCSS  string
	}{
		{
			name:     "single block",
			html:     "<head><style>a{color:red}</style></head>",
			wantHTML: `<head><link rel="stylesheet" href="./styles.css"></head>`,
			wantCSS:  "a{color:red}",
		},
		{
			name:     "uppercase tag with attribute",
			html:     "<STYLE media=\"all\">\nb{}\n</STYLE><p>x</p>",
			wantHTML: `<link rel="stylesheet" href="./styles.css"><p>x</p>`,
			wantCSS:  "\nb{}\n",
		},
		{
			name:     "no block",
			html:     "<p>x</p>",
			wantHTML: "<p>x</p>",
			wantCSS:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			html, css := ExtractCSS(tc.html)
			if html != tc.wantHTML || css != tc.wantCSS {
				t.Errorf("ExtractCSS = %q, %q; want %q, %q", html, css, tc.wantHTML, tc.wantCSS)
			}
		})
	}
}

func TestExtractCSSMatchesGenerateCSS(t *testing.T) {
	registry := engine.NewRegistry(engine.Options{})
	store := &models.Store{ID: 1, Name: "Tienda"}
	theme := models.NewDefaultTheme(1)
	theme.AccentColor = "#ABCDEF"

	for _, s := range registry.All() {
		res, err := s.Render(store, theme, nil)
		if err != nil {
			t.Fatalf("%s Render: %v", s.Kind(), err)
		}
		if _, css := ExtractCSS(res.HTML); css != s.GenerateCSS(theme) {
			t.Errorf("%s: extracted CSS differs from GenerateCSS", s.Kind())
		}
	}
}

func TestInjectMetadataEscapesScript(t *testing.T) {
	meta := SiteMetadata{Title: "</script><script>alert(1)</script>"}

	html, err := InjectMetadata("<body></body>", meta)
	if err != nil {
		t.Fatalf("InjectMetadata: %v", err)
	}
	if strings.Contains(html, "</script><script>alert(1)") {
		t.Error("metadata payload was not escaped")
	}
	if !strings.HasSuffix(html, "</body>") {
		t.Error("closing body tag should stay last")
	}
}

func TestInjectMetadataWithoutBody(t *testing.T) {
	html, err := InjectMetadata("<p>fragment</p>", SiteMetadata{Title: "x"})
	if err != nil {
		t.Fatalf("InjectMetadata: %v", err)
	}
	if !strings.HasPrefix(html, "<p>fragment</p><script>") || !strings.Contains(html, `src="./app.js"`) {
		t.Errorf("expected snippet appended, got %q", html)
	}
}

func TestInjectMetadataMultibyteText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "dotted capital I", in: "<html><body><h1>İstanbul Moda</h1></body></html>", want: "<h1>İstanbul Moda</h1><script>"},
		{name: "kelvin sign", in: "<html><body><p>KKK</p></body></html>", want: "<p>KKK</p><script>"},
		{name: "uppercase tag", in: "<BODY><p>İ</p></BODY>", want: "<p>İ</p><script>"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			html, err := InjectMetadata(tc.in, SiteMetadata{Title: "x"})
			if err != nil {
				t.Fatalf("InjectMetadata: %v", err)
			}
			if !strings.Contains(html, tc.want) {
				t.Errorf("snippet not placed before closing body: %q", html)
			}
			if !strings.Contains(html, "</script>\n</") {
				t.Errorf("closing body tag should follow the include: %q", html)
			}
		})
	}
}

func TestGenerateMultibyteStoreName(t *testing.T) {
	g := testGenerator(t)
	site := testSite(t, models.TemplateModern)
	site.Store.Name = "İPEK Boutique"

	res, err := engine.NewRegistry(engine.Options{}).Template(models.TemplateModern).Render(site.Store, site.Theme, &engine.RenderData{
		Products: []models.Product{{ID: 1, Name: "Kilim Kelvin", SellPrice: 125000}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	site.Result = res

	paths, err := g.Generate(context.Background(), site)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	html := readFile(t, paths.IndexPath)

	if !strings.Contains(html, "<script src=\"./app.js\"></script>\n</body>") {
		t.Errorf("app.js include should sit right before </body>, tail: %q", html[max(0, len(html)-200):])
	}
	if strings.Count(html, "</footer>") != strings.Count(res.HTML, "</footer>") {
		t.Error("closing footer tags were split by the injected scripts")
	}
}
