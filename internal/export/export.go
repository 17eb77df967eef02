// Package export renders every view and asset of the site into a directory
// that any static file host can serve. Exported pages carry no live session;
// their forms post back to the running site at the configured base URL.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jotunheim-mc/website/internal/config"
	"github.com/jotunheim-mc/website/internal/pages"
	"github.com/jotunheim-mc/website/internal/progress"
)

// Options configures an export.
type Options struct {
	OutDir   string
	Config   *config.Config
	Renderer *pages.Renderer
	Reporter progress.Reporter
}

// Result counts what was written.
type Result struct {
	Pages  int
	Assets int
}

type job struct {
	name string
	run  func() error
}

// Run writes the export to opts.OutDir, creating it if needed.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Reporter == nil {
		opts.Reporter = progress.Nop{}
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output directory: %w", err)
	}

	var (
		res  Result
		jobs []job
	)

	for _, v := range append(pages.All(), pages.NotFound) {
		v := v
		rel := pagePath(v)
		jobs = append(jobs, job{name: rel, run: func() error {
			if err := writePage(opts, v, rel); err != nil {
				return err
			}
			res.Pages++
			return nil
		}})
	}

	static := pages.Static()
	err := fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel := filepath.Join("static", filepath.FromSlash(path))
		jobs = append(jobs, job{name: rel, run: func() error {
			data, err := fs.ReadFile(static, path)
			if err != nil {
				return fmt.Errorf("reading asset %s: %w", path, err)
			}
			if err := writeFile(opts.OutDir, rel, data); err != nil {
				return err
			}
			res.Assets++
			return nil
		}})
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("listing static assets: %w", err)
	}

	jobs = append(jobs,
		job{name: "sitemap.xml", run: func() error {
			data, err := pages.Sitemap(opts.Config.BaseURL)
			if err != nil {
				return err
			}
			return writeFile(opts.OutDir, "sitemap.xml", data)
		}},
		job{name: "robots.txt", run: func() error {
			return writeFile(opts.OutDir, "robots.txt", pages.Robots(opts.Config.BaseURL))
		}},
	)

	opts.Reporter.Start(len(jobs))
	defer opts.Reporter.Finish()
	for i, j := range jobs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := j.run(); err != nil {
			return res, fmt.Errorf("exporting %s: %w", j.name, err)
		}
		opts.Reporter.Update(i+1, j.name)
	}
	return res, nil
}

// pagePath maps a view to its file: / is index.html, /regler is
// regler/index.html and the not-found view is 404.html.
func pagePath(v pages.View) string {
	if v.Name == pages.NotFound.Name {
		return "404.html"
	}
	if v.Path == "/" {
		return "index.html"
	}
	return filepath.Join(filepath.FromSlash(strings.TrimPrefix(v.Path, "/")), "index.html")
}

func writePage(opts Options, v pages.View, rel string) error {
	d := opts.Renderer.NewData(v, v.Path, nil)
	d.Live = false

	var buf bytes.Buffer
	if err := opts.Renderer.Render(&buf, d); err != nil {
		return err
	}
	html, err := rewriteFormActions(buf.Bytes(), opts.Config.BaseURL)
	if err != nil {
		return err
	}
	return writeFile(opts.OutDir, rel, html)
}

// rewriteFormActions points root-relative form actions at baseURL and drops
// the live-session hooks, which have nothing to talk to in an export.
func rewriteFormActions(page []byte, baseURL string) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing rendered page: %w", err)
	}
	base := strings.TrimSuffix(baseURL, "/")
	doc.Find("form[action]").Each(func(_ int, s *goquery.Selection) {
		if action, _ := s.Attr("action"); strings.HasPrefix(action, "/") {
			s.SetAttr("action", base+action)
		}
		s.RemoveAttr("data-live-form")
	})
	doc.Find("[data-live]").RemoveAttr("data-live")

	out, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("serialising page: %w", err)
	}
	return []byte(out), nil
}

func writeFile(root, rel string, data []byte) error {
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}
