package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jotunheim-mc/website/internal/config"
	"github.com/jotunheim-mc/website/internal/pages"
)

// staticHandler serves the embedded assets. The first matching cache rule
// sets Cache-Control; unmatched assets get no-cache.
func (s *Server) staticHandler() http.Handler {
	files := http.FileServer(http.FS(pages.Static()))
	rules := s.cfg.Assets.Cache

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		if name == "" || strings.HasSuffix(name, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", cacheControl(rules, name))
		files.ServeHTTP(w, r)
	})
}

func cacheControl(rules []config.CacheRule, name string) string {
	for _, rule := range rules {
		if ok, _ := doublestar.Match(rule.Pattern, name); ok {
			return fmt.Sprintf("public, max-age=%d", int(rule.MaxAge.Seconds()))
		}
	}
	return "no-cache"
}
