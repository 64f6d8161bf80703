package configs

import (
	"net/http"
	"strings"
	"time"

	"etkinlik.link/views"

	"github.com/gofiber/template/html/v2"
)

// SetupViews gömülü şablonlardan html motorunu oluşturur.
// Aynı motor hem fiber view'ları hem de e-posta gövdeleri için kullanılır.
func SetupViews(appName, appURL string) *html.Engine {
	engine := html.NewFileSystem(http.FS(views.FS), ".html")
	engine.AddFunc("formatDate", func(t time.Time) string {
		return t.Format("January 2, 2006, 3:04 pm")
	})
	engine.AddFunc("appName", func() string { return appName })
	engine.AddFunc("appURL", func() string { return strings.TrimRight(appURL, "/") })
	engine.AddFunc("deref", func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	})
	return engine
}
