package api

import (
	"fmt"
	"net/http"
	"pbasc-assistant/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

const indexTemplate = "index"

// NewViews parses the embedded page templates. A missing index template is
// reported here so the process fails at boot rather than per request.
func NewViews() (*html.Engine, error) {
	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("open templates: %w", err)
	}

	engine := html.NewFileSystem(http.FS(templates), ".html")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	if engine.Templates.Lookup(indexTemplate) == nil {
		return nil, fmt.Errorf("template %q not found", indexTemplate)
	}
	return engine, nil
}

// NewServer builds the fiber app with every route registered.
func NewServer(handler *RelayHandler, opts RouterOptions) (*fiber.App, error) {
	views, err := NewViews()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "PBASC Assistant",
		Views:                 views,
		DisableStartupMessage: true,
	})

	SetupRouter(app, handler, opts)
	return app, nil
}
