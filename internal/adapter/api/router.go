package api

import (
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"pbasc-assistant/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

type RouterOptions struct {
	AllowOrigins string
	SecretKey    string
	Version      string
	Env          string
	// AccessLog toggles fiber's request logger.
	AccessLog bool
}

func SetupRouter(app *fiber.App, handler *RelayHandler, opts RouterOptions) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	allowOrigins := opts.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	if opts.SecretKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{
			Key: cookieKey(opts.SecretKey),
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"version": opts.Version,
			"env":     opts.Env,
		})
	})

	// Page
	app.Get("/", handler.HandleIndex)
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:       http.FS(web.Static),
		PathPrefix: "static",
	}))

	// Relays
	app.Post("/submit_suggestion", handler.HandleSuggestion)
	app.Post("/chat_gemini", handler.HandleChat)
	app.Post("/generate_image", handler.HandleImage)
}

// cookieKey derives the 32-byte AES key encryptcookie expects from an
// arbitrary-length secret.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}
