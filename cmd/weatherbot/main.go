package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/FrontRowWithJ/WeatherBot/internal/api/http"
	"github.com/FrontRowWithJ/WeatherBot/internal/bot"
	"github.com/FrontRowWithJ/WeatherBot/internal/config"
	"github.com/FrontRowWithJ/WeatherBot/internal/render"
	"github.com/FrontRowWithJ/WeatherBot/internal/scheduler"
	"github.com/FrontRowWithJ/WeatherBot/internal/store"
	"github.com/FrontRowWithJ/WeatherBot/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	openWeather := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey)
	icons := render.NewIconCache(providers.NewIconClient(httpClient))
	renderer := render.NewRenderer(icons)

	// Interaction state: in-process store, or stateless round-tripping
	// through the posted message itself.
	var states *store.MemoryStore
	if cfg.StateMode == config.StateModeMemory {
		states = store.NewMemoryStore()
	}

	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		log.Fatalf("failed to create discord session: %v", err)
	}
	session.Identify.Intents = bot.Intents()

	weatherBot := bot.New(bot.Options{
		Platform:  bot.NewDiscordPlatform(session),
		Geocoder:  openWeather,
		Forecasts: openWeather,
		Renderer:  renderer,
		Icons:     icons,
		States:    states,
	})
	bot.AttachHandlers(session, weatherBot)

	if err := session.Open(); err != nil {
		log.Fatalf("failed to open discord gateway: %v", err)
	}
	defer session.Close()

	// Janitor sweeping expired interaction state (memory mode only).
	if states != nil {
		janitor := scheduler.New(states, cfg.SweepInterval)
		if err := janitor.Start(); err != nil {
			log.Fatalf("failed to start janitor: %v", err)
		}
		defer janitor.Stop()
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weatherbot",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weatherbot",
		})
	})

	httpapi.RegisterRoutes(app, weatherBot, time.Now())

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	log.Printf("weatherbot is running in %s state mode", cfg.StateMode)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
