package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/ayusman/airpuck/internal/app"
	"github.com/ayusman/airpuck/internal/capture"
	"github.com/ayusman/airpuck/internal/config"
	"github.com/ayusman/airpuck/internal/detector"
	"github.com/ayusman/airpuck/internal/plugin"
	"github.com/ayusman/airpuck/internal/server"
	"github.com/ayusman/airpuck/internal/sound"
	"github.com/ayusman/airpuck/internal/store"
	"github.com/ayusman/airpuck/internal/tray"
)

func main() {
	fmt.Println("Air Puck - Webcam Air Hockey")

	cfg := config.Load()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	table, err := config.EnsureTuning(cfg.TuningFile)
	if err != nil {
		log.Fatalf("Failed to load tuning: %v", err)
	}

	// Initialize the store
	st, err := store.New(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Plugins
	mgr := plugin.NewManager(cfg.PluginDir)
	if err := mgr.Discover(); err != nil {
		log.Printf("Failed to discover plugins: %v", err)
	}
	for _, p := range mgr.List() {
		fmt.Printf("Loaded plugin: %s %s\n", p.Manifest.Name, p.Manifest.Version)
	}
	hooks := plugin.NewHooks(mgr, plugin.NewExecutor(cfg.HookTimeout))

	// Sound, with the saved toggle winning over the environment
	player := sound.NewPlayer(soundSetting(st, cfg.Sound))
	if err := player.Initialize(); err != nil {
		log.Printf("Sound unavailable: %v", err)
	}
	defer player.Close()

	det := newDetector(cfg)

	game := app.New(app.Config{
		Table: table,
		Camera: capture.NewCamera(capture.Options{
			DeviceID: cfg.CameraID,
			Width:    cfg.FrameWidth,
			Height:   cfg.FrameHeight,
			FPS:      cfg.ActiveFPS,
			Mirror:   cfg.Mirror,
		}),
		Detector:     det,
		Store:        st,
		Hooks:        hooks,
		Sound:        player,
		Seed:         cfg.Seed,
		ActiveFPS:    cfg.ActiveFPS,
		IdleFPS:      cfg.IdleFPS,
		IdleTimeout:  cfg.IdleTimeout,
		MotionThresh: cfg.MotionThresh,
	})
	if err := game.Start(); err != nil {
		log.Fatalf("Failed to start camera: %v", err)
	}
	defer game.Stop()

	// Find web directory
	webDir := cfg.StaticDir
	if webDir == "" {
		webDir = findWebDir(cfg.DataDir)
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir:   webDir,
		Store:       st,
		Game:        game,
		LogRequests: cfg.LogRequests,
	})
	httpServer := srv.HTTPServer(cfg.Addr)

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if cfg.Headless {
		<-sigCh
	} else {
		t := newTray(cfg, st, game, player)
		go func() {
			<-sigCh
			t.Quit()
		}()
		t.Run()
	}

	fmt.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}

func newDetector(cfg *config.Config) detector.Detector {
	dc := detector.DefaultConfig()
	dc.DataDir = cfg.DataDir

	mp, err := detector.NewMediaPipeDetector(dc)
	if err != nil {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		return detector.NewMockDetector()
	}
	log.Println("Using MediaPipe hand detection")
	return mp
}

// newTray wires the menu to the game. The score line follows the match
// until the game stops.
func newTray(cfg *config.Config, st *store.Store, game *app.App, player *sound.Player) *tray.Tray {
	t := tray.New(player.Enabled())

	t.OnStart(func() { game.StartMatch() })
	t.OnReset(func() { game.ResetMatch() })
	t.OnSound(func(on bool) {
		player.SetEnabled(on)
		if err := st.Settings().Set(store.SettingSound, strconv.FormatBool(on)); err != nil {
			log.Printf("Failed to save sound setting: %v", err)
		}
	})
	t.OnOpen(func() {
		if err := openBrowser(browserURL(cfg.Addr)); err != nil {
			log.Printf("Failed to open browser: %v", err)
		}
	})

	states, _ := game.SubscribeState()
	go func() {
		for s := range states {
			t.SetSnapshot(s)
		}
	}()
	return t
}

func soundSetting(st *store.Store, fallback bool) bool {
	v, err := st.Settings().Get(store.SettingSound)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Failed to read sound setting: %v", err)
		}
		return fallback
	}
	on, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return on
}

func browserURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and dataDir/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	dataWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dataWebDir); err == nil && info.IsDir() {
		return dataWebDir
	}

	return ""
}
