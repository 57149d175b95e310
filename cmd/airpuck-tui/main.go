package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/airpuck/internal/config"
	"github.com/ayusman/airpuck/internal/hockey"
	"github.com/ayusman/airpuck/internal/sound"
	"github.com/ayusman/airpuck/internal/tui"
)

func main() {
	cfg := config.Load()

	table, err := config.EnsureTuning(cfg.TuningFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load tuning: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to tcell from here on.
	if f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	match := hockey.NewMatch(table, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))

	player := sound.NewPlayer(cfg.Sound)
	if err := player.Initialize(); err != nil {
		// Non-fatal, game can run without sound
		log.Printf("Audio initialization failed: %v", err)
	}
	defer player.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	tui.New(screen, match, player).Run(cfg.ActiveFPS)
}
