// Command tui plays Mahjong Connect in the terminal.
//
// The board is drawn with one letter per tile; the legend beside it maps letters to
// identities. Move the cursor with the arrow keys or hjkl, select with space or Enter,
// press ? for a hint, c to drop the pending pick, n for a new board and q to quit.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mahjong-connect/game/config"
	"github.com/wricardo/mahjong-connect/game/engine"
)

func main() {
	cmd := &cli.Command{
		Name:  "tui",
		Usage: "Play Mahjong Connect in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing board presets", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.StringFlag{Name: "preset", Usage: "Preset to deal (default preset when empty)"},
			&cli.Uint64Flag{Name: "seed", Usage: "Deal a reproducible board"},
			&cli.BoolFlag{Name: "mute", Usage: "Disable sound"},
			&cli.StringFlag{Name: "log-file", Usage: "Write logs to this file instead of discarding them"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	// the screen owns the terminal, so logs go to a file or nowhere
	log.SetOutput(io.Discard)
	if path := cmd.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg, err := loadPreset(cmd.String("config-dir"), cmd.String("preset"))
	if err != nil {
		return err
	}
	if seed := cmd.Uint64("seed"); seed != 0 {
		cfg.Seed = seed
	}

	eng, err := engine.NewEngine(cfg)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	var sound Sound = mutedSound{}
	if !cmd.Bool("mute") {
		if s, err := newSpeakerSound(); err != nil {
			// non-fatal, the game runs without sound
			log.WithError(err).Warn("Audio initialization failed")
		} else {
			sound = s
		}
	}
	defer sound.Close()

	NewGame(screen, eng, sound).run()
	return nil
}

// loadPreset reads a preset from dir. An empty name picks the directory default, and a
// missing directory falls back to the built-in board.
func loadPreset(dir, name string) (*engine.BoardConfig, error) {
	manager, err := config.NewManager(dir)
	if err != nil {
		if name != "" {
			return nil, err
		}
		log.WithError(err).Warn("Using the built-in board")
		return engine.DefaultBoardConfig(), nil
	}

	if name == "" {
		cfg := *manager.GetDefault()
		return &cfg, nil
	}
	cfg, err := manager.LoadConfig(name)
	if err != nil {
		return nil, err
	}
	copied := *cfg
	return &copied, nil
}
