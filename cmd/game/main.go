// runedelve is a turn-based dungeon crawler.
//
// Usage:
//
//	runedelve [seed]
//
// The optional positional argument is a 64-bit campaign seed; every random
// outcome of a playthrough derives from it.  Without one, a fresh random
// seed is generated.
package main

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/thornevale/runedelve/internal/game"
	"github.com/thornevale/runedelve/internal/gridview"
	"github.com/thornevale/runedelve/pkg/logger"
)

var flagTileset string

var rootCmd = &cobra.Command{
	Use:   "runedelve [seed]",
	Short: "Runedelve - a turn-based dungeon crawler",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := pickSeed(args)
		if err != nil {
			return err
		}
		return run(seed)
	},
}

func main() {
	logger.Init()
	rootCmd.Flags().StringVar(&flagTileset, "tileset", "", "path to a CP437 tileset image (built-in font when empty)")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func pickSeed(args []string) (uint64, error) {
	if len(args) == 1 {
		seed, err := strconv.ParseUint(args[0], 0, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid campaign seed %q: %w", args[0], err)
		}
		return seed, nil
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("generate campaign seed: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// optionsPath resolves the options file next to the running binary.
func optionsPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "options.yaml"
	}
	return filepath.Join(filepath.Dir(exe), "options.yaml")
}

func run(seed uint64) error {
	opts, err := game.LoadOptions(optionsPath())
	if err != nil {
		logger.Log.WithError(err).Warn("falling back to default options")
	}

	var tilesets []*gridview.Tileset[game.GameSym]
	if flagTileset != "" {
		ts, err := gridview.NewTileset(gridview.TilesetInfo[game.GameSym]{
			ImagePath: flagTileset,
			TileW:     8,
			TileH:     8,
			FontMap:   gridview.MapCodePage437(),
		})
		if err != nil {
			return err
		}
		tilesets = append(tilesets, ts)
	}
	font, err := gridview.NewBuiltinFontTileset[game.GameSym](8, 14)
	if err != nil {
		return err
	}
	tilesets = append(tilesets, font)
	opts.Font = len(tilesets) - 1

	logger.Log.WithField("seed", seed).Info("starting campaign")

	g := game.New(seed, opts, tilesets)

	ebiten.SetWindowTitle("Runedelve")
	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	return nil
}
