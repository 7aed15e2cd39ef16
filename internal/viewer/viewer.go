// Package viewer shows a rendered comparison figure in a desktop window.
package viewer

import (
	"embed"
	"fmt"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/public
var assets embed.FS

// Options configures the viewer window.
type Options struct {
	Title   string
	Figure  []byte // PNG
	Summary []string
	Width   int
	Height  int
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	if len(opts.Figure) == 0 {
		return fmt.Errorf("viewer: no figure to display")
	}
	if opts.Width <= 0 {
		opts.Width = 1100
	}
	if opts.Height <= 0 {
		opts.Height = 900
	}
	app := NewApp(opts.Title, opts.Figure, opts.Summary)

	err := wails.Run(&options.App{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 255, G: 255, B: 255, A: 255},
		OnStartup:        app.Startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}
