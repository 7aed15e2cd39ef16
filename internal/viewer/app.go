package viewer

import (
	"context"
	"encoding/base64"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// App is bound to the frontend; its exported methods are callable from JS.
type App struct {
	ctx     context.Context
	title   string
	figure  []byte
	summary []string
}

// NewApp creates the application state shown by the window.
func NewApp(title string, figurePNG []byte, summary []string) *App {
	return &App{
		title:   title,
		figure:  figurePNG,
		summary: append([]string(nil), summary...),
	}
}

// Startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	runtime.WindowSetTitle(a.ctx, a.title)
}

// Title returns the window title.
func (a *App) Title() string {
	return a.title
}

// Figure returns the comparison figure as a data URL for an <img> element.
func (a *App) Figure() string {
	if len(a.figure) == 0 {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(a.figure)
}

// Summary returns the per-method statistics lines shown under the figure.
func (a *App) Summary() []string {
	return append([]string(nil), a.summary...)
}
