// Package ui provides the optional system tray: a glanceable session and
// render status plus a quit entry. It is skipped entirely in headless mode.
package ui

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"
)

type Tray struct {
	logger *slog.Logger

	statusItem   *systray.MenuItem
	sessionsItem *systray.MenuItem
	renderItem   *systray.MenuItem

	mu sync.Mutex

	onQuit func()
}

type TrayConfig struct {
	Logger *slog.Logger
	OnQuit func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		logger: cfg.Logger,
		onQuit: cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Framewright")
	systray.SetTooltip("Framewright Editor")

	t.statusItem = systray.AddMenuItem("Status: Idle", "Current editor status")
	t.statusItem.Disable()

	t.sessionsItem = systray.AddMenuItem("Sessions: 0", "Open editing sessions")
	t.sessionsItem.Disable()

	t.renderItem = systray.AddMenuItem("Render: none", "Latest render state")
	t.renderItem.Disable()

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Framewright Editor")

	go func() {
		for range quitItem.ClickedCh {
			t.logger.Info("quit requested from tray")
			if t.onQuit != nil {
				t.onQuit()
			}
			systray.Quit()
			return
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) UpdateStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statusItem.SetTitle("Status: " + status)
}

func (t *Tray) UpdateSessionCount(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessionsItem.SetTitle(fmt.Sprintf("Sessions: %d", count))
}

func (t *Tray) UpdateRenderState(state string, progress float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if state == "" {
		t.renderItem.SetTitle("Render: none")
		return
	}
	t.renderItem.SetTitle(fmt.Sprintf("Render: %s (%.0f%%)", state, progress*100))
}

func (t *Tray) Quit() {
	systray.Quit()
}
