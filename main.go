// parley TUI - A terminal chat client with a simulated companion.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley-tui/internal/assistant"
	authsvc "github.com/jeranaias/parley-tui/internal/auth"
	"github.com/jeranaias/parley-tui/internal/cli"
	"github.com/jeranaias/parley-tui/internal/config"
	"github.com/jeranaias/parley-tui/internal/countries"
	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/storage"
	"github.com/jeranaias/parley-tui/internal/store"
	authui "github.com/jeranaias/parley-tui/internal/ui/auth"
	"github.com/jeranaias/parley-tui/internal/ui/chat"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for store-observer sends
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	cli.Version = Version
}

func main() {
	args, err := cli.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n%s", err, cli.Usage())
		os.Exit(2)
	}

	switch {
	case args.ShowHelp:
		fmt.Print(cli.Usage())
	case args.ShowVersion:
		fmt.Printf("parley %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	case args.Plain:
		runPlain(args)
	default:
		runTUI(args)
	}
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// app bundles the wired services behind both frontends.
type app struct {
	store     *store.Store
	snapshots *storage.SnapshotStore
	responder *assistant.Responder
	verifier  *authsvc.Verifier
	lookup    *countries.Client

	// cfg is replaced wholesale by the config watcher goroutine.
	cfgMu sync.RWMutex
	cfg   *config.Config
}

func (a *app) config() *config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.cfg
}

func (a *app) setConfig(cfg *config.Config) {
	a.cfgMu.Lock()
	a.cfg = cfg
	a.cfgMu.Unlock()
}

// buildApp loads config, restores persisted state, and wires services.
func buildApp(args *cli.Args) (*app, error) {
	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	st := store.New()

	var snapshots *storage.SnapshotStore
	if cfg.Storage.StatePath != "" {
		snapshots = storage.NewSnapshotStoreWithPath(cfg.Storage.StatePath)
	} else {
		snapshots, err = storage.NewSnapshotStore()
		if err != nil {
			return nil, err
		}
	}

	// A corrupt state file starts a fresh session instead of refusing
	// to launch. A missing file is a normal first run.
	if record, loadErr := snapshots.Load(); loadErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: state file unreadable, starting fresh: %v\n", loadErr)
	} else if record != nil {
		st.Restore(record.ModelUser(), record.IsAuthenticated, record.IsDarkMode, record.ModelChatrooms())
	}

	pacer := assistant.NewPacerWithTiming(
		time.Duration(cfg.Assistant.BaseDelayMs)*time.Millisecond,
		time.Duration(cfg.Assistant.MinGapMs)*time.Millisecond,
		time.Duration(cfg.Assistant.JitterMs)*time.Millisecond,
	)

	verifierOpts := []authsvc.Option{
		authsvc.WithMode(authsvc.Mode(cfg.Auth.OTPMode)),
		authsvc.WithResendInterval(time.Duration(cfg.Auth.ResendIntervalSecs) * time.Second),
	}
	if cfg.Auth.TOTPSecret != "" {
		verifierOpts = append(verifierOpts, authsvc.WithTOTPSecret(cfg.Auth.TOTPSecret))
	}

	lookup := countries.NewClient()
	if cfg.Countries.Endpoint != "" {
		lookup = countries.NewClientWithURL(cfg.Countries.Endpoint)
	}

	return &app{
		cfg:       cfg,
		store:     st,
		snapshots: snapshots,
		responder: assistant.NewResponder(st, pacer),
		verifier:  authsvc.NewVerifier(verifierOpts...),
		lookup:    lookup,
	}, nil
}

// =============================================================================
// TUI MODE
// =============================================================================

func runTUI(args *cli.Args) {
	a, err := buildApp(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	mode := styles.ForDarkMode(styles.Mode(a.config().UI.Theme), a.store.IsDarkMode())
	theme := styles.NewThemeWithMode(mode)

	m := newRootModel(theme, a)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	// Persist every committed change and mirror snapshots into the
	// running program. Save failures surface as a status warning, not
	// a crash.
	a.store.Subscribe(func(snap store.Snapshot) {
		if err := a.snapshots.Save(snap); err != nil {
			send(chat.PersistFailedMsg{Err: err})
		}
		send(chat.StateChangedMsg{Snapshot: snap})
	})

	watcher := watchConfig(args, a)
	if watcher != nil {
		defer watcher.Close()
	}

	defer a.responder.CancelAll()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running parley: %v\n", err)
		os.Exit(1)
	}
}

// send delivers a message to the running program, if any.
func send(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// watchConfig hot-reloads UI theme changes from the config file.
// Returns nil when no config file exists to watch.
func watchConfig(args *cli.Args, a *app) *config.Watcher {
	path := args.ConfigPath
	if path == "" {
		tomlPath, err := config.ConfigPathTOML()
		if err != nil {
			return nil
		}
		if _, err := os.Stat(tomlPath); err != nil {
			return nil
		}
		path = tomlPath
	}

	watcher, err := config.NewWatcher(path,
		func(cfg *config.Config) {
			a.setConfig(cfg)
			mode := styles.ForDarkMode(styles.Mode(cfg.UI.Theme), a.store.IsDarkMode())
			styles.NewThemeWithMode(mode)
			send(chat.StateChangedMsg{Snapshot: a.store.Snapshot()})
		},
		func(err error) {
			send(chat.PersistFailedMsg{Err: fmt.Errorf("config reload: %w", err)})
		},
	)
	if err != nil {
		return nil
	}
	if err := watcher.Watch(); err != nil {
		watcher.Close()
		return nil
	}
	return watcher
}

// =============================================================================
// PLAIN MODE
// =============================================================================

func runPlain(args *cli.Args) {
	a, err := buildApp(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Plain mode persists synchronously on every change.
	a.store.Subscribe(func(snap store.Snapshot) {
		if err := a.snapshots.Save(snap); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save state: %v\n", err)
		}
	})

	repl := cli.NewREPL(a.store, a.responder, a.verifier)
	defer repl.Close()
	defer a.responder.CancelAll()

	if err := repl.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// appState represents the current top-level screen.
type appState int

const (
	stateAuth appState = iota // Phone and code login
	stateChat                 // Chat dashboard
)

// rootModel switches between the login screen and the dashboard.
type rootModel struct {
	state appState
	theme *styles.Theme
	app   *app

	width  int
	height int

	authModel *authui.Model
	chatModel *chat.Model
}

func newRootModel(theme *styles.Theme, a *app) *rootModel {
	m := &rootModel{
		theme: theme,
		app:   a,
		state: stateAuth,
	}
	if a.store.IsAuthenticated() {
		m.state = stateChat
	}
	m.authModel = authui.New(theme, a.verifier, a.lookup)
	m.chatModel = chat.New(theme, a.store, a.responder)
	m.chatModel.SetDebounce(time.Duration(a.config().UI.SearchDebounceMs) * time.Millisecond)
	return m
}

func (m *rootModel) Init() tea.Cmd {
	if m.state == stateChat {
		return m.chatModel.Init()
	}
	return m.authModel.Init()
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.authModel.SetSize(msg.Width, msg.Height)
		m.chatModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case authui.AuthenticatedMsg:
		m.app.store.SetUser(model.NewUser(msg.Phone, msg.CountryCode))
		m.state = stateChat
		return m, m.chatModel.Init()

	case chat.LoggedOutMsg:
		m.app.verifier.Reset()
		m.authModel = authui.New(m.theme, m.app.verifier, m.app.lookup)
		m.authModel.SetSize(m.width, m.height)
		m.state = stateAuth
		return m, m.authModel.Init()

	case chat.StateChangedMsg:
		// The dark-mode toggle lands here as a snapshot change; flip
		// the adaptive color resolution before the dashboard re-renders.
		lipgloss.SetHasDarkBackground(resolveDark(m.app.config(), msg.Snapshot.IsDarkMode))
	}

	var cmd tea.Cmd
	switch m.state {
	case stateAuth:
		m.authModel, cmd = m.authModel.Update(msg)
	case stateChat:
		m.chatModel, cmd = m.chatModel.Update(msg)
	}
	return m, cmd
}

func (m *rootModel) View() string {
	if m.state == stateAuth {
		return m.authModel.View()
	}
	return m.chatModel.View()
}

// resolveDark maps the configured theme plus the persisted flag onto
// the terminal background assumption.
func resolveDark(cfg *config.Config, isDark bool) bool {
	return styles.ForDarkMode(styles.Mode(cfg.UI.Theme), isDark) == styles.ModeDark
}
