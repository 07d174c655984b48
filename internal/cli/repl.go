// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/parley-tui/internal/assistant"
	authsvc "github.com/jeranaias/parley-tui/internal/auth"
	"github.com/jeranaias/parley-tui/internal/config"
	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/store"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	replyStyle = lipgloss.NewStyle().
			Foreground(styles.Purple)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)
)

// =============================================================================
// REPL
// =============================================================================

// REPL is the plain line-based chat session.
type REPL struct {
	line      *liner.State
	store     *store.Store
	responder *assistant.Responder
	verifier  *authsvc.Verifier
	out       io.Writer

	historyFile string
}

// NewREPL creates the plain REPL with input history support.
func NewREPL(st *store.Store, responder *assistant.Responder, verifier *authsvc.Verifier) *REPL {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	} else {
		config.EnsureConfigDir()
	}
	historyFile := filepath.Join(configDir, "repl_history")

	r := &REPL{
		line:        line,
		store:       st,
		responder:   responder,
		verifier:    verifier,
		out:         os.Stdout,
		historyFile: historyFile,
	}
	r.loadHistory()
	return r
}

func (r *REPL) loadHistory() {
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
}

func (r *REPL) saveHistory() {
	if f, err := os.Create(r.historyFile); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
}

// Close releases the terminal and saves input history.
func (r *REPL) Close() {
	r.saveHistory()
	r.line.Close()
}

func (r *REPL) printf(format string, a ...any) {
	fmt.Fprintf(r.out, format+"\n", a...)
}

// Run drives the session: login if needed, then the command loop.
// Returns nil on a clean /quit or EOF.
func (r *REPL) Run(ctx context.Context) error {
	r.printf("%s", welcomeStyle.Render("parley "+Version))

	if !r.store.IsAuthenticated() {
		if err := r.login(ctx); err != nil {
			return err
		}
	} else if u := r.store.User(); u != nil {
		r.printf("%s", infoStyle.Render("Signed in as "+u.Phone))
	}

	r.printf("%s", infoStyle.Render("Type /help for commands."))
	return r.loop(ctx)
}

// =============================================================================
// LOGIN
// =============================================================================

// login walks the phone and code prompts until authenticated.
func (r *REPL) login(ctx context.Context) error {
	for {
		phone, err := r.line.Prompt("Phone number: ")
		if err != nil {
			return replExit(err)
		}
		normalized := authsvc.NormalizePhone(phone)
		if err := authsvc.ValidatePhone(normalized); err != nil {
			r.printf("%s", errorStyle.Render(err.Error()))
			continue
		}

		r.printf("%s", infoStyle.Render("Sending code..."))
		if err := r.verifier.SendCode(ctx, "", normalized); err != nil {
			r.printf("%s", errorStyle.Render(err.Error()))
			continue
		}

		for {
			code, err := r.line.Prompt("Code (or 'resend', 'back'): ")
			if err != nil {
				return replExit(err)
			}
			switch strings.TrimSpace(code) {
			case "resend":
				if err := r.verifier.ResendCode(ctx); err != nil {
					r.printf("%s", warningStyle.Render(err.Error()))
				} else {
					r.printf("%s", infoStyle.Render("Code resent."))
				}
				continue
			case "back":
				r.verifier.Reset()
			default:
				if err := r.verifier.VerifyCode(ctx, strings.TrimSpace(code)); err != nil {
					r.printf("%s", errorStyle.Render(err.Error()))
					continue
				}
				r.store.SetUser(model.NewUser(normalized, ""))
				r.printf("%s", infoStyle.Render("Signed in."))
				return nil
			}
			break
		}
	}
}

// =============================================================================
// COMMAND LOOP
// =============================================================================

func (r *REPL) loop(ctx context.Context) error {
	for {
		input, err := r.line.Prompt(r.prompt())
		if err != nil {
			return replExit(err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			quit, err := r.runCommand(ctx, input)
			if err != nil {
				r.printf("%s", errorStyle.Render(err.Error()))
			}
			if quit {
				return nil
			}
			continue
		}

		r.send(ctx, input)
	}
}

func (r *REPL) prompt() string {
	if room := r.store.CurrentChatroom(); room != nil {
		return promptStyle.Render(room.Title+" > ")
	}
	return promptStyle.Render("> ")
}

// send appends the message and waits for the simulated reply.
func (r *REPL) send(ctx context.Context, text string) {
	room := r.store.CurrentChatroom()
	if room == nil {
		r.printf("%s", warningStyle.Render("No chat selected. Use /new <title> or /switch <n>."))
		return
	}

	if _, err := r.store.AddUserMessage(room.ID, text, ""); err != nil {
		r.printf("%s", errorStyle.Render(err.Error()))
		return
	}

	r.printf("%s", infoStyle.Render("Parley is typing..."))
	res := r.responder.Respond(ctx, room.ID, text)
	switch res.Outcome {
	case assistant.OutcomeDelivered:
		r.printf("%s", replyStyle.Render("Parley: "+res.Message.Text))
	case assistant.OutcomeDropped:
		r.printf("%s", warningStyle.Render("Reply discarded: chat was deleted."))
	case assistant.OutcomeCancelled:
		r.printf("%s", warningStyle.Render("Reply cancelled."))
	}
}

// runCommand executes a slash command. Returns true to quit.
func (r *REPL) runCommand(ctx context.Context, input string) (bool, error) {
	fields := strings.Fields(input)
	cmd := fields[0]
	rest := strings.TrimSpace(strings.TrimPrefix(input, cmd))

	switch cmd {
	case "/help", "/h":
		r.printHelp()

	case "/rooms", "/r":
		r.printRooms(r.store.Chatrooms(), "")

	case "/new", "/n":
		title := rest
		if title == "" {
			title = "New chat"
		}
		room := r.store.CreateChatroom(title)
		if err := r.store.SetCurrentChatroom(room.ID); err != nil {
			return false, err
		}
		r.printf("%s", infoStyle.Render("Created "+room.Title))

	case "/switch", "/s":
		rooms := r.store.Chatrooms()
		idx, err := parseRoomIndex(rest, len(rooms))
		if err != nil {
			return false, err
		}
		if err := r.store.SetCurrentChatroom(rooms[idx].ID); err != nil {
			return false, err
		}
		r.printf("%s", infoStyle.Render("Switched to "+rooms[idx].Title))
		r.printThread(rooms[idx])

	case "/delete", "/d":
		rooms := r.store.Chatrooms()
		idx, err := parseRoomIndex(rest, len(rooms))
		if err != nil {
			return false, err
		}
		target := rooms[idx]
		confirm, err := r.line.Prompt("Delete \"" + target.Title + "\"? [y/N] ")
		if err != nil {
			return true, nil
		}
		if strings.EqualFold(strings.TrimSpace(confirm), "y") {
			r.responder.CancelRoom(target.ID)
			r.store.DeleteChatroom(target.ID)
			r.printf("%s", infoStyle.Render("Deleted."))
		}

	case "/search":
		r.store.SetSearchQuery(rest)
		var matched []*model.Chatroom
		for _, room := range r.store.Chatrooms() {
			if rest == "" || room.MatchesQuery(rest) {
				matched = append(matched, room)
			}
		}
		r.printRooms(matched, rest)

	case "/dark":
		r.store.ToggleDarkMode()
		if r.store.IsDarkMode() {
			r.printf("%s", infoStyle.Render("Dark mode on."))
		} else {
			r.printf("%s", infoStyle.Render("Dark mode off."))
		}

	case "/logout":
		r.responder.CancelAll()
		r.store.Logout()
		r.printf("%s", infoStyle.Render("Signed out."))
		if err := r.login(ctx); err != nil {
			return true, nil
		}

	case "/quit", "/q":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
	return false, nil
}

func (r *REPL) printHelp() {
	r.printf("%s", infoStyle.Render(`Commands:
  /rooms              List chats (newest first)
  /new [title]        Create a chat and switch to it
  /switch <n>         Switch to chat number n
  /delete <n>         Delete chat number n
  /search <text>      Filter chats by title or last message
  /dark               Toggle dark mode
  /logout             Sign out (chats are kept)
  /quit               Exit`))
}

func (r *REPL) printRooms(rooms []*model.Chatroom, query string) {
	if len(rooms) == 0 {
		if query != "" {
			r.printf("%s", infoStyle.Render("No chats match."))
		} else {
			r.printf("%s", infoStyle.Render("No chats yet. /new <title> starts one."))
		}
		return
	}
	current := r.store.CurrentChatroomID()
	for i, room := range rooms {
		marker := " "
		if room.ID == current {
			marker = "*"
		}
		preview := room.Preview(48)
		if preview == "" {
			preview = "(empty)"
		}
		r.printf("%s %2d. %s  %s", marker, i+1, room.Title, infoStyle.Render(preview))
	}
}

func (r *REPL) printThread(room *model.Chatroom) {
	for _, msg := range room.Messages {
		text := msg.Text
		if msg.Image != "" {
			text = "[image] " + text
		}
		line := fmt.Sprintf("[%s] %s: %s", msg.Timestamp.Format("15:04"), msg.Sender(), text)
		if msg.IsUser {
			r.printf("%s", line)
		} else {
			r.printf("%s", replyStyle.Render(line))
		}
	}
}

// parseRoomIndex parses a 1-based room number.
func parseRoomIndex(s string, n int) (int, error) {
	if n == 0 {
		return 0, errors.New("no chats yet")
	}
	var idx int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &idx); err != nil {
		return 0, errors.New("expected a chat number (see /rooms)")
	}
	if idx < 1 || idx > n {
		return 0, fmt.Errorf("chat number must be 1-%d", n)
	}
	return idx - 1, nil
}

// replExit maps liner exits (Ctrl+C, Ctrl+D) to a clean shutdown.
func replExit(err error) error {
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
