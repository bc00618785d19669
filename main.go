package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/user"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/term"

	"face-lock/internal/config"
	"face-lock/internal/face"
	"face-lock/internal/fprint"
	"face-lock/internal/lock"
	"face-lock/internal/locker"
	"face-lock/internal/session"
	"face-lock/internal/xdg"
)

// Usage:
//   face-lock               # lock the terminal (default)
//   face-lock run           # lock the terminal explicitly
//   face-lock passwd set    # set or replace the password credential
//   face-lock passwd remove # remove the password credential
//   face-lock sessions      # list launchable desktop sessions
//   face-lock status        # show credential and lock status

func main() {
	if err := run(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return buildCLI().ParseAndRun(context.Background(), os.Args[1:])
}

type runConfig struct {
	ConfigPath string
	Session    string
}

func execRun(cfg runConfig) error {
	conf := config.Load()
	if cfg.ConfigPath != "" {
		conf = config.LoadFile(cfg.ConfigPath)
	}
	username := currentUsername()

	// No session to launch means no unlock could ever hand off to a
	// usable desktop. Fail now, before the screen is taken over.
	sessions := session.Discover()
	if len(sessions) == 0 {
		return errors.New("no launchable desktop sessions found")
	}
	if cfg.Session != "" {
		if _, err := session.Find(sessions, cfg.Session); err != nil {
			return err
		}
		conf.DefaultSession = cfg.Session
	}

	logger := openLogger()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	// Fini is idempotent; the defer covers every abnormal exit path so
	// the terminal is usable again before any message prints.
	defer screen.Fini()

	if err := lock.MarkLocked(); err != nil {
		logger.Warn("recording lock state", "error", err)
	}
	defer lock.MarkUnlocked()

	controller := locker.New(screen, conf, sessions, username, logger)
	res, chosen, err := controller.Run(context.Background())
	controller.Close()
	if err != nil {
		return err
	}

	screen.Fini()

	fmt.Printf("Authenticated via %s. Launching: %s...\n", res.Method, chosen.Key)
	logger.Info("session launch", "method", res.Method, "identity", res.Identity, "session", chosen.Key)
	return session.Launch(chosen)
}

// currentUsername resolves the identity reported on unlock.
func currentUsername() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}

// openLogger writes diagnostics to the runtime-dir log file; the terminal
// belongs to the lock screen while it runs. Falls back to a discarding
// logger rather than failing the lock.
func openLogger() *slog.Logger {
	path, err := xdg.LogFile()
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(f, nil))
}

func execPasswdSet() error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("stdin is not a terminal")
	}

	if lock.PasswordExists() {
		fmt.Println("Replacing the existing password.")
	}

	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	defer lock.ClearBytes(password)
	if len(password) == 0 {
		return errors.New("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading confirmation: %w", err)
	}
	defer lock.ClearBytes(confirm)

	if subtle.ConstantTimeCompare(password, confirm) != 1 {
		return errors.New("passwords do not match")
	}

	if err := lock.SavePassword(password); err != nil {
		return fmt.Errorf("saving password: %w", err)
	}

	fmt.Println("Password set successfully.")
	return nil
}

func execPasswdRemove() error {
	if !lock.PasswordExists() {
		fmt.Println("No password configured.")
		return nil
	}
	if err := lock.RemovePassword(); err != nil {
		return err
	}
	fmt.Println("Password removed.")
	return nil
}

func execSessions() error {
	sessions := session.Discover()
	if len(sessions) == 0 {
		fmt.Println("No launchable desktop sessions found.")
		return nil
	}
	for _, s := range sessions {
		fmt.Printf("%-16s %s\n", s.Key, s.Command)
	}
	return nil
}

func execStatus() error {
	if lock.PasswordExists() {
		fmt.Println("Password: configured")
	} else {
		fmt.Println("Password: not configured")
	}

	if db, err := face.LoadDB(); err == nil {
		names := db.Names()
		if len(names) == 0 {
			fmt.Println("Faces: none enrolled")
		} else {
			fmt.Printf("Faces: %d enrolled (%d references)\n", len(names), db.Len())
		}
	}

	if fprint.Available() {
		fmt.Println("Fingerprint: daemon available")
	} else {
		fmt.Println("Fingerprint: not available")
	}

	if lock.IsLocked() {
		if duration, err := lock.LockDuration(); err == nil {
			fmt.Printf("Status: locked (for %s)\n", duration.Round(time.Second))
		} else {
			fmt.Println("Status: locked")
		}
	} else {
		fmt.Println("Status: unlocked")
	}

	return nil
}

func buildCLI() *ffcli.Command {
	ffOptions := []ff.Option{ff.WithEnvVarPrefix("FACE_LOCK")}

	runFlagSet := flag.NewFlagSet("face-lock run", flag.ExitOnError)
	runConfigPath := runFlagSet.String("config", "", "Path to config file (defaults to the XDG config dir)")
	runSession := runFlagSet.String("session", "", "Session key to preselect (overrides the configured default)")

	runCmd := &ffcli.Command{
		Name:       "run",
		ShortUsage: "face-lock run [flags]",
		ShortHelp:  "Lock the terminal until a factor authenticates",
		FlagSet:    runFlagSet,
		Options:    ffOptions,
		Exec: func(_ context.Context, _ []string) error {
			return execRun(runConfig{ConfigPath: *runConfigPath, Session: *runSession})
		},
	}

	passwdSetCmd := &ffcli.Command{
		Name:       "set",
		ShortUsage: "face-lock passwd set",
		ShortHelp:  "Set or replace the password credential",
		Exec:       func(_ context.Context, _ []string) error { return execPasswdSet() },
	}

	passwdRemoveCmd := &ffcli.Command{
		Name:       "remove",
		ShortUsage: "face-lock passwd remove",
		ShortHelp:  "Remove the password credential",
		Exec:       func(_ context.Context, _ []string) error { return execPasswdRemove() },
	}

	passwdCmd := &ffcli.Command{
		Name:        "passwd",
		ShortUsage:  "face-lock passwd <set|remove>",
		ShortHelp:   "Manage the password credential",
		Subcommands: []*ffcli.Command{passwdSetCmd, passwdRemoveCmd},
		Exec: func(_ context.Context, _ []string) error {
			return flag.ErrHelp
		},
	}

	sessionsCmd := &ffcli.Command{
		Name:       "sessions",
		ShortUsage: "face-lock sessions",
		ShortHelp:  "List launchable desktop sessions",
		Exec:       func(_ context.Context, _ []string) error { return execSessions() },
	}

	statusCmd := &ffcli.Command{
		Name:       "status",
		ShortUsage: "face-lock status",
		ShortHelp:  "Show credential and lock status",
		Exec:       func(_ context.Context, _ []string) error { return execStatus() },
	}

	rootFlagSet := flag.NewFlagSet("face-lock", flag.ExitOnError)
	rootConfigPath := rootFlagSet.String("config", "", "Path to config file (defaults to the XDG config dir)")
	rootSession := rootFlagSet.String("session", "", "Session key to preselect (overrides the configured default)")

	return &ffcli.Command{
		ShortUsage:  "face-lock [flags] <subcommand>",
		ShortHelp:   "Lock the terminal behind face, fingerprint, or password authentication",
		LongHelp:    "Controls:\n  ←/→    Change the session to launch\n  Space  Open the password panel\n  Esc    Back to the clock\n  Enter  Submit password",
		FlagSet:     rootFlagSet,
		Options:     ffOptions,
		Subcommands: []*ffcli.Command{runCmd, passwdCmd, sessionsCmd, statusCmd},
		Exec: func(_ context.Context, _ []string) error {
			return execRun(runConfig{ConfigPath: *rootConfigPath, Session: *rootSession})
		},
	}
}
