package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"chartsurfer/internal/api"
	"chartsurfer/internal/config"
	"chartsurfer/internal/game"
	"chartsurfer/internal/store"
	"chartsurfer/internal/tui"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
)

func main() {
	root := &cobra.Command{
		Use:          "chartsurfer",
		Short:        "Arcade chart-trading game in your terminal",
		SilenceUsage: true,
	}

	root.AddCommand(
		newPlayCmd(),
		newHighScoresCmd(),
		newResetCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) config.Config {
	cfg := config.LoadFromEnv()
	if v, err := cmd.Flags().GetString("save"); err == nil && v != "" {
		cfg.SavePath = v
	}
	if v, err := cmd.Flags().GetString("observe"); err == nil && v != "" {
		cfg.ObserveAddr = v
	}
	if v, err := cmd.Flags().GetInt64("seed"); err == nil && v != 0 {
		cfg.Seed = v
	}
	if v, err := cmd.Flags().GetInt("fps"); err == nil && v > 0 {
		cfg.FPS = v
	}
	return cfg
}

func openStore(cfg config.Config) (*store.Store, error) {
	path := cfg.SavePath
	if path == "" {
		var err error
		if path, err = store.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return store.Open(path)
}

// newLogger returns a JSON logger writing to the configured file. The
// terminal belongs to the game while it runs, so stderr is not an option;
// without a file, logs are discarded.
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	if cfg.LogPath == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return log, func() { f.Close() }, nil
}

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start the game",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)

			log, closeLog, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			seed := cfg.Seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			rnd := rand.New(rand.NewSource(seed))
			session := game.NewSession(log, rnd, st)

			var holder *api.Holder
			if cfg.ObserveAddr != "" {
				holder = &api.Holder{}
				srv := api.New(log, holder, st)
				go func() {
					log.Info("observer listening", "addr", cfg.ObserveAddr)
					if err := http.ListenAndServe(cfg.ObserveAddr, srv.Handler()); err != nil {
						log.Error("observer stopped", "err", err)
					}
				}()
			}

			model := tui.NewModel(log, session, holder, cfg.FPS)
			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run game: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("save", "", "save file path (default ~/.chartsurfer/save.db)")
	cmd.Flags().String("observe", "", "serve a read-only observer API on this address")
	cmd.Flags().Int64("seed", 0, "fix the market seed for reproducible runs")
	cmd.Flags().Int("fps", 0, "frame rate (default 60)")
	return cmd
}

func newHighScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "highscores",
		Short: "Show the best runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			scores, err := st.TopScores(limit)
			if err != nil {
				return err
			}
			if len(scores) == 0 {
				warn.Println("No runs recorded yet. Play one!")
				return nil
			}

			accent.Printf("%-4s %16s %7s %7s  %s\n", "#", "FINAL ASSET", "STAGE", "LEVEL", "WHEN")
			for i, s := range scores {
				line := fmt.Sprintf("%-4d %16s %7d %7d  %s",
					i+1,
					game.FormatMoney(s.FinalAsset),
					s.Stage,
					s.Level,
					s.RecordedAt.Local().Format("2006-01-02 15:04"),
				)
				if i == 0 {
					success.Println(line)
				} else {
					fmt.Println(line)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("save", "", "save file path (default ~/.chartsurfer/save.db)")
	cmd.Flags().Int("limit", 10, "number of runs to show")
	return cmd
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe the save file (high score, progress, history)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("refusing to wipe without --yes")
			}
			if err := st.Reset(); err != nil {
				return err
			}
			success.Println("Save file wiped.")
			return nil
		},
	}
	cmd.Flags().String("save", "", "save file path (default ~/.chartsurfer/save.db)")
	cmd.Flags().Bool("yes", false, "confirm the wipe")
	return cmd
}
