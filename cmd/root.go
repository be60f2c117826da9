package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/KaiqueGovani/tetrion/internal/audio"
	"github.com/KaiqueGovani/tetrion/internal/config"
	"github.com/KaiqueGovani/tetrion/internal/debuglog"
	"github.com/KaiqueGovani/tetrion/internal/tui"
)

var (
	debug     bool
	seed      uint64
	generator string
	scoring   string
	noSound   bool
	musicFile string
)

var rootCmd = &cobra.Command{
	Use:   "tetrion",
	Short: "Falling-block puzzle for the terminal",
	Long: `Play a falling-block puzzle in the terminal.

Settings are read from the user config directory, then .env, then
TETRION_* environment variables. Flags override all of them.

Examples:
  tetrion
  tetrion --generator bag --scoring accumulate
  tetrion --music ~/music/theme.mp3`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debuglog.Enable(debug)
	},
	RunE: runPlay,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write a debug log to "+debuglog.Path())
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Piece generator seed (0 picks one from the clock)")
	rootCmd.PersistentFlags().StringVar(&generator, "generator", "", "Piece generator: uniform or bag")
	rootCmd.PersistentFlags().StringVar(&scoring, "scoring", "", "Scoring mode: set or accumulate")

	rootCmd.Flags().BoolVar(&noSound, "no-sound", false, "Disable sound effects")
	rootCmd.Flags().StringVar(&musicFile, "music", "", "Loop this mp3 file as background music")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the stored settings and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("generator") {
		cfg.Generator = generator
	}
	if flags.Changed("scoring") {
		cfg.Scoring = scoring
	}
	if flags.Changed("no-sound") {
		cfg.Sound = !noSound
	}
	if flags.Changed("music") {
		cfg.MusicFile = musicFile
		cfg.Music = musicFile != ""
	}
	return cfg, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	debuglog.Logf("tetrion start debug=%v generator=%s scoring=%s", debug, cfg.Generator, cfg.Scoring)

	ctx, sampleRate, err := audio.Open(cfg.MusicFile)
	if err != nil {
		debuglog.Logf("audio disabled: %v", err)
	}
	sound := audio.NewSoundEngine(ctx, sampleRate, cfg.Sound, cfg.Volume)
	music := audio.NewMusicPlayer(ctx, cfg.MusicFile, cfg.Volume)
	defer music.Stop()

	model, err := tui.New(tui.Options{
		Config: cfg,
		Sound:  sound,
		Music:  music,
		Save:   config.Save,
	})
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		debuglog.Logf("program error: %v", err)
		return err
	}
	return nil
}
