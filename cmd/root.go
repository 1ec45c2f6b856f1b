// Package cmd implements the command-line interface for marquee.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/marquee-cli/marquee/color"
	"github.com/marquee-cli/marquee/config"
	"github.com/marquee-cli/marquee/constant"
	"github.com/marquee-cli/marquee/icon"
	"github.com/marquee-cli/marquee/key"
	"github.com/marquee-cli/marquee/log"
	"github.com/marquee-cli/marquee/playback"
	"github.com/marquee-cli/marquee/player"
	"github.com/marquee-cli/marquee/style"
	"github.com/marquee-cli/marquee/tui"
	"github.com/marquee-cli/marquee/util"
	"github.com/marquee-cli/marquee/version"
	"github.com/marquee-cli/marquee/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Persist playback progress to the localized watch history")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.Flags().StringP("title", "t", "", "Title shown by the player")
	rootCmd.Flags().String("poster", "", "Poster image URL")
	rootCmd.Flags().Float64P("runtime", "r", 0, "Runtime in minutes. Overrides the length reported by the player")
	rootCmd.Flags().StringP("quality", "q", "", "Quality to start with, fuzzy matched against player.qualities")
	rootCmd.Flags().BoolP("paused", "p", false, "Open the player without starting playback")

	rootCmd.Flags().StringP("backend", "b", "", "Player backend")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("backend", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return player.Backends(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PlayerBackend, rootCmd.Flags().Lookup("backend")))

	rootCmd.Flags().Bool("touch", false, "Treat input as touch")
	lo.Must0(viper.BindPFlag(key.PlayerTouch, rootCmd.Flags().Lookup("touch")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Sweep transient files left by earlier runs. Player sockets live elsewhere.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the marquee application.
var rootCmd = &cobra.Command{
	Use:   constant.Marquee + " [url]",
	Short: "A terminal media player with a controller that keeps time honest",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A terminal media player with a controller that keeps time honest"),
	Args: cobra.MaximumNArgs(1),
	Example: strings.Join([]string{
		"  " + constant.Marquee + " https://example.com/movie.mp4 --title \"Movie\"",
		"  " + constant.Marquee + " https://example.com/stream --runtime 94 --quality 720",
	}, "\n"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		handleErr(play(cmd, args[0]))
	},
}

// play opens url in the configured backend and runs the player screen.
func play(cmd *cobra.Command, url string) error {
	src := playback.Source{
		URL:    url,
		Title:  lo.Must(cmd.Flags().GetString("title")),
		Poster: lo.Must(cmd.Flags().GetString("poster")),
	}

	if cmd.Flags().Changed("runtime") {
		minutes := lo.Must(cmd.Flags().GetFloat64("runtime"))
		if minutes <= 0 {
			return fmt.Errorf("runtime must be positive, got %v", minutes)
		}
		src.Runtime = mo.Some(minutes)
	}

	backend := viper.GetString(key.PlayerBackend)
	switch backend {
	case player.BackendMPV:
		CheckDependencies()
	case player.BackendHeadless:
		// Nothing reports a length without a real player.
		if src.Runtime.IsAbsent() {
			return fmt.Errorf("the %s backend needs --runtime", player.BackendHeadless)
		}
	}

	opts, err := config.PlayerOptions()
	if err != nil {
		return err
	}

	if query := lo.Must(cmd.Flags().GetString("quality")); query != "" {
		quality, err := playback.MatchQuality(query, opts.Qualities)
		if err != nil {
			return err
		}
		opts.Quality = quality
	}

	element, err := player.New(backend)
	if err != nil {
		return err
	}

	log.Infof("playing %s with %s", url, backend)

	return tui.Run(&tui.Options{
		Source:       src,
		Element:      element,
		Playback:     opts,
		Touch:        viper.GetBool(key.PlayerTouch),
		CompactWidth: viper.GetInt(key.TUICompactWidth),
		SaveHistory:  viper.GetBool(key.HistorySave),
		Autoplay:     !lo.Must(cmd.Flags().GetBool("paused")),
	})
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
