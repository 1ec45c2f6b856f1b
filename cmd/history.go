// Package cmd implements the command-line interface for marquee.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/invopop/jsonschema"
	"github.com/marquee-cli/marquee/color"
	"github.com/marquee-cli/marquee/history"
	"github.com/marquee-cli/marquee/icon"
	"github.com/marquee-cli/marquee/style"
	"github.com/marquee-cli/marquee/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	historyCmd.Flags().Bool("schema", false, "Print the JSON Schema of history entries")
	historyCmd.Flags().Bool("clear", false, "Remove every history entry")
	historyCmd.Flags().StringP("remove", "r", "", "Remove the entry for a URL")
	historyCmd.MarkFlagsMutuallyExclusive("json", "schema", "clear", "remove")

	historyCmd.SetOut(os.Stdout)
}

// historyCmd lists saved watch progress.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display saved watch progress",
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case lo.Must(cmd.Flags().GetBool("schema")):
			reflector := new(jsonschema.Reflector)
			reflector.Anonymous = true
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(reflector.Reflect([]*history.Entry{})))
			return
		case lo.Must(cmd.Flags().GetBool("clear")):
			confirm := survey.Confirm{
				Message: "Clear the whole watch history?",
				Default: false,
			}
			var response bool
			handleErr(survey.AskOne(&confirm, &response))

			if !response {
				return
			}

			handleErr(history.Clear())
			fmt.Printf("%s history cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)))
			return
		case cmd.Flags().Changed("remove"):
			url := lo.Must(cmd.Flags().GetString("remove"))
			handleErr(history.Remove(url))
			fmt.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(url))
			return
		}

		entries, err := history.List()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("No history yet"))
			return
		}

		cmd.Println(style.Bold(util.Quantify(len(entries), "title", "titles")))
		for _, entry := range entries {
			mark := icon.Get(icon.Progress)
			if entry.Finished {
				mark = icon.Get(icon.Success)
			}
			cmd.Printf("%s %s\n", mark, entry)
			cmd.Println(style.Faint("  " + entry.URL))
		}
	},
}
