package cli

import (
	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save [path]",
	Short: "Save the export groups and settings to a preset file",
	Long: `Write the current export groups, FBX settings, and display state
to a JSON preset file.

Without a path argument the preset is written next to the scene,
using the scene name with an "_export_groups.json" suffix.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		sess, err := newSession(logger)
		if err != nil {
			return err
		}

		target := ""
		if len(args) == 1 {
			target = args[0]
		}

		path, err := sess.SavePreset(target)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]any{
				"path":   path,
				"groups": len(sess.Groups()),
			})
		}
		PrintSuccess("Saved preset to " + path)
		return nil
	},
}
