package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load [path]",
	Short: "Load export groups and settings from a preset file",
	Long: `Replace the current export groups and FBX settings with the
contents of a JSON preset file.

Without a path argument the scene's default preset location is used.
Scene sets referenced by the preset are created if they do not exist.`,
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

		var path string
		if len(args) == 1 {
			path = args[0]
			if _, err := sess.LoadPreset(path); err != nil {
				return err
			}
		} else {
			loaded, found, err := sess.LoadDefaultPreset()
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no preset found at %s", sess.DefaultPresetPath())
			}
			path = loaded
		}

		gs := sess.Groups()
		if jsonOutput {
			return outputJSON(map[string]any{
				"path":   path,
				"groups": len(gs),
			})
		}
		PrintSuccess(fmt.Sprintf("Loaded %d groups from %s", len(gs), path))
		return nil
	},
}
