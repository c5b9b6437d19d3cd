package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename [group] [new-name]",
	Short: "Rename an export group",
	Long: `Rename an export group and its backing set.

The group keeps its position in the display order. The backing set is
renamed to match the new name, with a numeric suffix on collision.`,
	Args: cobra.ExactArgs(2),
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

		_, g, err := resolveGroup(sess, args[0])
		if err != nil {
			return err
		}

		setName, err := sess.Rename(g.SetName, args[1])
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]string{"set_name": setName})
		}
		PrintSuccess(fmt.Sprintf("Renamed %q to %q (%s)", g.Name, args[1], setName))
		return nil
	},
}
