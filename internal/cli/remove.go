package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [group]",
	Short: "Remove an export group",
	Long: `Remove an export group and delete its backing set.

The member objects themselves are untouched; only the set is deleted.`,
	Args: cobra.ExactArgs(1),
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

		if err := sess.Remove(g.SetName); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]string{"removed": g.SetName})
		}
		PrintSuccess(fmt.Sprintf("Removed group %q", g.Name))
		return nil
	},
}
