package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var duplicateCmd = &cobra.Command{
	Use:   "duplicate [group]",
	Short: "Duplicate an export group",
	Long:  `Copy an export group and its members into a new group at the end of the order.`,
	Args:  cobra.ExactArgs(1),
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

		setName, err := sess.Duplicate(g.SetName)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]string{"set_name": setName})
		}
		PrintSuccess(fmt.Sprintf("Duplicated %q as %s", g.Name, setName))
		return nil
	},
}
