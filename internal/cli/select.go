package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select [group]",
	Short: "Select a group's objects in the scene",
	Long:  `Replace the scene selection with the member objects of an export group.`,
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

		members := sess.Members(g.SetName)
		if err := sess.SelectInScene(members); err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Selected %d object(s) from %q", len(members), g.Name))
		return nil
	},
}
