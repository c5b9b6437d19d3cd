package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var isolateCmd = &cobra.Command{
	Use:   "isolate [group]",
	Short: "Toggle viewport isolation for a group",
	Long: `Isolate a group's objects in the configured viewport panel.

Running the command while a panel is isolated turns isolation off, whatever
the argument.`,
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

		idx, g, err := resolveGroup(sess, args[0])
		if err != nil {
			return err
		}

		on, err := sess.ToggleIsolation(idx)
		if err != nil {
			return err
		}
		if on {
			PrintSuccess(fmt.Sprintf("Isolated group %q", g.Name))
		} else {
			PrintSuccess("Isolation turned off")
		}
		return nil
	},
}
