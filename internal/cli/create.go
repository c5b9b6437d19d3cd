package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new export group",
	Long: `Create a new export group backed by a prefixed object set.

The name is sanitized for set-name safety; a numeric suffix is added when
a set with the derived name already exists.`,
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

		setName, err := sess.Create(args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(map[string]string{"set_name": setName})
		}
		PrintSuccess(fmt.Sprintf("Created group %q (%s)", args[0], setName))
		return nil
	},
}
