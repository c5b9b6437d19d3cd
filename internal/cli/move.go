package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move [group] [up|down]",
	Short: "Move a group in the display order",
	Long: `Move an export group one position up or down in the display order.

Moving past either end of the order is a no-op. The new order is saved
to the scene's default preset.`,
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

		idx, g, err := resolveGroup(sess, args[0])
		if err != nil {
			return err
		}

		var moved bool
		switch args[1] {
		case "up":
			moved = sess.MoveUp(idx)
		case "down":
			moved = sess.MoveDown(idx)
		default:
			return fmt.Errorf("direction must be \"up\" or \"down\", got %q", args[1])
		}

		if moved {
			if _, err := sess.SavePreset(""); err != nil {
				return err
			}
		}

		if jsonOutput {
			return outputJSON(map[string]bool{"moved": moved})
		}
		if !moved {
			PrintInfo(fmt.Sprintf("Group %q is already at the %s boundary", g.Name, args[1]))
			return nil
		}
		PrintSuccess(fmt.Sprintf("Moved %q %s", g.Name, args[1]))
		return nil
	},
}
