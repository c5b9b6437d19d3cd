package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var objectsFromSelection bool

var objectsCmd = &cobra.Command{
	Use:   "objects",
	Short: "Manage a group's member objects",
	Long:  `Add, remove, list, or clear the object references of an export group.`,
}

var objectsListCmd = &cobra.Command{
	Use:   "list [group]",
	Short: "List a group's objects",
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

		if jsonOutput {
			return outputJSON(members)
		}
		if len(members) == 0 {
			PrintInfo(fmt.Sprintf("Group %q has no objects", g.Name))
			return nil
		}
		for _, ref := range members {
			PrintInfo("  " + ref)
		}
		return nil
	},
}

var objectsAddCmd = &cobra.Command{
	Use:   "add [group] [object]...",
	Short: "Add objects to a group",
	Long: `Add object references to an export group.

With --from-selection the scene's current selection is added instead of
explicit object arguments.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 && !objectsFromSelection {
			return fmt.Errorf("must specify objects to add or use --from-selection")
		}

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

		if objectsFromSelection {
			n, err := sess.AddSelectionToGroup(g.SetName)
			if err != nil {
				return err
			}
			if n == 0 {
				PrintWarning("Nothing selected in the scene")
				return nil
			}
			PrintSuccess(fmt.Sprintf("Added %d selected object(s) to %q", n, g.Name))
			return nil
		}

		if err := sess.AddMembers(g.SetName, args[1:]); err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Added %d object(s) to %q", len(args)-1, g.Name))
		return nil
	},
}

var objectsRemoveCmd = &cobra.Command{
	Use:   "remove [group] [object]...",
	Short: "Remove objects from a group",
	Args:  cobra.MinimumNArgs(2),
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

		if err := sess.RemoveMembers(g.SetName, args[1:]); err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Removed %d object(s) from %q", len(args)-1, g.Name))
		return nil
	},
}

var objectsClearCmd = &cobra.Command{
	Use:   "clear [group]",
	Short: "Remove all objects from a group",
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

		if err := sess.ClearMembers(g.SetName); err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Cleared group %q", g.Name))
		return nil
	},
}

func init() {
	objectsAddCmd.Flags().BoolVar(&objectsFromSelection, "from-selection", false, "Add the scene's current selection")

	objectsCmd.AddCommand(objectsListCmd)
	objectsCmd.AddCommand(objectsAddCmd)
	objectsCmd.AddCommand(objectsRemoveCmd)
	objectsCmd.AddCommand(objectsClearCmd)
}
