package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all export groups",
	Long:  `Display all export groups in display order with their member counts.`,
	Args:  cobra.NoArgs,
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

		gs := sess.Groups()

		if jsonOutput {
			type entry struct {
				Name    string   `json:"name"`
				SetName string   `json:"set_name"`
				Objects []string `json:"objects"`
			}
			out := make([]entry, 0, len(gs))
			for _, g := range gs {
				out = append(out, entry{
					Name:    g.Name,
					SetName: g.SetName,
					Objects: sess.Members(g.SetName),
				})
			}
			return outputJSON(out)
		}

		if len(gs) == 0 {
			PrintInfo("No export groups found")
			return nil
		}

		rows := make([][]string, 0, len(gs))
		for i, g := range gs {
			rows = append(rows, []string{
				strconv.Itoa(i),
				g.Name,
				g.SetName,
				fmt.Sprintf("%d", len(sess.Members(g.SetName))),
			})
		}
		PrintTable([]string{"#", "Name", "Set", "Objects"}, rows)
		return nil
	},
}
