package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/parodyband/maya-batch-group-exporter/internal/export"
)

var exportAll bool

var exportCmd = &cobra.Command{
	Use:   "export [group]",
	Short: "Export a group, or all groups, to FBX files",
	Long: `Export the objects of one group to an FBX file, or all groups
with --all.

Exporting all groups continues past failures and reports a summary
at the end. Each group writes to the configured export directory as
<prefix><group name>.fbx.`,
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

		if exportAll {
			results, ok := sess.ExportAll()
			if len(results) == 0 {
				PrintWarning("No export groups defined")
				return nil
			}
			if jsonOutput {
				return outputJSON(map[string]any{
					"results":   results,
					"succeeded": ok,
					"total":     len(results),
				})
			}
			for _, r := range results {
				printExportResult(r)
			}
			if ok == len(results) {
				PrintSuccess(fmt.Sprintf("Exported %d/%d groups", ok, len(results)))
			} else {
				PrintWarning(fmt.Sprintf("Exported %d/%d groups", ok, len(results)))
			}
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("must specify a group to export or use --all")
		}

		idx, _, err := resolveGroup(sess, args[0])
		if err != nil {
			return err
		}

		result, err := sess.ExportGroup(idx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(result)
		}
		printExportResult(result)
		if !result.Success {
			return fmt.Errorf("export failed for group %q", result.Group)
		}
		return nil
	},
}

func printExportResult(r export.Result) {
	if r.Success {
		PrintSuccess(fmt.Sprintf("%s -> %s (%s)", r.Group, r.Path, r.Took.Round(time.Millisecond)))
	} else {
		PrintError(fmt.Sprintf("%s: %s", r.Group, r.Message))
	}
}

func init() {
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every group")
}
