package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	settingsUpAxis      string
	settingsUnit        string
	settingsTriangulate string
	settingsDir         string
	settingsPrefix      string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the FBX export settings",
	Long: `Show the FBX export settings, or change them via flags.

Changed settings are persisted to the scene's default preset file.`,
	Args: cobra.NoArgs,
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

		fbx := sess.Settings()
		changed := false

		if cmd.Flags().Changed("up-axis") {
			fbx.UpAxis = settingsUpAxis
			changed = true
		}
		if cmd.Flags().Changed("unit") {
			fbx.ConvertUnit = settingsUnit
			changed = true
		}
		if cmd.Flags().Changed("triangulate") {
			tri, err := strconv.ParseBool(settingsTriangulate)
			if err != nil {
				return fmt.Errorf("invalid --triangulate value %q", settingsTriangulate)
			}
			fbx.Triangulate = tri
			changed = true
		}
		if cmd.Flags().Changed("dir") {
			fbx.ExportDirectory = settingsDir
			changed = true
		}
		if cmd.Flags().Changed("prefix") {
			fbx.FilePrefix = settingsPrefix
			changed = true
		}

		if changed {
			if err := fbx.ValidateEnums(); err != nil {
				return err
			}
			sess.SetSettings(fbx)
			path, err := sess.SavePreset("")
			if err != nil {
				return err
			}
			PrintSuccess("Settings saved to " + path)
		}

		if jsonOutput {
			return outputJSON(fbx)
		}

		PrintSection("FBX Export Settings")
		PrintLabelValue("Up axis", fbx.UpAxis)
		PrintLabelValue("Unit", fbx.ConvertUnit)
		PrintLabelValue("Triangulate", strconv.FormatBool(fbx.Triangulate))
		dir := fbx.ExportDirectory
		if dir == "" {
			dir = "(unset)"
		}
		PrintLabelValue("Export directory", dir)
		PrintLabelValue("File prefix", strconv.Quote(fbx.FilePrefix))
		return nil
	},
}

func init() {
	settingsCmd.Flags().StringVar(&settingsUpAxis, "up-axis", "", "Up axis: Y or Z")
	settingsCmd.Flags().StringVar(&settingsUnit, "unit", "", "Conversion unit: cm, m, mm, in, ft")
	settingsCmd.Flags().StringVar(&settingsTriangulate, "triangulate", "", "Triangulate on export: true or false")
	settingsCmd.Flags().StringVar(&settingsDir, "dir", "", "Export directory")
	settingsCmd.Flags().StringVar(&settingsPrefix, "prefix", "", "Exported file name prefix")
}
