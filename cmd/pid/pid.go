package pid

import (
	"bytes"
	"fmt"

	"github.com/eggbot/eggbot/cmd/global"
	"github.com/eggbot/eggbot/internal/pid"
	"github.com/eggbot/eggbot/internal/ui"
	"github.com/eggbot/eggbot/internal/util"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var Command = &cobra.Command{
	Use:              "pid",
	Short:            "PID controller related commands",
	Long:             ``,
	TraverseChildren: true,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Print the available PID tuning presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tab := table.Table{
			Headers: []string{"Name", "Kp", "Ki", "Kd", "Output", "Sample Time"},
			Rows:    presetRows(),
		}
		var buf bytes.Buffer
		err := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if err != nil {
			return err
		}
		ui.Printfln("%s", buf.String())
		return nil
	},
}

func presetRows() [][]string {
	var rows [][]string
	for _, name := range util.SortedKeys(pid.Presets) {
		preset := pid.Presets[name]
		rows = append(rows, []string{
			preset.Name,
			fmt.Sprintf("%g", preset.Gains.Kp),
			fmt.Sprintf("%g", preset.Gains.Ki),
			fmt.Sprintf("%g", preset.Gains.Kd),
			fmt.Sprintf("%g..%g%%", preset.Limits.Min, preset.Limits.Max),
			fmt.Sprintf("%dms", preset.SampleTimeMs),
		})
	}
	return rows
}

func init() {
	Command.AddCommand(presetsCmd)
}
