package cmd

import (
	"context"

	"github.com/mensio/brickstat/conf"
	"github.com/mensio/brickstat/input"
	"github.com/mensio/brickstat/schema"
	"github.com/mensio/brickstat/survey"
	"github.com/spf13/cobra"
)

var componentsSurvey string

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "Analyse the dimensions of the components of a survey",
	Long: `Analyse the dimensions of the components of a survey as a whole.

The survey layer needs the fields fid, tipo, area_componente, num_componente,
width_bbox and height_bbox. When it also has superficie, statistics cover
whole components only.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(cmd, "components", runComponents)
	},
}

func init() {
	componentsCmd.Flags().StringVar(&componentsSurvey, "survey", "", "survey layer (.csv or .json)")
	componentsCmd.MarkFlagRequired("survey")
	addAnalysisFlags(componentsCmd, conf.ProfileComponents)
}

func runComponents(ctx context.Context, p survey.Params, fb survey.Feedback) (survey.Result, uint64, error) {
	components, fields, err := input.ReadComponentsFile(componentsSurvey)
	if err != nil {
		return nil, 0, err
	}
	res, err := survey.Components(ctx, components, fields, p, fb)
	if err != nil {
		return nil, 0, err
	}
	return res, schema.Digest(components, nil), nil
}
