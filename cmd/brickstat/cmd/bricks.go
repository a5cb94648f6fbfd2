package cmd

import (
	"context"

	"github.com/mensio/brickstat/conf"
	"github.com/mensio/brickstat/input"
	"github.com/mensio/brickstat/schema"
	"github.com/mensio/brickstat/survey"
	"github.com/spf13/cobra"
)

var (
	bricksSurvey  string
	bricksSamples string
)

var bricksCmd = &cobra.Command{
	Use:   "bricks",
	Short: "Analyse the bricks of a survey per sample area",
	Long: `Analyse the bricks of a survey per sample area.

The survey layer needs the fields fid, tipo, superficie, area_componente,
num_componente, width_bbox, height_bbox and campione. The sample layer needs
campione, sito, ambiente, usm and area_campione.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(cmd, "bricks", runBricks)
	},
}

func init() {
	bricksCmd.Flags().StringVar(&bricksSurvey, "survey", "", "survey layer (.csv or .json)")
	bricksCmd.Flags().StringVar(&bricksSamples, "samples", "", "sample layer (.csv or .json)")
	bricksCmd.MarkFlagRequired("survey")
	bricksCmd.MarkFlagRequired("samples")
	addAnalysisFlags(bricksCmd, conf.ProfileBricks)
}

func runBricks(ctx context.Context, p survey.Params, fb survey.Feedback) (survey.Result, uint64, error) {
	var in survey.BricksInput
	var err error
	in.Components, in.ComponentFields, err = input.ReadComponentsFile(bricksSurvey)
	if err != nil {
		return nil, 0, err
	}
	in.Samples, in.SampleFields, err = input.ReadSamplesFile(bricksSamples)
	if err != nil {
		return nil, 0, err
	}
	res, err := survey.Bricks(ctx, in, p, fb)
	if err != nil {
		return nil, 0, err
	}
	return res, schema.Digest(in.Components, in.Samples), nil
}
