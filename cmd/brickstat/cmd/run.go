package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mensio/brickstat/bucket"
	"github.com/mensio/brickstat/conf"
	"github.com/mensio/brickstat/output"
	"github.com/mensio/brickstat/progress"
	"github.com/mensio/brickstat/stats"
	"github.com/mensio/brickstat/store/sqlite"
	"github.com/mensio/brickstat/survey"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// addAnalysisFlags adds the flags that override the profile of a workflow.
func addAnalysisFlags(cmd *cobra.Command, profile string) {
	flags := cmd.Flags()
	flags.String("profile", profile, "analysis profile to start from")
	flags.Float64("width-step", 0, "width range step in meters (default from the profile)")
	flags.Float64("height-step", 0, "height range step in meters (default from the profile)")
	flags.Float64("module", 0, "module in meters for the module fields. 0 disables them (default from the profile)")
	flags.String("materials", "", "comma separated materials to analyse (default from the profile, empty for all)")
	flags.Bool("include-unclassified", false, "also analyse components without a material when filtering materials")
}

func loadProfiles() (conf.Profiles, error) {
	file := viper.GetString("profiles")
	if file == "" {
		return conf.NewProfiles(), nil
	}
	return conf.ReadProfiles(file)
}

// analysisParams resolves the profile selected for cmd and applies the
// flags set on the command line.
func analysisParams(cmd *cobra.Command) (conf.Profile, survey.Params, error) {
	profiles, err := loadProfiles()
	if err != nil {
		return conf.Profile{}, survey.Params{}, err
	}
	flags := cmd.Flags()
	name, _ := flags.GetString("profile")
	prof, err := profiles.Get(name)
	if err != nil {
		return conf.Profile{}, survey.Params{}, err
	}
	if flags.Changed("width-step") {
		prof.WidthStep, _ = flags.GetFloat64("width-step")
	}
	if flags.Changed("height-step") {
		prof.HeightStep, _ = flags.GetFloat64("height-step")
	}
	if flags.Changed("module") {
		prof.Module, _ = flags.GetFloat64("module")
	}
	if flags.Changed("materials") {
		materials, _ := flags.GetString("materials")
		prof.Materials = survey.ParseMaterials(materials)
	}
	if flags.Changed("include-unclassified") {
		prof.IncludeUnclassified, _ = flags.GetBool("include-unclassified")
	}

	format, err := bucket.ParseFormat(viper.GetString("labels"))
	if err != nil {
		return conf.Profile{}, survey.Params{}, err
	}
	p := prof.Params(format)
	if err := p.Validate(); err != nil {
		return conf.Profile{}, survey.Params{}, err
	}
	return prof, p, nil
}

// analysis runs a workflow with the given params and feedback. It returns
// the result along with the digest of the input it read.
type analysis func(ctx context.Context, p survey.Params, fb survey.Feedback) (survey.Result, uint64, error)

// execute runs a workflow and persists its result: the result tables, the
// sqlite run and the metrics file, as configured.
func execute(cmd *cobra.Command, workflow string, run analysis) error {
	prof, p, err := analysisParams(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := stats.NewRun(workflow)
	var fb survey.Feedback = progress.NewLog()
	var live *progress.Live
	if viper.GetBool("live") {
		live = progress.NewLive(os.Stdout, progress.NewLog())
		fb = live
	}
	fb = metrics.Wrap(fb)

	started := time.Now()
	log.Infof("starting %s analysis with profile %s", workflow, prof.Name)
	res, digest, err := run(ctx, p, fb)
	if live != nil {
		live.Stop()
	}
	metrics.Done(res, err)
	if path := viper.GetString("metrics-file"); path != "" {
		if werr := metrics.WriteTextfile(path); werr != nil {
			log.Warnf("failed to write metrics file %s: %s", path, werr)
		}
	}
	if err != nil {
		return err
	}
	log.WithField("digest", digest).Debug("input digest")
	survey.LogSummary(fb, workflow, p, res)

	paths, err := output.WriteAll(ctx, viper.GetString("out"), viper.GetString("format"), res.Tables())
	if err != nil {
		return err
	}
	for _, path := range paths {
		log.Infof("wrote %s", path)
	}

	if path := viper.GetString("sqlite"); path != "" {
		db, err := sqlite.Open(path)
		if err != nil {
			return err
		}
		defer db.Close()
		id, err := db.SaveRun(ctx, sqlite.Run{
			Workflow:   workflow,
			Profile:    prof.Name,
			Digest:     digest,
			WidthStep:  p.WidthStep,
			HeightStep: p.HeightStep,
			Module:     p.Module,
			Materials:  strings.Join(p.Filter.Types, ","),
			Started:    started,
			Finished:   time.Now(),
		}, res.Tables())
		if err != nil {
			return err
		}
		log.Infof("stored run %d in %s", id, path)
	}
	return nil
}
