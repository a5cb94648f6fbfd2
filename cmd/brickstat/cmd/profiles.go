package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mensio/brickstat/errors"
	"github.com/mensio/brickstat/store/sqlite"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the analysis profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := loadProfiles()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', tabwriter.AlignRight|tabwriter.Debug)
		fmt.Fprintln(w, "Name\tWidthStep\tHeightStep\tModule\tMaterials\tUnclassified\t")
		for _, name := range profiles.Names() {
			p := profiles.Data[name]
			materials := strings.Join(p.Materials, ",")
			if materials == "" {
				materials = "all"
			}
			fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%s\t%t\t\n", p.Name, p.WidthStep, p.HeightStep, p.Module, materials, p.IncludeUnclassified)
		}
		return w.Flush()
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List the runs stored in the sqlite database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("sqlite")
		if path == "" {
			return errors.NewConfig("no sqlite database configured. set --sqlite")
		}
		db, err := sqlite.Open(path)
		if err != nil {
			return err
		}
		defer db.Close()
		runs, err := db.Runs(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', tabwriter.AlignRight|tabwriter.Debug)
		fmt.Fprintln(w, "ID\tWorkflow\tProfile\tDigest\tWidthStep\tHeightStep\tModule\tMaterials\tStarted\tDuration\t")
		for _, r := range runs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%016x\t%g\t%g\t%g\t%s\t%s\t%v\t\n",
				r.ID, r.Workflow, r.Profile, r.Digest, r.WidthStep, r.HeightStep, r.Module, r.Materials,
				r.Started.Local().Format("2006-01-02 15:04:05"), r.Finished.Sub(r.Started))
		}
		return w.Flush()
	},
}
