package command

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cayleygraph/quad"

	"github.com/owlmorph/owlmorph/clog"
	"github.com/owlmorph/owlmorph/control"
	"github.com/owlmorph/owlmorph/graph"
	"github.com/owlmorph/owlmorph/internal"
	"github.com/owlmorph/owlmorph/query"
)

const (
	KeyReadOnly = "server.read_only"

	KeyLoadBatch    = "load.batch"
	KeyQueryTimeout = "query.timeout"
	KeyStepBudget   = "query.budget"
	KeyControlFile  = "control.file"
)

const (
	flagLoad       = "load"
	flagLoadFormat = "load_format"
	flagDump       = "dump"
	flagDumpFormat = "dump_format"
	flagControl    = "control"
)

func registerLoadFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(flagLoad, "i", "", `quad file to load on startup (".gz" supported, "-" for stdin)`)
	var names []string
	for _, f := range quad.Formats() {
		if f.Reader != nil {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	cmd.Flags().String(flagLoadFormat, "", `quad file format to use for loading instead of auto-detection ("`+strings.Join(names, `", "`)+`")`)
	cmd.Flags().String(flagControl, "", "file listing graphs under team control, one '<graph> tag' pair per line")
}

func registerDumpFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(flagDump, "o", "", `quad file to dump the dataset to (".gz" supported, "-" for stdout)`)
	var names []string
	for _, f := range quad.Formats() {
		if f.Writer != nil {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	cmd.Flags().String(flagDumpFormat, "", `quad file format to use instead of auto-detection ("`+strings.Join(names, `", "`)+`")`)
}

// openSession builds a dataset from the load flags and binds a session
// over it.
func openSession(cmd *cobra.Command) (*query.Session, error) {
	store := graph.NewStore()

	if load, _ := cmd.Flags().GetString(flagLoad); load != "" {
		typ, _ := cmd.Flags().GetString(flagLoadFormat)
		batch := viper.GetInt(KeyLoadBatch)
		if batch == 0 {
			batch = quad.DefaultBatch
		}
		start := time.Now()
		if err := internal.Load(store, batch, load, typ); err != nil {
			return nil, err
		}
		clog.Infof("loaded %q in %v (%d triples)", load, time.Since(start), store.Size())
	}

	opt := query.Options{
		StepBudget: viper.GetInt64(KeyStepBudget),
	}
	ctl, _ := cmd.Flags().GetString(flagControl)
	if ctl == "" {
		ctl = viper.GetString(KeyControlFile)
	}
	if ctl != "" {
		src, err := control.LoadFile(ctl)
		if err != nil {
			return nil, fmt.Errorf("could not read control file %q: %v", ctl, err)
		}
		opt.Control = src
	}
	return query.NewSession(store, opt), nil
}

type profileData struct {
	cpuProfile *os.File
	memPath    string
}

func mustSetupProfile(cmd *cobra.Command) profileData {
	p := profileData{}
	mpp := cmd.Flag("memprofile")
	p.memPath = mpp.Value.String()
	cpp := cmd.Flag("cpuprofile")
	v := cpp.Value.String()
	if v != "" {
		f, err := os.Create(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not open CPU profile file %s\n", v)
			os.Exit(1)
		}
		p.cpuProfile = f
		pprof.StartCPUProfile(f)
	}
	return p
}

func mustFinishProfile(p profileData) {
	if p.cpuProfile != nil {
		pprof.StopCPUProfile()
		p.cpuProfile.Close()
	}
	if p.memPath != "" {
		f, err := os.Create(p.memPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not open memory profile file %s\n", p.memPath)
			os.Exit(1)
		}
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not write memory profile file %s\n", p.memPath)
		}
		f.Close()
	}
}
