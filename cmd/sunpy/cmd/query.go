package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Physolia/sunpy/internal/config"
	"github.com/Physolia/sunpy/pkg/attrs"
	"github.com/Physolia/sunpy/pkg/vso"
)

// queryFlags collects the attribute filters shared by search and fetch.
type queryFlags struct {
	start      string
	end        string
	instrument string
	source     string
	provider   string
	detector   string
	physobs    string
	level      string
	sample     time.Duration
	waveMin    float64
	waveMax    float64
	waveUnit   string
}

func addQueryFlags(cmd *cobra.Command, qf *queryFlags) {
	cmd.Flags().StringVar(&qf.start, "start", "", "Start of the time range (e.g. 2020-01-01)")
	cmd.Flags().StringVar(&qf.end, "end", "", "End of the time range")
	cmd.Flags().StringVar(&qf.instrument, "instrument", "", "Instrument name (e.g. EIT)")
	cmd.Flags().StringVar(&qf.source, "source", "", "Observatory or mission (e.g. SOHO)")
	cmd.Flags().StringVar(&qf.provider, "provider", "", "Archive provider (e.g. SDAC)")
	cmd.Flags().StringVar(&qf.detector, "detector", "", "Detector name")
	cmd.Flags().StringVar(&qf.physobs, "physobs", "", "Physical observable (e.g. intensity)")
	cmd.Flags().StringVar(&qf.level, "level", "", "Data processing level")
	cmd.Flags().DurationVar(&qf.sample, "sample", 0, "Sampling cadence (e.g. 10m)")
	cmd.Flags().Float64Var(&qf.waveMin, "wavemin", 0, "Lower wavelength bound")
	cmd.Flags().Float64Var(&qf.waveMax, "wavemax", 0, "Upper wavelength bound")
	cmd.Flags().StringVar(&qf.waveUnit, "waveunit", attrs.Angstrom, "Wavelength unit (Angstrom, nm, GHz, keV, ...)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

// buildQuery translates the flags into an attribute list.
func (qf *queryFlags) buildQuery() ([]attrs.Attr, error) {
	timeAttr, err := attrs.NewTime(qf.start, qf.end)
	if err != nil {
		return nil, err
	}
	query := []attrs.Attr{timeAttr}

	if qf.instrument != "" {
		query = append(query, attrs.Instrument(qf.instrument))
	}
	if qf.source != "" {
		query = append(query, attrs.Source(qf.source))
	}
	if qf.provider != "" {
		query = append(query, attrs.Provider(qf.provider))
	}
	if qf.detector != "" {
		query = append(query, attrs.Detector(qf.detector))
	}
	if qf.physobs != "" {
		query = append(query, attrs.Physobs(qf.physobs))
	}
	if qf.level != "" {
		query = append(query, attrs.Level(qf.level))
	}
	if qf.sample > 0 {
		query = append(query, attrs.Sample{Cadence: qf.sample})
	}
	if qf.waveMax > 0 {
		wave, err := attrs.NewWavelength(qf.waveMin, qf.waveMax, qf.waveUnit)
		if err != nil {
			return nil, err
		}
		query = append(query, wave)
	}
	return query, nil
}

// newVSOClient builds a client from the resolved configuration.
func newVSOClient(ctx context.Context) (*vso.Client, error) {
	opts := []vso.Option{vso.WithMirrors(config.Mirrors()...)}
	if timeout := config.Timeout(); timeout > 0 {
		opts = append(opts, vso.WithTimeout(timeout))
	}
	return vso.NewClient(ctx, opts...)
}
