package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/dasha/internal/config"
	"github.com/roach88/dasha/internal/dasha"
)

// AnchorResult describes the anchor derived from a longitude.
type AnchorResult struct {
	Longitude      float64 `json:"longitude"`
	Division       int     `json:"division"` // 1-based
	Lord           string  `json:"lord"`
	Fraction       float64 `json:"fraction"`
	RemainingYears float64 `json:"remaining_years"`
	RemainingDays  float64 `json:"remaining_days"`
}

// RenderText writes the anchor as aligned key/value lines.
func (r AnchorResult) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Longitude  %s\nDivision   %d of %d\nLord       %s\nFraction   %s\nRemaining  %.4fy (%.2fd)\n",
		strconv.FormatFloat(r.Longitude, 'g', -1, 64),
		r.Division, dasha.Divisions,
		r.Lord,
		strconv.FormatFloat(r.Fraction, 'g', 6, 64),
		r.RemainingYears, r.RemainingDays,
	)
	return err
}

// NewAnchorCommand creates the anchor command.
func NewAnchorCommand(rootOpts *RootOptions) *cobra.Command {
	var yearDays float64

	cmd := &cobra.Command{
		Use:   "anchor <longitude>",
		Short: "Map a sidereal longitude to its anchor lord and fraction",
		Long: `Map a sidereal longitude in degrees, [0,360), to one of 27 divisions of
13°20′, its ruling lord, the elapsed fraction of the division, and the part
of the lord's period that remains.

Examples:
  dasha anchor 40.5
  dasha anchor 359.99 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.settings(cmd, map[string]string{"year_length_days": "year-days"})
			if err != nil {
				return err
			}

			deg, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return inputError("invalid longitude", err)
			}
			a, err := dasha.AnchorFromLongitude(deg)
			if err != nil {
				return inputError("invalid longitude", err)
			}

			engine := cfg.Engine()
			if err := engine.Validate(); err != nil {
				return inputError("invalid year length", err)
			}
			remaining := dasha.Remaining(a.Lord, a.Fraction, engine.YearLength)

			return rootOpts.formatter(cmd).Success(AnchorResult{
				Longitude:      deg,
				Division:       a.Division + 1,
				Lord:           a.Lord.String(),
				Fraction:       a.Fraction,
				RemainingYears: dasha.Years(remaining, engine.YearLength),
				RemainingDays:  dasha.Days(remaining),
			})
		},
	}

	cmd.Flags().Float64Var(&yearDays, "year-days", config.DefaultYearLengthDays, "length of a year in days")

	return cmd
}
