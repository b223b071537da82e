package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dasha/internal/dasha"
	"github.com/roach88/dasha/internal/lord"
)

// LordsOptions holds flags for the lords command.
type LordsOptions struct {
	*RootOptions
	From string
}

// LordView is one lord of the cycle.
type LordView struct {
	Lord   string `json:"lord"`
	Weight int    `json:"weight"`
}

// LordsResult is the cycle in rotation order.
type LordsResult struct {
	From        string     `json:"from"`
	Lords       []LordView `json:"lords"`
	TotalWeight int        `json:"total_weight"`
}

// RenderText writes one lord per line and the total.
func (r LordsResult) RenderText(w io.Writer) error {
	var b strings.Builder
	for _, l := range r.Lords {
		fmt.Fprintf(&b, "%-8s %3d\n", l.Lord, l.Weight)
	}
	fmt.Fprintf(&b, "%-8s %3d\n", "Total", r.TotalWeight)
	_, err := io.WriteString(w, b.String())
	return err
}

// NewLordsCommand creates the lords command.
func NewLordsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LordsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lords",
		Short: "List the nine lords and their weights",
		Long: `List the lords of the cycle with their weights in years.

With --from the cycle is rotated to start at that lord, which is the order
of the Subs inside that lord's Major.

Examples:
  dasha lords
  dasha lords --from Saturn`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLords(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", lord.Ketu.String(), "lord to start the rotation at")

	return cmd
}

func runLords(opts *LordsOptions, cmd *cobra.Command) error {
	from, err := lord.Parse(opts.From)
	if err != nil {
		return inputError("invalid lord", &dasha.InputError{
			Code:    dasha.ErrCodeInvalidLord,
			Field:   "from",
			Message: err.Error(),
		})
	}

	result := LordsResult{
		From:        from.String(),
		TotalWeight: lord.TotalWeight,
	}
	for _, l := range lord.Rotate(from) {
		result.Lords = append(result.Lords, LordView{Lord: l.String(), Weight: l.Weight()})
	}

	return opts.formatter(cmd).Success(result)
}
