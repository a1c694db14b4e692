package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/studyhall/lesson-booking-service/config"
	"github.com/studyhall/lesson-booking-service/internal/shop"
)

// LessonsOptions holds flags for the lessons command.
type LessonsOptions struct {
	*RootOptions
	Search string
	Sort   string
	Dir    string
}

// NewLessonsCommand creates the lessons command.
func NewLessonsCommand(rootOpts *RootOptions, cfg *config.Config) *cobra.Command {
	opts := &LessonsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "List the lesson catalog",
		Long: `List the lesson catalog, optionally filtered by a search term and
sorted by subject, location, price or spaces.

Example:
  lessonctl lessons --search hendon --sort price --dir desc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLessons(cmd, opts, cfg)
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "filter term (matches subject, location, price, spaces)")
	cmd.Flags().StringVar(&opts.Sort, "sort", "subject", "sort field (subject|location|price|spaces)")
	cmd.Flags().StringVar(&opts.Dir, "dir", "asc", "sort direction (asc|desc)")

	return cmd
}

func runLessons(cmd *cobra.Command, opts *LessonsOptions, cfg *config.Config) error {
	field, err := shop.ParseSortField(opts.Sort)
	if err != nil {
		return err
	}
	dir, err := shop.ParseSortDirection(opts.Dir)
	if err != nil {
		return err
	}

	session := newSession(opts.RootOptions, cfg)
	if err := session.LoadCatalog(cmd.Context()); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	lessons := session.Lessons(opts.Search, field, dir)
	if len(lessons) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no lessons match")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSUBJECT\tLOCATION\tPRICE\tSPACES")
	for _, l := range lessons {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%d\n", l.ID, l.Subject, l.Location, l.Price, l.Spaces)
	}
	return w.Flush()
}
