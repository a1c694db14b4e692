package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/studyhall/lesson-booking-service/config"
	"github.com/studyhall/lesson-booking-service/internal/shop"
)

// OrderOptions holds flags for the order command.
type OrderOptions struct {
	*RootOptions
	Name  string
	Phone string
	Email string
	Lines []string
}

// NewOrderCommand creates the order command.
func NewOrderCommand(rootOpts *RootOptions, cfg *config.Config) *cobra.Command {
	opts := &OrderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Book lessons and check out",
		Long: `Fill a cart with the requested lessons and run the checkout:
validate the contact details, submit the order, and sync the remaining
spaces back to the service.

Example:
  lessonctl order --name "Ada Lovelace" --phone 02079460000 \
    --email ada@example.org --line 1=2 --line 9=1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd, opts, cfg)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "contact name")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "contact phone number")
	cmd.Flags().StringVar(&opts.Email, "email", "", "contact email address")
	cmd.Flags().StringArrayVar(&opts.Lines, "line", nil, "lesson to book as id=quantity (repeatable)")

	return cmd
}

func runOrder(cmd *cobra.Command, opts *OrderOptions, cfg *config.Config) error {
	session := newSession(opts.RootOptions, cfg)
	if err := session.LoadCatalog(cmd.Context()); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	for _, spec := range opts.Lines {
		lessonID, quantity, err := parseLineSpec(spec)
		if err != nil {
			return err
		}
		for i := 0; i < quantity; i++ {
			if !session.AddToCart(lessonID) {
				l, known := session.Lesson(lessonID)
				if !known {
					return fmt.Errorf("lesson %d not found", lessonID)
				}
				return fmt.Errorf("lesson %d (%s) has no spaces left", lessonID, l.Subject)
			}
		}
	}

	session.SetContact(shop.Contact{
		Name:  opts.Name,
		Phone: opts.Phone,
		Email: opts.Email,
	})

	conf, err := session.Checkout(cmd.Context())
	if err != nil {
		var vErr *shop.ValidationError
		if errors.As(err, &vErr) {
			printFieldErrors(cmd, vErr.Fields)
			return errors.New("order not submitted")
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Order %s confirmed for %s <%s>, total %.2f\n",
		conf.OrderID, conf.Name, conf.Email, conf.Total)
	return nil
}

func parseLineSpec(spec string) (int64, int, error) {
	parts := strings.SplitN(spec, "=", 2)
	lessonID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --line %q: expected id=quantity", spec)
	}

	quantity := 1
	if len(parts) == 2 {
		quantity, err = strconv.Atoi(parts[1])
		if err != nil || quantity < 1 {
			return 0, 0, fmt.Errorf("invalid --line %q: quantity must be a positive integer", spec)
		}
	}
	return lessonID, quantity, nil
}

func printFieldErrors(cmd *cobra.Command, fields shop.Validation) {
	out := cmd.ErrOrStderr()
	if fields.NameError != "" {
		fmt.Fprintln(out, "name:", fields.NameError)
	}
	if fields.PhoneError != "" {
		fmt.Fprintln(out, "phone:", fields.PhoneError)
	}
	if fields.EmailError != "" {
		fmt.Fprintln(out, "email:", fields.EmailError)
	}
	if fields.CartError != "" {
		fmt.Fprintln(out, "cart:", fields.CartError)
	}
}
