package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	appservice "github.com/railtix/railtix/internal/application/service"
	"github.com/railtix/railtix/internal/domain/models"
	domainservice "github.com/railtix/railtix/internal/domain/service"
	"github.com/railtix/railtix/internal/infrastructure/clientinfo"
	"github.com/railtix/railtix/internal/infrastructure/fraud"
	"github.com/railtix/railtix/internal/infrastructure/inventory"
	"github.com/railtix/railtix/internal/infrastructure/payment"
	"github.com/railtix/railtix/internal/infrastructure/ratelimit"
	"github.com/railtix/railtix/pkg/constants"
	"github.com/railtix/railtix/pkg/errors"
	"github.com/railtix/railtix/pkg/logger"
	"github.com/railtix/railtix/pkg/ticketcode"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Interactively book railway tickets.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBookingLoop(cmd.Context(), newConsoleSession(), os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(bookCmd)
}

// consoleSession bundles the in-process booking engine the interactive loop
// drives. Everything lives in process memory and resets on exit.
type consoleSession struct {
	booking appservice.BookingAppService
	limiter domainservice.RateLimitService
	probe   *clientinfo.Probe
	now     func() time.Time

	window       time.Duration
	maxPerWindow int
}

// newConsoleSession wires the console policy: a 30-minute window of 3
// bookings keyed by the detected IP, and a simulated payment step. The
// cumulative per-user cap is raised to the pool size here; console repeat
// business is bounded by the booking window alone, with the 5-ticket cap
// applying per booking.
func newConsoleSession() *consoleSession {
	log := logger.NewNoopLogger()
	limiter := ratelimit.NewSlidingWindow(constants.BookingWindow, constants.MaxBookingsPerWindow)

	booking := appservice.NewBookingAppService(
		domainservice.AllowAllValidator{},
		fraud.NewTracker(constants.DeviceIPThreshold, 0),
		limiter,
		inventory.NewLedger(constants.TotalTickets),
		ticketcode.NewDedupingGenerator(ticketcode.NewGenerator()),
		log,
		appservice.WithPaymentAuthority(payment.NewStubAuthority(constants.PaymentDelay, log)),
		appservice.WithQuantityLimits(constants.MaxTicketsPerUser, constants.TotalTickets),
	)

	return &consoleSession{
		booking:      booking,
		limiter:      limiter,
		probe:        clientinfo.NewProbe(log),
		now:          time.Now,
		window:       constants.BookingWindow,
		maxPerWindow: constants.MaxBookingsPerWindow,
	}
}

// runBookingLoop drives the interactive console flow until an exit condition:
// the booking window is exhausted, tickets sell out, or the user declines to
// continue.
func runBookingLoop(ctx context.Context, s *consoleSession, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	fmt.Fprintln(out, "Welcome to the Railway Ticket Booking System!")

	for {
		info := s.probe.Detect(ctx)
		fmt.Fprintln(out, "\nDetected Client Information:")
		fmt.Fprintln(out, "IP Address:", info.IPAddress)
		fmt.Fprintln(out, "Machine ID:", info.MachineID)

		allowed, err := s.limiter.Allow(ctx, info.IPAddress, s.now())
		if err != nil {
			return err
		}
		if !allowed {
			fmt.Fprintln(out, "\nBooking limit reached for this IP address!")
			fmt.Fprintf(out, "You can make maximum %d bookings within %d minutes.\n",
				s.maxPerWindow, int(s.window.Minutes()))
			fmt.Fprintln(out, "Please try again later.")
			return nil
		}

		if s.booking.Available() <= 0 {
			fmt.Fprintln(out, "Sorry, all tickets are currently sold out!")
			return nil
		}

		fmt.Fprintf(out, "\nYou can book up to %d tickets.\n", constants.MaxTicketsPerUser)
		fmt.Fprintf(out, "Enter number of tickets to book (1-%d): ", constants.MaxTicketsPerUser)

		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(out, "Invalid input. Please enter a number.")
			continue
		}
		if quantity < 1 || quantity > constants.MaxTicketsPerUser {
			fmt.Fprintf(out, "Invalid number of tickets. Must be between 1 and %d\n",
				constants.MaxTicketsPerUser)
			continue
		}

		passengers := make([]string, 0, quantity)
		for i := 1; i <= quantity; i++ {
			fmt.Fprintf(out, "Enter name for passenger %d: ", i)
			name, err := reader.ReadString('\n')
			if err != nil {
				return nil
			}
			passengers = append(passengers, strings.TrimSpace(name))
		}

		fmt.Fprintln(out, "\nProcessing payment...")
		result, err := s.booking.Book(ctx, &models.BookingRequest{
			Identity: models.ClientIdentity{
				UserID:    info.IPAddress,
				DeviceID:  info.MachineID,
				IPAddress: info.IPAddress,
			},
			Quantity:       quantity,
			PassengerNames: passengers,
		})
		if err != nil {
			printRejection(out, err, s.booking.Available())
		} else {
			printConfirmation(ctx, out, s, info, result, passengers)
		}

		fmt.Fprint(out, "\nDo you want to book more tickets? (yes/no): ")
		answer, err := reader.ReadString('\n')
		if err != nil || strings.TrimSpace(strings.ToLower(answer)) != "yes" {
			return nil
		}
	}
}

func printRejection(out io.Writer, err error, available int) {
	if appErr, ok := errors.AsAppError(err); ok {
		switch appErr.Code() {
		case constants.ErrCodeInsufficientInventory:
			fmt.Fprintf(out, "Sorry, only %d tickets available.\n", available)
			return
		case constants.ErrCodePaymentFailed:
			fmt.Fprintln(out, "Payment failed. Booking cancelled.")
			return
		}
	}
	fmt.Fprintln(out, "Booking failed:", err.Error())
}

func printConfirmation(ctx context.Context, out io.Writer, s *consoleSession, info clientinfo.ClientInfo, result *models.BookingResult, passengers []string) {
	fmt.Fprintln(out, "\nBooking Successful!")

	if remaining, err := s.limiter.Remaining(ctx, info.IPAddress, s.now()); err == nil {
		fmt.Fprintln(out, "Remaining bookings allowed in this time window:", remaining)
	}

	fmt.Fprintln(out, "\nTicket Details:")
	for i, code := range result.TicketCodes {
		fmt.Fprintf(out, "\nTicket %d:\n", i+1)
		fmt.Fprintln(out, "Code:", code)
		if i < len(passengers) {
			fmt.Fprintln(out, "Passenger:", passengers[i])
		}
	}

	fmt.Fprintln(out, "\nBooking Information:")
	fmt.Fprintln(out, "IP Address:", info.IPAddress)
	fmt.Fprintln(out, "Machine ID:", info.MachineID)
	fmt.Fprintln(out, "Booking Time:", s.now().Format(time.RFC3339))
}
