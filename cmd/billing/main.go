// Command billing is a small client for the billing API. It keeps the signed-in
// account and bearer token in a local session store.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tinethkaveesha/Study-Planner-sub001/internal/config"
	"github.com/tinethkaveesha/Study-Planner-sub001/internal/models"
	"github.com/tinethkaveesha/Study-Planner-sub001/internal/service"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/billing"
	jwtPkg "github.com/tinethkaveesha/Study-Planner-sub001/pkg/jwt"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/logger"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/qrcode"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/session"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/utils"
)

const keyringService = "study-planner"

func main() {
	cfg := config.LoadConfig()

	zl, err := logger.New(cfg.Server.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()

	store, err := newStore(cfg.Client)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := newCLI(cfg, store, zl, os.Stdout)
	if err := cli.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newStore(cfg config.ClientConfig) (session.Store, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendKeyring:
		return session.NewKeyringStore(keyringService), nil
	case config.SessionBackendFile, "":
		return session.NewFileStore(cfg.SessionFile), nil
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}
}

type cli struct {
	auth   *service.AuthService
	client *billing.Client
	out    io.Writer
}

func newCLI(cfg *config.Config, store session.Store, zl *zap.Logger, out io.Writer) *cli {
	tokens := jwtPkg.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	return &cli{
		auth:   service.NewAuthService(store, tokens, utils.NewValidator(), zl.Named("auth")),
		client: billing.NewClient(cfg.Client.APIBaseURL, billing.WithLogger(zl.Named("billing"))),
		out:    out,
	}
}

// run builds a fresh command tree per call so flag values never leak between runs.
func (c *cli) run(ctx context.Context, args []string) error {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	root := c.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "billing",
		Short:         "Manage your Study Planner subscription",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)

	root.AddCommand(
		c.registerCommand(),
		c.loginCommand(),
		c.logoutCommand(),
		c.checkoutCommand(),
		c.statusCommand(),
		c.portalCommand(),
		c.cancelCommand(),
	)
	return root
}

func (c *cli) registerCommand() *cobra.Command {
	var req models.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register the local account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, err := c.auth.Register(req)
			if err != nil {
				return err
			}
			return c.print(map[string]any{"id": account.ID, "email": account.Email})
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	cmd.Flags().StringVar(&req.FullName, "name", "", "full name")
	markRequired(cmd, "email", "password", "name")
	return cmd
}

func (c *cli) loginCommand() *cobra.Command {
	var req models.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.auth.Login(req)
			if err != nil {
				return err
			}
			return c.print(map[string]any{"user_id": resp.UserID, "email": resp.Email})
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	markRequired(cmd, "email", "password")
	return cmd
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.auth.Logout(); err != nil {
				return err
			}
			return c.print(map[string]any{"loggedOut": true})
		},
	}
}

func (c *cli) checkoutCommand() *cobra.Command {
	var (
		price    string
		quantity int64
		qr       bool
	)
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Start a checkout session for a price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := map[string]any{"priceId": price}
			if quantity > 0 {
				params["quantity"] = quantity
			}
			return c.withToken(func(token string) (billing.Result, error) {
				result, err := c.client.CreateCheckoutSession(cmd.Context(), token, params)
				if err == nil && qr {
					err = c.printQR(result.URL())
				}
				return result, err
			})
		},
	}
	cmd.Flags().StringVar(&price, "price", "", "price id")
	cmd.Flags().Int64Var(&quantity, "quantity", 0, "quantity (defaults to 1 on the server)")
	cmd.Flags().BoolVar(&qr, "qr", false, "also print the checkout link as a QR code")
	markRequired(cmd, "price")
	return cmd
}

func (c *cli) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withToken(func(token string) (billing.Result, error) {
				return c.client.GetSubscriptionStatus(cmd.Context(), token)
			})
		},
	}
}

func (c *cli) portalCommand() *cobra.Command {
	var qr bool
	cmd := &cobra.Command{
		Use:   "portal",
		Short: "Open a billing portal session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withToken(func(token string) (billing.Result, error) {
				result, err := c.client.CreatePortalSession(cmd.Context(), token)
				if err == nil && qr {
					err = c.printQR(result.URL())
				}
				return result, err
			})
		},
	}
	cmd.Flags().BoolVar(&qr, "qr", false, "also print the portal link as a QR code")
	return cmd
}

func (c *cli) cancelCommand() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a subscription immediately",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withToken(func(token string) (billing.Result, error) {
				return c.client.CancelSubscription(cmd.Context(), token, id)
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "subscription id")
	markRequired(cmd, "id")
	return cmd
}

func (c *cli) withToken(call func(token string) (billing.Result, error)) error {
	token, err := c.auth.Token()
	if err != nil {
		return err
	}
	result, err := call(token)
	if err != nil {
		return err
	}
	return c.print(result)
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printQR(url string) error {
	code, err := qrcode.Terminal(url)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(c.out, code)
	return err
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		// only fails for an undefined flag
		_ = cmd.MarkFlagRequired(name)
	}
}
