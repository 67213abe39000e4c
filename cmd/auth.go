package main

import (
	"context"
	"slices"
	"strings"

	"github.com/desertthunder/dzx/internal/formatter"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

// accountStatus is the rendered view of a logged in session.
type accountStatus struct {
	UserID  string             `json:"user_id"`
	Name    string             `json:"name"`
	Country string             `json:"country"`
	Formats []models.FormatTag `json:"formats"`
	Quality string             `json:"quality"`
	Streams bool               `json:"quality_streamable"`
}

// Login authenticates with the first credential given on the command line,
// falling back to the configured chain. A successful login saves the token.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return r.requireResolver()
	}

	var err error
	switch {
	case cmd.String("arl") != "":
		r.logger.Info("logging in with session token")
		err = r.session.LoginWithToken(ctx, cmd.String("arl"))
	case cmd.String("curl-file") != "":
		var token string
		if token, err = shared.ParseCurlFile(cmd.String("curl-file")); err != nil {
			return err
		}
		r.logger.Info("logging in with session token from cURL command")
		err = r.session.LoginWithToken(ctx, token)
	case cmd.String("email") != "" || cmd.String("password") != "":
		r.logger.Info("logging in with email and password")
		err = r.session.LoginWithPassword(ctx, cmd.String("email"), cmd.String("password"))
	default:
		err = r.session.EnsureAuthenticated(ctx)
	}
	if err != nil {
		return err
	}

	account := r.session.Account()
	if r.store == nil {
		r.logger.Warn("no token store configured, the session will not persist")
	}
	return r.writePlain("✓ Logged in as %s (%s)\n", shared.OrString(account.Name, account.UserID), account.Country)
}

// Status logs in with the configured chain and reports the account.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return r.requireResolver()
	}
	if err := r.session.EnsureAuthenticated(ctx); err != nil {
		return err
	}

	account := r.session.Account()
	tier := r.tier("")
	formats := lo.Keys(r.session.Formats())
	slices.Sort(formats)

	status := accountStatus{
		UserID:  account.UserID,
		Name:    account.Name,
		Country: account.Country,
		Formats: formats,
		Quality: tier.String(),
		Streams: r.session.CheckSubscriptionCompatibility(tier),
	}

	if outputFormat(cmd) == formatter.JSON {
		return r.render(cmd, status)
	}

	r.writePlainHeader("Account")
	r.writePlain("Name: %s\n", status.Name)
	r.writePlain("User ID: %s\n", status.UserID)
	r.writePlain("Country: %s\n", status.Country)
	r.writePlain("Formats: %s\n", strings.Join(lo.Map(formats, func(f models.FormatTag, _ int) string {
		return string(f)
	}), ", "))
	if status.Streams {
		r.writePlain("Quality: %s ✓\n", status.Quality)
	} else {
		r.writePlain("Quality: %s ✗ not available on this subscription\n", status.Quality)
	}
	return nil
}
