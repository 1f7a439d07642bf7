package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/gatekeeper/cmd/app/commands"
	"github.com/allisson/gatekeeper/internal/app"
	"github.com/allisson/gatekeeper/internal/config"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   commands.FormatText,
		Usage:   "Output format: 'text' or 'json'",
	}
}

func getCredentialCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-user",
			Usage: "Register a user with a local password",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Email address used to sign in",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Full name",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Password (omit to be prompted)",
				},
				&cli.StringFlag{
					Name:    "organizations",
					Aliases: []string{"o"},
					Usage:   "Comma-separated organization ids",
				},
				&cli.StringFlag{
					Name:    "roles",
					Aliases: []string{"r"},
					Usage:   "Comma-separated roles (user, global_admin)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(ctx, userUseCase, container.Logger(), commands.CreateUserParams{
					FullName:        cmd.String("name"),
					Email:           cmd.String("email"),
					Password:        cmd.String("password"),
					OrganizationIDs: cmd.String("organizations"),
					Roles:           cmd.String("roles"),
					Format:          cmd.String("format"),
				}, commands.DefaultIO())
			},
		},
		{
			Name:  "create-token",
			Usage: "Issue an API key for a user or an organization",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "user-email",
					Aliases: []string{"u"},
					Usage:   "Email of the owning user",
				},
				&cli.StringFlag{
					Name:    "organization-id",
					Aliases: []string{"o"},
					Usage:   "Owning organization id",
				},
				&cli.StringFlag{
					Name:    "project-id",
					Aliases: []string{"p"},
					Usage:   "Project id (requires --organization-id)",
				},
				&cli.StringFlag{
					Name:  "notes",
					Usage: "Free-form description of the key",
				},
				&cli.DurationFlag{
					Name:  "expires-in",
					Usage: "Lifetime of the key (e.g. 720h); zero never expires",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}
				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateToken(ctx, userUseCase, tokenUseCase, container.Logger(), commands.CreateTokenParams{
					UserEmail:      cmd.String("user-email"),
					OrganizationID: cmd.String("organization-id"),
					ProjectID:      cmd.String("project-id"),
					Notes:          cmd.String("notes"),
					ExpiresIn:      cmd.Duration("expires-in"),
					Format:         cmd.String("format"),
				}, commands.DefaultIO())
			},
		},
		{
			Name:  "issue-jwt",
			Usage: "Sign a JWT for an active user",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Email of the user",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}
				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunIssueJWT(
					ctx,
					userUseCase,
					tokenUseCase,
					container.Logger(),
					cmd.String("email"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
