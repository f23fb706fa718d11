package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/media"
	"github.com/urfave/cli/v3"
)

func (r *Runner) signUpCommand() *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "Register a new account and send the verification code",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.StringFlag{Name: "confirm", Usage: "password confirmation, defaults to --password"},
		},
		Action: r.action(func(ctx context.Context, c *cli.Command, e *env) error {
			email := domain.NormalizeEmail(c.String("email"))
			confirm := c.String("confirm")
			if confirm == "" {
				confirm = c.String("password")
			}
			if err := domain.ValidateSignUp(email, c.String("password"), confirm); err != nil {
				return err
			}
			if err := e.store.SignUp(ctx, email, c.String("password")); err != nil {
				return err
			}
			if e.json {
				return r.printJSON(map[string]string{"email": email, "status": "pending_verification"})
			}
			r.printf("verification code sent to %s\n", email)
			return nil
		}),
	}
}

func (r *Runner) verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Confirm an email address with the code from the verification mail",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "code", Required: true},
		},
		Action: r.action(func(ctx context.Context, c *cli.Command, e *env) error {
			if err := e.store.VerifyEmail(ctx, c.String("email"), c.String("code")); err != nil {
				return err
			}
			if e.json {
				return r.printJSON(map[string]string{"status": "verified"})
			}
			r.printf("email verified, you can now log in\n")
			return nil
		}),
	}
}

func (r *Runner) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and keep the session for later commands",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
		},
		Action: r.action(func(ctx context.Context, c *cli.Command, e *env) error {
			if _, err := e.store.SignIn(ctx, c.String("email"), c.String("password")); err != nil {
				return err
			}
			identity, _ := e.store.Current()
			if e.json {
				return r.printJSON(toIdentityView(identity))
			}
			r.printf("logged in as %s\n", identity.Email)
			if !identity.HasProfile {
				r.printf("complete your profile with `skip2love profile set` before posting ads\n")
			}
			return nil
		}),
	}
}

func (r *Runner) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Sign out and forget the stored session",
		Action: r.action(func(ctx context.Context, _ *cli.Command, e *env) error {
			if err := e.store.SignOut(ctx); err != nil {
				return err
			}
			if e.json {
				return r.printJSON(map[string]string{"status": "signed_out"})
			}
			r.printf("signed out\n")
			return nil
		}),
	}
}

func (r *Runner) whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the signed-in user",
		Action: r.action(func(_ context.Context, _ *cli.Command, e *env) error {
			identity, ok := e.store.Current()
			if !ok {
				if e.json {
					return r.printJSON(map[string]bool{"signed_in": false})
				}
				r.printf("not signed in\n")
				return nil
			}
			if e.json {
				return r.printJSON(toIdentityView(identity))
			}
			r.printIdentity(identity)
			return nil
		}),
	}
}

func (r *Runner) profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Profile commands",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Complete or update your profile",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "city", Required: true},
					&cli.StringFlag{Name: "phone"},
					&cli.StringFlag{Name: "bio"},
					&cli.StringFlag{Name: "avatar-url"},
				},
				Action: r.action(func(ctx context.Context, c *cli.Command, e *env) error {
					identity, err := e.identity()
					if err != nil {
						return err
					}
					p, err := e.Profiles.Complete(ctx, identity, domain.ProfileFields{
						Phone:     c.String("phone"),
						City:      c.String("city"),
						Bio:       c.String("bio"),
						AvatarURL: c.String("avatar-url"),
					})
					if err != nil {
						return err
					}
					e.store.SetProfile(p)
					updated, _ := e.store.Current()
					if e.json {
						return r.printJSON(toIdentityView(updated))
					}
					r.printIdentity(updated)
					return nil
				}),
			},
		},
	}
}

func (r *Runner) adsCommand() *cli.Command {
	return &cli.Command{
		Name:  "ads",
		Usage: "Browse and manage ads",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List active ads, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "search title, description, location and category"},
				},
				Action: r.action(func(ctx context.Context, c *cli.Command, e *env) error {
					ads, err := e.Ads.Search(ctx, c.String("query"))
					if err != nil {
						return err
					}
					return r.printAds(e, ads)
				}),
			},
			{
				Name:      "show",
				Usage:     "Show one ad",
				ArgsUsage: "AD_ID",
				Action: r.action(func(ctx context.Context, c *cli.Command, e *env) error {
					id, err := adIDArg(c)
					if err != nil {
						return err
					}
					var viewerID string
					if identity, ok := e.store.Current(); ok {
						viewerID = identity.ID
					}
					ad, err := e.Ads.GetByID(ctx, viewerID, id)
					if err != nil {
						return err
					}
					if e.json {
						return r.printJSON(toAdView(ad))
					}
					r.printAd(ad)
					return nil
				}),
			},
			{
				Name:  "mine",
				Usage: "List your ads, including inactive ones",
				Action: r.action(func(ctx context.Context, _ *cli.Command, e *env) error {
					identity, err := e.identity()
					if err != nil {
						return err
					}
					ads, err := e.Ads.ListMine(ctx, identity)
					if err != nil {
						return err
					}
					return r.printAds(e, ads)
				}),
			},
			r.adsCreateCommand(),
			r.adsSetActiveCommand("deactivate", "Hide one of your ads", false),
			r.adsSetActiveCommand("activate", "Show one of your hidden ads again", true),
		},
	}
}

func (r *Runner) adsCreateCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Post a new ad with up to five images",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Required: true},
			&cli.StringFlag{Name: "description", Required: true},
			&cli.StringFlag{Name: "category", Required: true, Usage: "one of the marketplace categories"},
			&cli.StringFlag{Name: "location"},
			&cli.StringFlag{Name: "price", Usage: "decimal price, empty for none"},
			&cli.StringSliceFlag{Name: "image", Usage: "path to an image file, repeatable"},
		},
		Action: r.action(func(ctx context.Context, c *cli.Command, e *env) error {
			identity, err := e.identity()
			if err != nil {
				return err
			}
			if err := e.Gate.Ensure(ctx, identity); err != nil {
				return err
			}

			sel := media.NewSelection()
			for _, path := range c.StringSlice("image") {
				data, err := r.readFile(path)
				if err != nil {
					return fmt.Errorf("failed to read image %s: %w", path, err)
				}
				if err := sel.Select(media.NewFile(filepath.Base(path), "", data)); err != nil {
					return err
				}
			}

			res, err := e.Ads.Publish(ctx, identity, domain.AdFields{
				Title:       c.String("title"),
				Description: c.String("description"),
				Category:    c.String("category"),
				Location:    c.String("location"),
				Price:       c.String("price"),
			}, sel.Files())
			if err != nil {
				if res != nil && res.AdID != "" {
					return fmt.Errorf("ad %s was saved but publishing did not finish: %w", res.AdID, err)
				}
				return err
			}

			if e.json {
				return r.printJSON(toPublishView(res))
			}
			r.printf("published ad %s with %d image(s)\n", res.AdID, len(res.Images))
			if res.FailedImages > 0 {
				r.printf("warning: %d image(s) failed to upload\n", res.FailedImages)
			}
			return nil
		}),
	}
}

func (r *Runner) adsSetActiveCommand(name, usage string, active bool) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "AD_ID",
		Action: r.action(func(ctx context.Context, c *cli.Command, e *env) error {
			id, err := adIDArg(c)
			if err != nil {
				return err
			}
			identity, err := e.identity()
			if err != nil {
				return err
			}
			if err := e.Ads.SetActive(ctx, identity, id, active); err != nil {
				return err
			}
			if e.json {
				return r.printJSON(map[string]any{"id": id, "is_active": active})
			}
			r.printf("ad %s %sd\n", id, name)
			return nil
		}),
	}
}

var errMissingAdID = errors.New("an ad id is required")

func adIDArg(c *cli.Command) (string, error) {
	id := c.Args().First()
	if id == "" {
		return "", errMissingAdID
	}
	return id, nil
}
