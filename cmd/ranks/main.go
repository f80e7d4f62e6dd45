package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jengzang/activity-ranks/internal/achievement"
	"github.com/jengzang/activity-ranks/internal/database"
	"github.com/jengzang/activity-ranks/internal/logging"
	"github.com/jengzang/activity-ranks/internal/models"
	"github.com/jengzang/activity-ranks/internal/profile"
	"github.com/jengzang/activity-ranks/internal/ranks"
	"github.com/jengzang/activity-ranks/internal/repository"
	"github.com/jengzang/activity-ranks/internal/service"
)

// concurrency bounds how many exports are imported at once
const concurrency = 4

type upload struct {
	username string
	path     string
}

// uploads parses USER=FILE arguments
func uploads(args []string) ([]upload, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("expected at least one USER=FILE argument")
	}
	seen := make(map[string]bool, len(args))
	res := make([]upload, 0, len(args))
	for _, arg := range args {
		user, path, ok := strings.Cut(arg, "=")
		user = strings.TrimSpace(user)
		if !ok || user == "" || path == "" {
			return nil, fmt.Errorf("invalid argument %q, expected USER=FILE", arg)
		}
		if seen[user] {
			return nil, fmt.Errorf("user %s given more than once", user)
		}
		seen[user] = true
		res = append(res, upload{username: user, path: path})
	}
	return res, nil
}

func withService(c *cli.Context, fn func(*service.ProfileService) error) error {
	badges, err := achievement.LoadConfig(c.String("badges"))
	if err != nil {
		return err
	}
	conn, err := database.Open(c.Context, database.Config{Path: c.String("db")})
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(service.NewProfileService(repository.NewProfileRepository(conn), profile.Options{
		LinkBase: c.String("link-base"),
		Engine:   achievement.New(badges),
	}))
}

func encode(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", " ")
	return enc.Encode(v)
}

func importAction(c *cli.Context) error {
	todo, err := uploads(c.Args().Slice())
	if err != nil {
		return err
	}
	return withService(c, func(svc *service.ProfileService) error {
		summaries := make([]models.UploadSummary, len(todo))
		grp, ctx := errgroup.WithContext(c.Context)
		grp.SetLimit(concurrency)
		for i := range todo {
			i, u := i, todo[i]
			grp.Go(func() error {
				fp, err := os.Open(u.path)
				if err != nil {
					return err
				}
				defer fp.Close()
				log.Info().Str("username", u.username).Str("file", u.path).Msg("import")
				snap, err := svc.Upload(ctx, u.username, fp)
				if err != nil {
					return fmt.Errorf("%s: %w", u.username, err)
				}
				summaries[i] = models.UploadSummary{
					Username:      snap.Profile.Username,
					UploadID:      snap.Profile.UploadID,
					ActivityCount: snap.Profile.ActivityCount,
					RankInfo:      snap.RankInfo,
					Stats:         snap.Profile.Stats,
				}
				return nil
			})
		}
		if err := grp.Wait(); err != nil {
			return err
		}
		return encode(c, summaries)
	})
}

func showAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one USER argument")
	}
	return withService(c, func(svc *service.ProfileService) error {
		dash, err := svc.Dashboard(c.Context, c.Args().First(), models.ActivityFilter{
			Page:     c.Int("page"),
			PageSize: c.Int("page-size"),
		})
		if err != nil {
			return err
		}
		dash.Ranks = nil
		return encode(c, dash)
	})
}

func leaderboardAction(c *cli.Context) error {
	return withService(c, func(svc *service.ProfileService) error {
		board, err := svc.Leaderboard(c.Context)
		if err != nil {
			return err
		}
		if c.Bool("json") {
			return encode(c, board)
		}
		w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tUSER\tRANK\tHOURS\tPERCENTILE")
		for _, e := range board.Leaderboard {
			fmt.Fprintf(w, "%d\t%s\t%s %s\t%.1f\t%.1f\n", e.Rank, e.Username, e.RankEmoji, e.RankName, e.TotalHours, e.Percentile)
		}
		return w.Flush()
	})
}

func ladderAction(c *cli.Context) error {
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tHOURS")
	for _, lvl := range ranks.Ladder() {
		fmt.Fprintf(w, "%s %s\t%g\n", lvl.Emoji, lvl.Name, lvl.MinPoints)
	}
	return w.Flush()
}

func migrateAction(c *cli.Context) error {
	return withService(c, func(svc *service.ProfileService) error {
		n, err := svc.MigrateAchievements(c.Context)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "rewrote %d profiles\n", n)
		return nil
	})
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "ranks",
		HelpName: "ranks",
		Usage:    "Activity ranks from exported activity CSV files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Value:   "./data/ranks.db",
				Usage:   "path to the SQLite database",
				EnvVars: []string{"DB_PATH"},
			},
			&cli.StringFlag{
				Name:    "link-base",
				Value:   "https://www.strava.com/activities/",
				Usage:   "prefix for activity links",
				EnvVars: []string{"ACTIVITY_LINK_BASE"},
			},
			&cli.StringFlag{
				Name:    "badges",
				Usage:   "JSON file with badge thresholds and occasions",
				EnvVars: []string{"BADGE_TABLE"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Value:   false,
				Usage:   "enable debug logging",
			},
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			log.Error().Err(err).Msg(c.App.Name)
		},
		Before: func(c *cli.Context) error {
			level := "info"
			if c.Bool("verbose") {
				level = "debug"
			}
			return logging.Setup(c.App.ErrWriter, level)
		},
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "import activity exports, replacing each user's profile",
				ArgsUsage: "USER=FILE...",
				Action:    importAction,
			},
			{
				Name:      "show",
				Usage:     "show a user's dashboard",
				ArgsUsage: "USER",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 1, Usage: "activity page"},
					&cli.IntFlag{Name: "page-size", Value: 200, Usage: "activities per page"},
				},
				Action: showAction,
			},
			{
				Name:  "leaderboard",
				Usage: "rank every stored user",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "emit JSON"},
				},
				Action: leaderboardAction,
			},
			{
				Name:   "ladder",
				Usage:  "list every rank and the hours it needs",
				Action: ladderAction,
			},
			{
				Name:   "migrate",
				Usage:  "rewrite stored achievements in the current format",
				Action: migrateAction,
			},
		},
	}
}

func main() {
	if err := newApp().RunContext(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
	os.Exit(0)
}
