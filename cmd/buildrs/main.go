package main

import (
	"Buildrs/internal/client"
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/wallet"
	"Buildrs/internal/session"
	"context"
	"errors"
	"flag"
	"fmt"
	log "log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
)

const usage = `usage: buildrs [flags] <command> [args]

commands:
  login                     sign in and print the session token
  me                        show the signed-in profile
  vote <build-id> <type>    upvote or downvote a build; repeating a vote removes it
  leaderboard [period]      week, month or all (default all)
  stats                     platform totals

flags:
`

func main() {
	server := flag.String("server", envOr("BUILDRS_SERVER", "http://localhost:8080"), "API base URL")
	key := flag.String("key", os.Getenv("BUILDRS_KEY"), "hex private key used to sign in")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, client.New(*server), *key, flag.Arg(0), flag.Args()[1:]); err != nil {
		log.Error("command failed", "command", flag.Arg(0), "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, key, command string, args []string) error {
	switch command {
	case "login":
		s, err := signIn(ctx, c, key)
		if err != nil {
			return err
		}
		snap := s.Snapshot()
		fmt.Printf("signed in as %s (%s)\n", snap.Profile.DisplayName, wallet.FormatAddress(snap.User.Address))
		fmt.Println(c.Token())
		return nil

	case "me":
		if _, err := signIn(ctx, c, key); err != nil {
			return err
		}
		me, err := c.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s @%s %s\n", me.DisplayName, me.Username, me.ShortAddress)
		fmt.Printf("score %d  upvotes %d  streak %d  followers %d  following %d\n",
			me.BuilderScore, me.TotalUpvotes, me.BuildStreak, me.FollowerCount, me.FollowingCount)
		return nil

	case "vote":
		if len(args) != 2 {
			return errors.New("vote needs <build-id> <upvote|downvote>")
		}
		if _, err := signIn(ctx, c, key); err != nil {
			return err
		}
		state, err := c.Vote(ctx, args[0], model.VoteType(args[1]))
		if err != nil {
			return err
		}
		userVote := string(state.UserVote)
		if userVote == "" {
			userVote = "none"
		}
		fmt.Printf("upvotes %d  downvotes %d  your vote %s\n", state.Upvotes, state.Downvotes, userVote)
		return nil

	case "leaderboard":
		period := model.PeriodAll
		if len(args) > 0 {
			period = model.Period(args[0])
		}
		entries, err := c.Leaderboard(ctx, period)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RANK\tBUILDER\tWALLET\tSCORE\tUPVOTES\tSTREAK")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\n",
				e.Rank, e.DisplayName, wallet.FormatAddress(e.WalletAddress), e.FinalScore, e.TotalUpvotes, e.BuildStreak)
		}
		return w.Flush()

	case "stats":
		stats, err := c.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("builders %d  active %d  builds %d  upvotes %d\n",
			stats.TotalBuilders, stats.ActiveBuilders, stats.TotalBuilds, stats.TotalUpvotes)
		return nil
	}
	return fmt.Errorf("unknown command %q", command)
}

func signIn(ctx context.Context, c *client.Client, key string) (*session.Session, error) {
	if key == "" {
		return nil, errors.New("a private key is required, pass -key or set BUILDRS_KEY")
	}
	signer, err := wallet.NewKeySigner(key)
	if err != nil {
		return nil, err
	}
	s := session.New(c)
	if err = s.Connect(ctx, signer.Address(), signer); err != nil {
		return nil, err
	}
	if s.State() != session.Authenticated {
		return nil, errors.New("sign in failed")
	}
	return s, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
