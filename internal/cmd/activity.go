package cmd

import (
	"fmt"
	"strconv"

	"github.com/Digital-Shane/reelshelf/internal/catalog"
	"github.com/Digital-Shane/reelshelf/internal/media"
	"github.com/Digital-Shane/reelshelf/internal/playback"

	"github.com/dustin/go-humanize"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		episode  int
		next     bool
		position float64
		duration float64
		platform string
	)
	cmd := &cobra.Command{
		Use:   "watch ID",
		Short: "Resolve the stream for an entry and record progress",
		Long: `Resolve the URL to play for an entry and print links that open it in a player.

For a series the episode is --episode when given, otherwise the episode from the
viewing history, otherwise the first one. --next moves on from the history episode.
Progress is recorded so the next watch resumes where you left off.`,
		Args: cobra.ExactArgs(1),
		RunE: a.write(func(cmd *cobra.Command, args []string, svc *catalog.Service) error {
			ctx := cmd.Context()
			c, err := resolveID(ctx, svc, args[0])
			if err != nil {
				return err
			}
			history, err := svc.GetHistory(ctx, c.ID)
			if err != nil {
				return err
			}

			choice := mo.None[int]()
			if cmd.Flags().Changed("episode") {
				choice = mo.Some(episode)
			}
			target, err := playback.Resolve(c, choice, history)
			if err != nil {
				return err
			}
			if next {
				following, ok := playback.Next(c, target).Get()
				if !ok {
					return fmt.Errorf("%q has no episode after %d", c.Title, target.Episode)
				}
				target = following
			}

			if _, err := svc.SaveHistory(ctx, catalog.History{
				ContentID:      c.ID,
				CurrentEpisode: target.Episode,
				CurrentTime:    position,
				Duration:       duration,
			}); err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			p.heading(p.theme.Icon("play") + " " + target.DisplayTitle())
			p.line("%s", target.URL)
			p.line("")
			for _, link := range playback.Intents(target.URL, target.DisplayTitle()).Links() {
				p.field(link[0], link[1])
			}
			if recs := playback.Recommendations(playback.Platform(platform), target.URL); len(recs) > 0 {
				p.line("")
				p.heading("Tips")
				for _, r := range recs {
					p.line("  - %s", r)
				}
			}
			return nil
		}),
	}
	cmd.Flags().IntVarP(&episode, "episode", "e", 0, "Episode to play")
	cmd.Flags().BoolVar(&next, "next", false, "Play the episode after the current one")
	cmd.Flags().Float64Var(&position, "time", 0, "Playback position in seconds")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Duration in seconds")
	cmd.Flags().StringVar(&platform, "platform", string(playback.PlatformDesktop), "desktop, android or ios")
	cmd.MarkFlagsMutuallyExclusive("episode", "next")
	return cmd
}

func newBookmarkCmd(a *app) *cobra.Command {
	var episode int
	cmd := &cobra.Command{
		Use:   "bookmark ID",
		Short: "Bookmark an entry",
		Args:  cobra.ExactArgs(1),
		RunE: a.write(func(cmd *cobra.Command, args []string, svc *catalog.Service) error {
			c, err := resolveID(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			if _, err := svc.AddBookmark(cmd.Context(), c.ID, episode); err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).success("Bookmarked %q", c.Title)
			return nil
		}),
	}
	cmd.Flags().IntVarP(&episode, "episode", "e", 0, "Episode to remember")
	return cmd
}

func newUnbookmarkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unbookmark ID",
		Short: "Remove a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: a.write(func(cmd *cobra.Command, args []string, svc *catalog.Service) error {
			c, err := resolveID(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			if err := svc.RemoveBookmark(cmd.Context(), c.ID); err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).success("Removed bookmark for %q", c.Title)
			return nil
		}),
	}
}

func newBookmarksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bookmarks",
		Short: "List bookmarked entries",
		Args:  cobra.NoArgs,
		RunE: a.read(func(cmd *cobra.Command, _ []string, svc *catalog.Service) error {
			bookmarks, err := svc.Bookmarks(cmd.Context())
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			if len(bookmarks) == 0 {
				p.line("No bookmarks.")
				return nil
			}
			for _, b := range bookmarks {
				label := b.Title
				if b.CurrentEpisode > 0 {
					label = fmt.Sprintf("%s (episode %d)", label, b.CurrentEpisode)
				}
				p.line("%s %s  %s  %s", p.theme.Icon("bookmark"), shortID(b.ContentID), label, humanize.Time(b.Timestamp))
			}
			return nil
		}),
	}
}

func newRateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rate ID RATING",
		Short: fmt.Sprintf("Rate an entry from %d to %d", catalog.MinRating, catalog.MaxRating),
		Args:  cobra.ExactArgs(2),
		RunE: a.write(func(cmd *cobra.Command, args []string, svc *catalog.Service) error {
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return &media.ValidationError{Field: "rating", Value: args[1], Message: "must be a whole number"}
			}
			c, err := resolveID(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			r, err := svc.Rate(cmd.Context(), c.ID, rating)
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			p.success("Rated %q %s", c.Title, p.theme.Stars(r.Rating))
			return nil
		}),
	}
}
