package cmd

import (
	"fmt"

	"github.com/Digital-Shane/reelshelf/internal/catalog"
	"github.com/Digital-Shane/reelshelf/internal/media"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	var episodes int
	cmd := &cobra.Command{
		Use:   "parse URL",
		Short: "Show the series details recognized in a URL",
		Long: `Parse the filename at the end of URL the same way adding a series does.

With --episodes the generated episode URLs are listed as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd.OutOrStdout())
			url := args[0]

			if info, ok := media.ParseURL(url).Get(); ok {
				p.heading(media.FilenameFromURL(url))
				p.parsed(info)
			} else {
				p.warn("Unrecognized filename, episodes use generic numbering")
			}

			if episodes == 0 {
				return nil
			}
			batch, err := media.GenerateEpisodes(url, episodes)
			if err != nil {
				return err
			}
			p.line("")
			p.heading(fmt.Sprintf("Episodes (%s)", batch.Mode))
			for _, ep := range batch.Episodes {
				p.line("  %02d  %s", ep.Number, ep.URL)
			}
			if batch.Approximate {
				p.warn("Episode numbers could not be located in the URL, results are approximate")
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&episodes, "episodes", "n", 0, "Also generate this many episode URLs")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a movie or series to the catalog",
	}
	cmd.AddCommand(newAddMovieCmd(a), newAddSeriesCmd(a))
	return cmd
}

func newAddMovieCmd(a *app) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "movie TITLE URL",
		Short: "Add a movie",
		Args:  cobra.ExactArgs(2),
		RunE: a.write(func(cmd *cobra.Command, args []string, svc *catalog.Service) error {
			c, err := svc.AddMovie(cmd.Context(), args[0], args[1], description)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).success("Added movie %q (%s)", c.Title, shortID(c.ID))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Movie description")
	return cmd
}

func newAddSeriesCmd(a *app) *cobra.Command {
	var (
		title       string
		description string
		episodes    int
	)
	cmd := &cobra.Command{
		Use:   "series URL",
		Short: "Add a series from the URL of one episode",
		Long: `Add a series from the URL of one of its episodes.

When the filename is recognized the title and description are filled in from it
and the season/episode token is rewritten for every episode. Otherwise the first
episode number in the URL is replaced, or an episode query parameter is appended.`,
		Args: cobra.ExactArgs(1),
		RunE: a.write(func(cmd *cobra.Command, args []string, svc *catalog.Service) error {
			total := episodes
			if total == 0 {
				total = a.cfg.DefaultEpisodes
			}
			c, batch, err := svc.AddSeries(cmd.Context(), title, description, args[0], total)
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			p.success("Added series %q (%s) with %d episodes", c.Title, shortID(c.ID), len(c.Episodes))
			if batch.Approximate {
				p.warn("Episode numbers could not be located in the URL, check the generated links")
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Series title (defaults to the parsed name)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Series description (defaults to the parsed details)")
	cmd.Flags().IntVarP(&episodes, "episodes", "n", 0, "Number of episodes (defaults to the configured count)")
	return cmd
}

func newQuickAddCmd(a *app) *cobra.Command {
	var episodes int
	cmd := &cobra.Command{
		Use:   "quick-add URL",
		Short: "Add a series from a recognized release filename",
		Args:  cobra.ExactArgs(1),
		RunE: a.write(func(cmd *cobra.Command, args []string, svc *catalog.Service) error {
			total := episodes
			if total == 0 {
				total = a.cfg.DefaultEpisodes
			}
			c, err := svc.QuickAdd(cmd.Context(), args[0], total)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).success("Added series %q (%s) with %d episodes", c.Title, shortID(c.ID), len(c.Episodes))
			return nil
		}),
	}
	cmd.Flags().IntVarP(&episodes, "episodes", "n", 0, "Number of episodes (defaults to the configured count)")
	return cmd
}

func newRangeCmd(a *app) *cobra.Command {
	var name, start, end, perSeason string
	cmd := &cobra.Command{
		Use:   "range TEMPLATE",
		Short: "Add one series entry per season from a URL template",
		Long: `Add one series entry per season from a URL template.

The template may contain {season}, {episode}, {season:02d} and {episode:02d}.
Entries are named with the configured range title and description templates.`,
		Example: `  reelshelf range 'https://host/show/S{season:02d}E{episode:02d}.mkv' --name "My Show" --start 1 --end 3 --per-season 10`,
		Args:    cobra.ExactArgs(1),
		RunE: a.write(func(cmd *cobra.Command, args []string, svc *catalog.Service) error {
			var (
				req media.RangeRequest
				err error
			)
			if req.StartSeason, err = media.ParseSeason("start season", start); err != nil {
				return err
			}
			if req.EndSeason, err = media.ParseSeason("end season", end); err != nil {
				return err
			}
			if req.EpisodesPerSeason, err = media.ParseCount("episodes per season", perSeason); err != nil {
				return err
			}
			contents, err := svc.AddSeasonRange(cmd.Context(), name, args[0], req)
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			p.success("Added %d seasons of %q", len(contents), name)
			for _, c := range contents {
				p.line("  %s  %s (%d episodes)", shortID(c.ID), c.Title, len(c.Episodes))
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "Series name")
	cmd.Flags().StringVar(&start, "start", "1", "First season (0 for specials)")
	cmd.Flags().StringVar(&end, "end", "1", "Last season")
	cmd.Flags().StringVar(&perSeason, "per-season", "10", "Episodes in each season")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var (
		search string
		filter string
		recent int
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List catalog entries",
		Args:    cobra.NoArgs,
		RunE: a.read(func(cmd *cobra.Command, _ []string, svc *catalog.Service) error {
			p := newPrinter(cmd.OutOrStdout())
			if recent > 0 {
				contents, err := svc.RecentlyWatched(cmd.Context(), recent)
				if err != nil {
					return err
				}
				p.table(contents)
				return nil
			}

			f := catalog.Filter(filter)
			switch f {
			case catalog.FilterAll, catalog.FilterMovie, catalog.FilterSeries, catalog.FilterBookmarked:
			default:
				return &media.ValidationError{Field: "filter", Value: filter, Message: "must be all, movie, series or bookmarked"}
			}
			contents, err := svc.Search(cmd.Context(), search, f)
			if err != nil {
				return err
			}
			p.table(contents)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only titles containing this text")
	cmd.Flags().StringVarP(&filter, "filter", "f", string(catalog.FilterAll), "all, movie, series or bookmarked")
	cmd.Flags().IntVar(&recent, "recent", 0, "Show the N most recently watched entries instead")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show an entry with its progress, rating and episodes",
		Args:  cobra.ExactArgs(1),
		RunE: a.read(func(cmd *cobra.Command, args []string, svc *catalog.Service) error {
			ctx := cmd.Context()
			c, err := resolveID(ctx, svc, args[0])
			if err != nil {
				return err
			}
			history, err := svc.GetHistory(ctx, c.ID)
			if err != nil {
				return err
			}
			rating, err := svc.RatingFor(ctx, c.ID)
			if err != nil {
				return err
			}
			bookmarked, err := svc.IsBookmarked(ctx, c.ID)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			p.heading(p.theme.KindIcon(string(c.Type)) + " " + c.Title)
			p.field("ID", c.ID)
			p.field("Type", string(c.Type))
			if c.Description != "" {
				p.field("Description", c.Description)
			}
			p.field("Added", humanize.Time(c.CreatedAt))
			if c.URL != "" {
				p.field("URL", c.URL)
			}
			if r, ok := rating.Get(); ok {
				p.field("Rating", p.theme.Stars(r))
			}
			if bookmarked {
				p.field("Bookmarked", "yes")
			}
			if h, ok := history.Get(); ok {
				progress := fmt.Sprintf("%.0f%%", h.Progress()*100)
				if h.CurrentEpisode > 0 {
					progress = fmt.Sprintf("episode %d, %s", h.CurrentEpisode, progress)
				}
				p.field("Watched", progress+", "+humanize.Time(h.Timestamp))
			}
			for _, ep := range c.Episodes {
				p.line("  %02d  %-12s %s", ep.Number, ep.Title, ep.URL)
			}
			return nil
		}),
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete an entry with its history, bookmark and rating",
		Args:    cobra.ExactArgs(1),
		RunE: a.write(func(cmd *cobra.Command, args []string, svc *catalog.Service) error {
			c, err := resolveID(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			if err := svc.DeleteContent(cmd.Context(), c.ID); err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).success("Deleted %q", c.Title)
			return nil
		}),
	}
}
