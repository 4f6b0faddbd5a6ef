package cmd

import (
	"time"

	"likedposts/app/client"
	"likedposts/app/models"
	"likedposts/app/services"
	"likedposts/app/views"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	listTab   string
	listPage  int
	listLimit int
	listPost  string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List liked posts",
	Args:    cobra.NoArgs,
	RunE:    list,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the stats of your posts",
	Args:  cobra.NoArgs,
	RunE:  stats,
}

func init() {
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(statsCmd)

	listCmd.Flags().StringVarP(&listTab, "tab", "t", string(models.TabLikedByMe), "liked-by-me (liked) or my-liked-posts (mine)")
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page number")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "posts per page (default from config)")
	listCmd.Flags().StringVar(&listPost, "post", "", "also show the detail of this post")
}

func list(cmd *cobra.Command, args []string) error {
	tab, err := models.ParseTab(listTab)
	if err != nil {
		return err
	}
	limit := listLimit
	if limit == 0 {
		limit = cfg.PageSize
	}
	q := models.ListQuery{Tab: tab, Page: listPage, Limit: limit}
	if err := q.Validate(); err != nil {
		return errors.Wrap(err, "invalid list options")
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	view := services.NewLikedPostsView(s.client(cfg), q.Tab, q.Page, services.WithPageSize(q.Limit))

	stop := startSpinner(cmd.ErrOrStderr(), "Loading posts")
	err = view.Mount(ctx)
	if state := view.State(); err == nil && state.PastEnd() {
		_, err = view.ChangePage(ctx, state.Pagination.TotalPages)
	}
	if err == nil && listPost != "" {
		err = view.SelectPost(ctx, listPost)
	}
	stop()

	views.WriteText(cmd.OutOrStdout(), views.NewPage(view.State(), time.Now()))
	if err != nil {
		return errReported
	}
	return nil
}

func stats(cmd *cobra.Command, args []string) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	stop := startSpinner(cmd.ErrOrStderr(), "Loading stats")
	snapshot, err := s.client(cfg).FetchStats(cmd.Context())
	stop()

	if err != nil {
		return reportFetchError(cmd, err)
	}
	views.WriteStats(cmd.OutOrStdout(), snapshot)
	return nil
}

// reportFetchError prints the user-facing message for err, with the login
// hint when the token is missing or rejected.
func reportFetchError(cmd *cobra.Command, err error) error {
	w := cmd.OutOrStdout()
	errorColor.Fprintln(w, "🚨 "+client.Message(err))
	if client.IsAuthError(err) {
		printHint(w, "Run `likedposts login` to sign in.")
	}
	return errReported
}
