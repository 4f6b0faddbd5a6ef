package cmd

import (
	"fmt"

	"likedposts/app/client"
	"likedposts/app/models"
	"likedposts/app/services"

	"github.com/spf13/cobra"
)

var unlikeYes bool

var unlikeCmd = &cobra.Command{
	Use:   "unlike <post-id>",
	Short: "Remove your like from a post",
	Args:  cobra.ExactArgs(1),
	RunE:  unlike,
}

func init() {
	RootCmd.AddCommand(unlikeCmd)
	unlikeCmd.Flags().BoolVarP(&unlikeYes, "yes", "y", false, "skip the confirmation")
}

func unlike(cmd *cobra.Command, args []string) error {
	id := args[0]

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	view := services.NewLikedPostsView(s.client(cfg), models.TabLikedByMe, 1, services.WithoutRefetchAfterUnlike())

	var confirm func(models.Post) bool
	if !unlikeYes {
		// the detail only makes the prompt friendlier; a missing token is fatal though
		if err := view.SelectPost(ctx, id); err != nil && client.IsAuthError(err) {
			return reportFetchError(cmd, err)
		}

		keys, err := openKeys()
		if err != nil {
			return err
		}
		defer keys.Close()
		confirm = confirmUnlike(out, keys)
	}

	ok, err := view.Unlike(ctx, id, confirm)
	if err != nil {
		errorColor.Fprintln(out, "🚨 "+view.State().Alert)
		if client.IsAuthError(err) {
			printHint(out, "Run `likedposts login` to sign in.")
		}
		return errReported
	}
	if !ok {
		fmt.Fprintln(out, "Cancelled")
		return nil
	}

	printSuccess(out, "%s", view.State().Notice)
	return nil
}
