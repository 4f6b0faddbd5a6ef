package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"likedposts/app/client"
	"likedposts/app/models"
	"likedposts/app/services"
	"likedposts/app/views"

	"github.com/eiannone/keyboard"
	"github.com/spf13/cobra"
)

var browseTab string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse liked posts interactively",
	Args:  cobra.NoArgs,
	RunE:  browse,
}

func init() {
	RootCmd.AddCommand(browseCmd)
	browseCmd.Flags().StringVarP(&browseTab, "tab", "t", string(models.TabLikedByMe), "tab to start on")
}

const browseHelp = "(t) switch tab | (n)ext | (p)rev | (s)elect | (u)nlike | (r)etry | (q)uit"

func browse(cmd *cobra.Command, args []string) error {
	tab, err := models.ParseTab(browseTab)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	keys, err := openKeys()
	if err != nil {
		return err
	}
	defer keys.Close()

	b := &browser{
		view: services.NewLikedPostsView(s.client(cfg), tab, 1, services.WithPageSize(cfg.PageSize)),
		out:  cmd.OutOrStdout(),
		keys: keys,
		now:  time.Now,
	}
	return b.run(cmd.Context())
}

// browser drives one view from key presses, redrawing after each.
type browser struct {
	view *services.LikedPostsView
	out  io.Writer
	keys keySource
	now  func() time.Time
}

func (b *browser) run(ctx context.Context) error {
	err := b.view.Mount(ctx)
	b.render()
	// nothing to browse without a usable token
	if err != nil && client.IsAuthError(err) {
		return errReported
	}

	for {
		char, key, err := b.keys.GetKey()
		if err != nil {
			return err
		}
		if char == 'q' || key == keyboard.KeyEsc || key == keyboard.KeyCtrlC {
			return nil
		}
		if b.handle(ctx, char) {
			b.render()
		}
	}
}

// handle applies one command key and reports whether the screen changed.
func (b *browser) handle(ctx context.Context, char rune) bool {
	state := b.view.State()

	switch char {
	case 't':
		next := models.TabMyLikedPosts
		if state.Tab == models.TabMyLikedPosts {
			next = models.TabLikedByMe
		}
		b.view.SwitchTab(ctx, next)
	case 'n':
		changed, _ := b.view.ChangePage(ctx, state.Page+1)
		return changed
	case 'p':
		changed, _ := b.view.ChangePage(ctx, state.Page-1)
		return changed
	case 'r':
		b.view.Refresh(ctx)
	case 's':
		post, ok := b.pickPost(state)
		if !ok {
			b.view.ClearSelection()
			return true
		}
		b.view.SelectPost(ctx, post.ID)
	case 'u':
		post := state.Selected
		if post == nil {
			picked, ok := b.pickPost(state)
			if !ok {
				return true
			}
			post = &picked
		}
		b.view.Unlike(ctx, post.ID, confirmUnlike(b.out, b.keys))
	default:
		return false
	}
	return true
}

// pickPost asks for a row number of the current page.
func (b *browser) pickPost(state services.State) (models.Post, bool) {
	if len(state.Posts) == 0 {
		return models.Post{}, false
	}
	promptColor.Fprintf(b.out, "Post # (1-%d)> ", len(state.Posts))
	n, ok := b.readNumber()
	if !ok || n < 1 || n > len(state.Posts) {
		return models.Post{}, false
	}
	return state.Posts[n-1], true
}

// readNumber reads digits up to Enter. Esc or any other key cancels.
func (b *browser) readNumber() (int, bool) {
	var digits []rune
	for {
		char, key, err := b.keys.GetKey()
		if err != nil {
			return 0, false
		}
		switch {
		case key == keyboard.KeyEnter:
			fmt.Fprintln(b.out)
			n, err := strconv.Atoi(string(digits))
			return n, err == nil
		case (key == keyboard.KeyBackspace || key == keyboard.KeyBackspace2) && len(digits) > 0:
			digits = digits[:len(digits)-1]
			fmt.Fprint(b.out, "\b \b")
		case char >= '0' && char <= '9':
			digits = append(digits, char)
			fmt.Fprint(b.out, string(char))
		default:
			fmt.Fprintln(b.out)
			return 0, false
		}
	}
}

func (b *browser) render() {
	fmt.Fprintln(b.out)
	views.WriteText(b.out, views.NewPage(b.view.State(), b.now()))
	printHint(b.out, browseHelp)
}
