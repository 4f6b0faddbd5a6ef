package views

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"likedposts/app/models"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

const maxTextWidth = 48

var (
	titleColor  = color.New(color.FgHiCyan, color.Bold)
	errorColor  = color.New(color.FgHiRed, color.Bold)
	alertColor  = color.New(color.FgHiYellow)
	noticeColor = color.New(color.FgHiGreen)
	mutedColor  = color.New(color.FgHiBlack)
)

// WriteText renders p for a terminal.
func WriteText(w io.Writer, p Page) {
	titleColor.Fprintln(w, p.Title)

	var tabs []string
	for _, t := range p.Tabs {
		if t.Active {
			tabs = append(tabs, "["+t.Title+"]")
		} else {
			tabs = append(tabs, t.Title)
		}
	}
	mutedColor.Fprintln(w, strings.Join(tabs, "  "))
	fmt.Fprintln(w)

	if p.Error != "" {
		errorColor.Fprintln(w, "🚨 "+p.Error)
		if p.NeedLogin {
			fmt.Fprintln(w, "Run `likedposts login` to sign in.")
		}
		fmt.Fprintln(w)
	}
	if p.Alert != "" {
		alertColor.Fprintln(w, "⚠️  "+p.Alert)
	}
	if p.Notice != "" {
		noticeColor.Fprintln(w, "✅ "+p.Notice)
	}

	if p.Empty {
		fmt.Fprintln(w, p.EmptyMessage)
	} else if len(p.Posts) > 0 {
		WritePostTable(w, p.Posts)
	}

	if p.Summary != nil {
		fmt.Fprintf(w, "Total Posts: %d  Total Likes: %d  Total Comments: %d  Average Likes: %.1f\n",
			p.Summary.TotalPosts, p.Summary.TotalLikes, p.Summary.TotalComments, p.Summary.AverageLikes)
	}

	if p.Stats != nil {
		mutedColor.Fprintf(w, "Overall: %d posts, %d likes, %.1f likes per post\n",
			p.Stats.TotalPosts, p.Stats.TotalLikes, p.Stats.AverageLikes)
	}

	if p.ShowPagination {
		mutedColor.Fprintf(w, "Page %d of %d (%d posts)\n", currentPage(p), p.Pagination.TotalPages, p.Pagination.TotalItems)
	}

	if p.Selected != nil {
		fmt.Fprintln(w)
		WritePostDetail(w, *p.Selected)
	}
}

// WriteStats renders the server's stats snapshot.
func WriteStats(w io.Writer, stats *models.PostStats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Posts", "Active", "Deleted", "Likes", "Comments", "Avg. likes", "Avg. comments"})
	table.Append([]string{
		strconv.Itoa(stats.TotalPosts),
		strconv.Itoa(stats.ActivePosts),
		strconv.Itoa(stats.DeletedPosts),
		strconv.Itoa(stats.TotalLikes),
		strconv.Itoa(stats.TotalComments),
		strconv.FormatFloat(stats.AverageLikes, 'f', 1, 64),
		strconv.FormatFloat(stats.AverageComments, 'f', 1, 64),
	})
	table.Render()
}

// WritePostTable renders post cards as a table.
func WritePostTable(w io.Writer, posts []PostCard) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "ID", "Author", "Posted", "Likes", "Comments", "Text"})
	table.SetAutoWrapText(false)

	for i, post := range posts {
		row := []string{
			strconv.Itoa(i + 1),
			post.ID,
			post.Author,
			post.Ago,
			strconv.Itoa(post.Likes),
			strconv.Itoa(post.Comments),
			truncate(post.Text, maxTextWidth),
		}
		table.Rich(row, []tablewriter.Colors{
			{tablewriter.Bold},
			{},
			{tablewriter.FgHiCyanColor},
			{},
			{tablewriter.FgHiGreenColor},
			{},
			{},
		})
	}

	table.Render()
}

// WritePostDetail renders one post with all of its comments and likers.
func WritePostDetail(w io.Writer, post PostCard) {
	titleColor.Fprintf(w, "%s · %s\n", post.Author, post.Ago)
	fmt.Fprintln(w, post.Text)
	if post.Image != "" {
		mutedColor.Fprintln(w, "🖼  "+post.Image)
	}
	fmt.Fprintf(w, "❤️  %d likes   💬 %d comments\n", post.Likes, post.Comments)
	if len(post.Likers) > 0 {
		mutedColor.Fprintln(w, "Liked by "+strings.Join(post.Likers, ", "))
	}
	for _, c := range post.Preview {
		fmt.Fprintf(w, "  %s: %s %s\n", color.New(color.Bold).Sprint(c.Author), c.Text, mutedColor.Sprint(c.Ago))
	}
	if post.MoreComments > 0 {
		mutedColor.Fprintf(w, "  +%d more\n", post.MoreComments)
	}
}

func currentPage(p Page) int {
	for _, l := range p.PageLinks {
		if l.Current {
			return l.Number
		}
	}
	return p.Pagination.CurrentPage
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
