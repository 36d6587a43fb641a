package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/post"
	"github.com/matzehuels/postcard/pkg/render/card"
)

// maxTextColumn caps the text column of the fetch table.
const maxTextColumn = 48

type fetchOpts struct {
	json    bool
	noCache bool
}

// fetchCommand creates the fetch command that looks up posts and prints them.
func (c *CLI) fetchCommand() *cobra.Command {
	var opts fetchOpts

	cmd := &cobra.Command{
		Use:   "fetch <post-id>...",
		Short: "Look up posts and print them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print posts as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the cache backend")

	return cmd
}

func (c *CLI) runFetch(ctx context.Context, ids []string, opts fetchOpts) error {
	if err := perrors.ValidatePostIDs(ids); err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	posts, err := runner.FetchAll(ctx, ids)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Fetched %d of %d posts", len(posts), len(ids)))

	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(posts)
	}
	if len(posts) == 0 {
		printWarning("No posts found")
		return nil
	}
	fmt.Fprintln(stdout, postTable(posts))
	return nil
}

// postTable renders posts as a bordered table.
func postTable(posts []post.Post) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(posts))
	for i, p := range posts {
		rows[i] = []string{p.ID, "@" + p.Author.Username, postDate(p), likes(p), oneLine(p.Text, maxTextColumn)}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Author", "Posted", "Likes", "Text").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 3:
				return StyleNumber
			case col == 0:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func postDate(p post.Post) string {
	if p.CreatedAt.IsZero() {
		return "-"
	}
	return p.CreatedAt.Format("Jan 2, 2006")
}

func likes(p post.Post) string {
	if p.Metrics == nil {
		return "-"
	}
	return card.FormatCompact(int64(p.Metrics.LikeCount))
}

// oneLine collapses whitespace and truncates s to n runes.
func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(card.FormatText(s)), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
