package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/post"
)

// pickCommand creates the pick command: fetch several posts, choose one in a
// list and render it.
func (c *CLI) pickCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "pick <post-id>...",
		Short: "Choose a post interactively and render it",
		Long: `Fetch the given posts and choose one to render. Posts they quote or
reply to are offered as well.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPick(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <post-id>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png, svg, json")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "scale factor, at most 4")
	cmd.Flags().StringVar(&opts.timezone, "tz", "", "timezone for the post timestamp")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the cache backend")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "upload the card to the configured bucket")

	return cmd
}

func (c *CLI) runPick(ctx context.Context, ids []string, opts renderOpts) error {
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

	spinner := newSpinner(ctx, "Fetching posts...")
	spinner.Start()
	posts, err := runner.FetchAll(ctx, ids)
	spinner.Stop()
	if err != nil {
		return err
	}
	candidates := withReferences(posts)
	if len(candidates) == 0 {
		printWarning("No posts found")
		return nil
	}

	final, err := tea.NewProgram(NewPostListModel(candidates), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	m, ok := final.(PostListModel)
	if !ok || m.Selected == nil {
		printInfo("Nothing selected")
		return nil
	}
	return c.renderPost(ctx, cfg, runner, m.Selected.ID, opts)
}

// withReferences returns posts followed by the posts they reference, each id
// once.
func withReferences(posts []post.Post) []post.Post {
	seen := make(map[string]bool)
	var out []post.Post
	add := func(p post.Post) {
		if p.ID == "" || seen[p.ID] {
			return
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	for _, p := range posts {
		add(p)
	}
	for _, p := range posts {
		for _, ref := range p.Referenced {
			add(ref.Post)
		}
	}
	return out
}

// =============================================================================
// PostListModel - Interactive post selection
// =============================================================================

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// PostListModel is the bubbletea model for choosing a post.
type PostListModel struct {
	Posts    []post.Post
	Cursor   int
	Selected *post.Post
	Height   int
	Offset   int
}

// NewPostListModel creates a list over posts.
func NewPostListModel(posts []post.Post) PostListModel {
	return PostListModel{Posts: posts, Height: 10}
}

func (m PostListModel) Init() tea.Cmd { return nil }

func (m PostListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.Offset = min(m.Offset, m.Cursor)
			}
		case "down", "j":
			if m.Cursor < len(m.Posts)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			p := m.Posts[m.Cursor]
			m.Selected = &p
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Each entry takes two lines plus the header.
		m.Height = max((msg.Height-4)/2, 3)
	}
	return m, nil
}

func (m PostListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Post"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Posts))
	for i := m.Offset; i < end; i++ {
		p := m.Posts[i]
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "> "
			style = listSelectedStyle
		}
		head := fmt.Sprintf("%s%s %s", cursor, p.Author.Name, StyleHighlight.Render("@"+p.Author.Username))
		b.WriteString(style.Render(head))
		b.WriteString(listDimStyle.Render("  " + postDate(p)))
		b.WriteString("\n")
		b.WriteString("    " + listDimStyle.Render(oneLine(p.Text, 60)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Posts))))
	return b.String()
}
