package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"modernblog/app/client"
	"modernblog/app/config"
	"modernblog/app/logging"
	"modernblog/app/models"
	"modernblog/app/viewmodel"
	"modernblog/service"

	"github.com/rs/zerolog/log"
)

const cliVersion = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// run executes one CLI command and returns the process exit code.
func run(ctx context.Context, args []string, out io.Writer) int {
	if len(args) < 1 {
		printHelp(out)
		return 1
	}

	cmd := strings.ToLower(args[0])
	switch cmd {
	case "help":
		printHelp(out)
		return 0
	case "version":
		fmt.Fprintf(out, "modernblog version %s\n", cliVersion)
		return 0
	case "serve", "db", "browse":
	default:
		fmt.Fprintf(out, "Unknown command: %s\n\n", args[0])
		printHelp(out)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "Configuration error: %v\n", err)
		return 1
	}
	if _, err := logging.Setup(cfg.LogLevel, cfg.LogFormat, nil); err != nil {
		fmt.Fprintf(out, "Configuration error: %v\n", err)
		return 1
	}

	switch cmd {
	case "serve":
		if err := service.RunServer(ctx, cfg); err != nil {
			log.Error().Err(err).Msg("server failed")
			return 1
		}
		return 0
	case "db":
		cmds := service.NewDBCommands(cfg)
		cmds.Out = out
		return cmds.Handle(ctx, args[1:])
	default:
		return browse(ctx, cfg.APIURL, args[1:], out)
	}
}

func printHelp(out io.Writer) {
	helpText := `Usage: modernblog <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve                          Run the blog API server.
  db <command>                   Database maintenance (seed, clean, backup, restore).
  browse [options]               List, filter and read posts from a running server.
                                 -search s -category c -post id [-name n -message m]
`
	fmt.Fprintln(out, helpText)
}

// browse drives the reader view model against the API at apiURL.
func browse(ctx context.Context, apiURL string, args []string, out io.Writer) int {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	fs.SetOutput(out)
	api := fs.String("api", apiURL, "base URL of the blog API")
	search := fs.String("search", "", "show posts whose title or content contains this text")
	category := fs.String("category", viewmodel.AllCategories, "show posts in this category")
	postID := fs.String("post", "", "show one post with its comments")
	name := fs.String("name", "", "comment author, with -post")
	message := fs.String("message", "", "comment text, with -post")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	m := viewmodel.New(client.New(*api, nil))
	if err := m.Load(ctx); err != nil {
		fmt.Fprintln(out, err)
		return 1
	}
	m.SetSearch(*search)
	m.SetCategory(*category)

	if *postID == "" {
		printList(out, m)
		return 0
	}

	if err := m.Select(*postID); err != nil {
		fmt.Fprintf(out, "Post %s: %v\n", *postID, err)
		return 1
	}
	if *name != "" || *message != "" {
		m.SetDraft(*name, *message)
		if _, err := m.SubmitComment(ctx); err != nil {
			if errors.Is(err, viewmodel.ErrEmptyDraft) {
				fmt.Fprintln(out, "Please fill in both name and message fields")
			} else {
				fmt.Fprintf(out, "Failed to post comment: %v\n", err)
			}
			return 1
		}
		fmt.Fprintln(out, "Comment posted successfully!")
	}
	printPost(out, m.Selected())
	return 0
}

func printList(out io.Writer, m *viewmodel.Model) {
	fmt.Fprintf(out, "Categories: %s\n\n", strings.Join(m.Categories(), ", "))

	posts := m.Visible()
	if len(posts) == 0 {
		fmt.Fprintln(out, "No posts found matching your search.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tTITLE\tCOMMENTS")
	for _, p := range posts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			p.ID.Hex(), p.Date.Format("2006-01-02"), p.Category, p.Title, len(p.Comments))
	}
	tw.Flush()
}

func printPost(out io.Writer, p *models.Post) {
	fmt.Fprintf(out, "%s\n%s | %s | %s\n", p.Title, p.Category, p.Author, p.Date.Format("January 2, 2006"))
	if p.Image != "" {
		fmt.Fprintln(out, p.Image)
	}
	fmt.Fprintf(out, "\n%s\n\nComments (%d)\n", p.Content, len(p.Comments))
	for _, c := range p.Comments {
		fmt.Fprintf(out, "- %s (%s): %s\n", c.Name, c.Date.Format("2006-01-02 15:04"), c.Message)
	}
}
