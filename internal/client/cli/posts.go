package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/aora/internal/client/models"
	"github.com/dmitrijs2005/aora/internal/client/resource"
	"github.com/dmitrijs2005/aora/internal/common"
)

const dateLayout = "2006-01-02 15:04"

func (a *App) show(r *postList, res resource.Result[[]models.Post]) error {
	a.last = r
	if res.Err != nil {
		return res.Err
	}
	printPosts(a.out, res.Data)
	return nil
}

// Posts lists every post, newest first.
func (a *App) Posts(ctx context.Context) error {
	return a.show(a.feed, a.feed.Activate(ctx))
}

// Latest lists the most recent posts.
func (a *App) Latest(ctx context.Context) error {
	return a.show(a.latest, a.latest.Activate(ctx))
}

// Mine lists posts created by the signed-in user. Switching users reloads
// the list because the producer is keyed by profile id.
func (a *App) Mine(ctx context.Context) error {
	u := a.store.Snapshot().CurrentUser
	if u == nil {
		return common.ErrAuth
	}
	ownerID := u.ID
	res := a.mine.SetProducer(ctx, ownerID, func(ctx context.Context) ([]models.Post, error) {
		return a.content.ListByOwner(ctx, ownerID)
	})
	return a.show(a.mine, res)
}

func (a *App) Search(ctx context.Context, text string) error {
	res := a.search.SetProducer(ctx, text, func(ctx context.Context) ([]models.Post, error) {
		return a.content.Search(ctx, text)
	})
	return a.show(a.search, res)
}

// Refetch reloads the list shown last.
func (a *App) Refetch(ctx context.Context) error {
	if a.last == nil {
		return a.Posts(ctx)
	}
	return a.show(a.last, a.last.Refetch(ctx))
}

// Create prompts for the post form and publishes it with both assets.
func (a *App) Create(ctx context.Context) error {
	u := a.store.Snapshot().CurrentUser
	if u == nil {
		return common.ErrAuth
	}

	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	prompt, err := GetMultiline(a.reader, "Enter AI prompt", a.out)
	if err != nil {
		return err
	}
	thumb, err := getSimpleText(a.reader, "Thumbnail image path", a.out)
	if err != nil {
		return err
	}
	video, err := getSimpleText(a.reader, "Video file path", a.out)
	if err != nil {
		return err
	}

	post, err := a.content.CreateWithAssets(ctx, models.NewPost{
		Title:     title,
		Prompt:    prompt,
		Thumbnail: assetAt(thumb),
		Video:     assetAt(video),
		OwnerID:   u.ID,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Post %q created (%s)\n", post.Title, post.ID)
	return nil
}

func assetAt(path string) *models.UploadedAsset {
	if path == "" {
		return nil
	}
	return &models.UploadedAsset{Path: path}
}

func printPosts(w io.Writer, posts []models.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tTITLE\tPROMPT\tVIDEO")
	for _, p := range posts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			p.CreatedAt.Format(dateLayout), p.Title, firstLine(p.Prompt), p.VideoURL)
	}
	_ = tw.Flush()
}

func firstLine(s string) string {
	line, _, cut := strings.Cut(s, "\n")
	if cut {
		return line + "..."
	}
	return line
}
