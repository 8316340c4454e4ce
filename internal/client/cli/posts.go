package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/client/client"
)

func (a *App) printPost(p *client.Post, full bool) {
	fmt.Fprintf(a.out, "#%d %s (author %d, %s)\n", p.ID, p.Title, p.AuthorID, p.CreatedAt.Format(time.DateTime))
	if full {
		fmt.Fprintln(a.out, p.Content)
	}
}

func (a *App) List(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	posts, err := a.api.ListPosts(ctx)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts yet")
		return nil
	}
	for _, p := range posts {
		a.printPost(p, false)
	}
	return nil
}

func (a *App) Show(ctx context.Context) error {
	id, err := getID(a.reader, "Enter post id to show", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.api.GetPost(ctx, id)
	if err != nil {
		return err
	}
	a.printPost(p, true)
	return nil
}

func (a *App) Create(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Enter content", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.api.CreatePost(ctx, title, content)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created post #%d\n", p.ID)
	return nil
}

// Update replaces both title and content of a post owned by the current user.
func (a *App) Update(ctx context.Context) error {
	id, err := getID(a.reader, "Enter post id to update", a.out)
	if err != nil {
		return err
	}
	title, err := getSimpleText(a.reader, "Enter new title", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Enter new content", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.api.UpdatePost(ctx, id, title, content)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated post #%d\n", p.ID)
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	id, err := getID(a.reader, "Enter post id to delete", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.api.DeletePost(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted post #%d\n", id)
	return nil
}
