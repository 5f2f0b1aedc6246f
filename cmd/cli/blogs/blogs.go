package blogs

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/crucial707/blogfeed/cmd/cli/client"
	"github.com/crucial707/blogfeed/cmd/cli/output"
	"github.com/spf13/cobra"
)

type blog struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Author          string   `json:"author"`
	Tags            []string `json:"tags"`
	CommonTagsCount int      `json:"commonTagsCount,omitempty"`
}

// ==========================
// Init Blogs
// ==========================
func InitBlogs(rootCmd *cobra.Command) {
	blogsCmd := &cobra.Command{
		Use:   "blogs",
		Short: "Read and write blogs",
	}
	blogsCmd.AddCommand(
		listBlogsCmd(),
		getBlogCmd(),
		createBlogCmd(),
		updateBlogCmd(),
		deleteBlogCmd(),
	)
	rootCmd.AddCommand(blogsCmd, dashboardCmd())
}

func pageQuery(page, limit int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return "?" + q.Encode()
}

func renderBlogs(list []blog, ranked bool) {
	headers := []string{"ID", "Title", "Author", "Tags"}
	if ranked {
		headers = append(headers, "Shared")
	}
	rows := make([][]interface{}, 0, len(list))
	for _, b := range list {
		row := []interface{}{b.ID, output.Truncate(b.Title, 50), b.Author, output.Tags(b.Tags)}
		if ranked {
			row = append(row, b.CommonTagsCount)
		}
		rows = append(rows, row)
	}
	output.RenderTable(headers, rows)
}

// ==========================
// LIST
// ==========================
func listBlogsCmd() *cobra.Command {
	var page, limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []blog
			hdr, err := client.New().Do(cmd.Context(), "GET", "/blogs"+pageQuery(page, limit), nil, &list)
			if err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(list)
			}
			renderBlogs(list, false)
			fmt.Printf("page %d, %d of %s blogs", page, len(list), hdr.Get("X-Total-Count"))
			if hdr.Get("X-Has-More") == "true" {
				fmt.Print(" (more available)")
			}
			fmt.Println()
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 10, "blogs per page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// ==========================
// GET
// ==========================
func getBlogCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show one blog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var b blog
			if _, err := client.New().Do(cmd.Context(), "GET", "/blogs/"+url.PathEscape(args[0]), nil, &b); err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(b)
			}
			output.RenderKV([][2]string{
				{"ID", b.ID},
				{"Title", b.Title},
				{"Author", b.Author},
				{"Tags", output.Tags(b.Tags)},
			})
			fmt.Println(b.Content)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// ==========================
// CREATE / UPDATE
// ==========================
func blogFlags(cmd *cobra.Command, title, content *string, tags *[]string) {
	cmd.Flags().StringVar(title, "title", "", "blog title")
	cmd.Flags().StringVar(content, "content", "", "blog content")
	cmd.Flags().StringSliceVar(tags, "tags", nil, "tags (comma-separated)")
}

func createBlogCmd() *cobra.Command {
	var title, content string
	var tags []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a blog",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var out struct {
				ID string `json:"id"`
			}
			payload := map[string]interface{}{"title": title, "content": content, "tags": tags}
			if _, err := c.Do(cmd.Context(), "POST", "/blogs", payload, &out); err != nil {
				return err
			}
			fmt.Println("Blog created:", out.ID)
			return nil
		},
	}
	blogFlags(cmd, &title, &content, &tags)
	return cmd
}

func updateBlogCmd() *cobra.Command {
	var title, content string
	var tags []string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace a blog's title, content and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			payload := map[string]interface{}{"title": title, "content": content, "tags": tags}
			if _, err := c.Do(cmd.Context(), "PUT", "/blogs/"+url.PathEscape(args[0]), payload, nil); err != nil {
				return err
			}
			fmt.Println("Blog updated.")
			return nil
		},
	}
	blogFlags(cmd, &title, &content, &tags)
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteBlogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a blog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			if _, err := c.Do(cmd.Context(), "DELETE", "/blogs/"+url.PathEscape(args[0]), nil, nil); err != nil {
				return err
			}
			fmt.Println("Blog deleted.")
			return nil
		},
	}
}

// ==========================
// DASHBOARD
// ==========================
func dashboardCmd() *cobra.Command {
	var page, limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show blogs ranked by shared tags with your interests",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var list []blog
			if _, err := c.Do(cmd.Context(), "GET", "/dashboard"+pageQuery(page, limit), nil, &list); err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(list)
			}
			renderBlogs(list, true)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 10, "blogs per page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}
