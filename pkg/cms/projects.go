package cms

import (
	"context"
	"strconv"
)

const projectsPath = "/projects"

func publishedProjectParams() map[string]string {
	return map[string]string{
		"sort":     "date:desc",
		"populate": "*",
		"status":   "published",
	}
}

// ListProjects returns published projects, newest first. A limit of zero or
// less leaves the page size to the backend.
func (c *Client) ListProjects(ctx context.Context, limit int) ([]Project, error) {
	params := publishedProjectParams()
	if limit > 0 {
		params["pagination[limit]"] = strconv.Itoa(limit)
	}

	env, err := Fetch[[]Project](ctx, c, projectsPath, params)
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []Project{}, nil
	}
	return env.Data, nil
}

// GetProjectBySlug returns the published project with the exact slug, or nil
// when there is none. Slugs are assumed unique; if the backend returns
// several matches the first one wins.
func (c *Client) GetProjectBySlug(ctx context.Context, slug string) (*Project, error) {
	env, err := Fetch[[]Project](ctx, c, projectsPath, map[string]string{
		"filters[slug][$eq]": slug,
		"populate":           "*",
		"status":             "published",
	})
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, nil
	}
	p := env.Data[0]
	return &p, nil
}

// ListProjectsPage returns one page of published projects together with the
// pagination metadata. page starts at 1.
func (c *Client) ListProjectsPage(ctx context.Context, page, pageSize int) (*Envelope[[]Project], error) {
	if page < 1 {
		page = 1
	}
	params := publishedProjectParams()
	params["pagination[page]"] = strconv.Itoa(page)
	if pageSize > 0 {
		params["pagination[pageSize]"] = strconv.Itoa(pageSize)
	}

	env, err := Fetch[[]Project](ctx, c, projectsPath, params)
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		env.Data = []Project{}
	}
	return env, nil
}

// AllProjects walks every page of published projects.
func (c *Client) AllProjects(ctx context.Context, pageSize int) ([]Project, error) {
	out := []Project{}
	for page := 1; ; page++ {
		env, err := c.ListProjectsPage(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}
		out = append(out, env.Data...)

		pg := env.Meta.Pagination
		if pg == nil || len(env.Data) == 0 || page >= pg.PageCount {
			return out, nil
		}
	}
}
