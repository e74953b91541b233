package cms

import "context"

const homepagePath = "/homepage"

// GetHomepage returns the published homepage copy, or nil when the backend
// has none published.
func (c *Client) GetHomepage(ctx context.Context) (*Homepage, error) {
	env, err := Fetch[*Homepage](ctx, c, homepagePath, map[string]string{
		"status": "published",
	})
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}
