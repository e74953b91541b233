package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samvad-hq/folio-content/internal/app"
	"github.com/samvad-hq/folio-content/internal/config"
	"github.com/samvad-hq/folio-content/pkg/cms"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type rootOptions struct {
	url    string
	output string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "contentctl",
		Short:         "Query published portfolio content from the CMS",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.url, "url", "", "CMS origin (overrides STRAPI_URL)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "Output format: json or yaml")

	root.AddCommand(
		newProjectsCmd(opts),
		newProjectCmd(opts),
		newHomepageCmd(opts),
		newImageURLCmd(opts),
	)
	return root
}

// client builds a CMS client from env config plus flag overrides.
func (o *rootOptions) client() (*cms.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if u := strings.TrimSpace(o.url); u != "" {
		cfg.StrapiURL = u
	}
	return app.NewClient(cfg, nil)
}

func (o *rootOptions) print(w io.Writer, v any) error {
	switch strings.ToLower(o.output) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		// Round-trip through JSON so yaml keys follow the json tags.
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(generic)
	default:
		return fmt.Errorf("unsupported output format %q", o.output)
	}
}

func newProjectsCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List published projects, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			projects, err := c.ListProjects(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), projects)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of projects (0 = backend default)")
	return cmd
}

func newProjectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "project <slug>",
		Short: "Show a published project by slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			p, err := c.GetProjectBySlug(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("project %q not found", args[0])
			}
			return opts.print(cmd.OutOrStdout(), p)
		},
	}
}

func newHomepageCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "homepage",
		Short: "Show the published homepage copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			home, err := c.GetHomepage(cmd.Context())
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), home)
		},
	}
}

func newImageURLCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "image-url <path>",
		Short: "Resolve an uploaded image path to an absolute URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), c.ImageURL(&cms.Image{URL: args[0]}))
			return err
		},
	}
}
