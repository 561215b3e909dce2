package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/famtree/pkg/cache"
	"github.com/matzehuels/famtree/pkg/observability"
	"github.com/matzehuels/famtree/pkg/pipeline"
	"github.com/matzehuels/famtree/pkg/server"
	"github.com/matzehuels/famtree/pkg/store"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		noCache  bool
		projects bool
		stores   storeFlags
		maxBody  int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Rendered artifacts are cached in the local cache directory, or in Redis when
--redis is given. With --projects (or --mongo) the server also stores projects
under /v1/projects, as files or in MongoDB.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var artifacts cache.Cache
			switch {
			case redisURL != "":
				rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: redisURL, DialTimeout: 5 * time.Second})
				if err != nil {
					return fmt.Errorf("connect redis: %w", err)
				}
				artifacts = rc
				c.Logger.Info("Artifact cache", "backend", "redis")
			default:
				fc, err := newCache(noCache)
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
				artifacts = fc
			}
			runner := pipeline.NewRunner(artifacts, nil, c.Logger)
			defer runner.Close()

			presets, err := c.loadPresets()
			if err != nil {
				return err
			}
			opts := []server.Option{
				server.WithLogger(c.Logger),
				server.WithPresets(presets),
				server.WithMaxBodySize(maxBody),
			}
			if projects || stores.mongoURI != "" {
				st, err := stores.open(ctx)
				if err != nil {
					return fmt.Errorf("open project store: %w", err)
				}
				defer st.Close()
				if fs, ok := st.(*store.FileStore); ok {
					c.Logger.Info("Project store", "dir", fs.Dir())
				} else {
					c.Logger.Info("Project store", "backend", "mongodb")
				}
				opts = append(opts, server.WithStore(st))
			}

			observability.NewLogHooks(c.Logger).Install()
			return server.New(runner, opts...).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for the artifact cache (redis://host:6379/0)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")
	cmd.Flags().BoolVar(&projects, "projects", false, "enable the /v1/projects routes")
	cmd.Flags().StringVar(&stores.dir, "dir", "", "project directory (default: ~/.local/share/famtree/projects)")
	cmd.Flags().StringVar(&stores.mongoURI, "mongo", "", "MongoDB URI for the project store")
	cmd.Flags().StringVar(&stores.database, "mongo-db", "", "MongoDB database (default: famtree)")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodySize, "maximum request body in bytes")

	return cmd
}
