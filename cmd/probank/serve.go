package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/probank/probank/internal/api"
	"github.com/probank/probank/internal/auth"
	"github.com/probank/probank/internal/config"
	"github.com/probank/probank/internal/content"
	"github.com/probank/probank/internal/db"
	"github.com/probank/probank/internal/metrics"
	"github.com/probank/probank/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			problemStore := store.NewProblemStore(database)
			collectionStore := store.NewCollectionStore(database)
			tagStore := store.NewTagStore(database)
			commentStore := store.NewCommentStore(database)
			userStore := store.NewUserStore(database)
			reportStore := store.NewReportStore(database)
			tokenStore := auth.NewSQLTokenStore(database)

			tagResolver := content.NewTagResolver(tagStore)
			problems := content.NewProblemService(problemStore, tagResolver)
			collections := content.NewCollectionService(collectionStore, problemStore)
			comments := content.NewCommentService(commentStore, problemStore)

			ctx := context.Background()
			viewCh := make(chan string, 256)
			go runViewWriter(ctx, viewCh, problems)

			deps := api.Deps{
				BearerAuth:  auth.NewBearerTokenMiddleware(tokenStore, userStore),
				Problems:    problems,
				Collections: collections,
				Comments:    comments,
				Tags:        tagResolver,
				ProblemLikes: content.NewEngagement("problem-like",
					store.NewEdgeStore(database, store.TableProblemLikes),
					problemStore.LikeCounter(), content.NewProblemTargets(problemStore)),
				ProblemFavorites: content.NewEngagement("problem-favorite",
					store.NewEdgeStore(database, store.TableProblemFavorites),
					problemStore.FavoriteCounter(), content.NewProblemTargets(problemStore)),
				CommentLikes: content.NewEngagement("comment-like",
					store.NewEdgeStore(database, store.TableCommentLikes),
					commentStore.LikeCounter(), content.NewCommentTargets(commentStore, problemStore)),
				Reports:    reportStore,
				Users:      userStore,
				TokenStore: tokenStore,
				Views:      viewCh,
			}

			r := chi.NewRouter()
			r.Use(middleware.RequestID)
			r.Use(middleware.Recoverer)
			r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("ok"))
			})
			r.Handle("/metrics", promhttp.Handler())
			r.Mount("/api/v1", api.NewAPIRouter(deps))
			r.Mount("/shared", api.NewShareRouter(deps))

			log.Info().Str("addr", cfg.HTTP.Addr).Msg("listening")
			return http.ListenAndServe(cfg.HTTP.Addr, r)
		},
	}
}

// runViewWriter reads problem ids from the channel and bumps their view
// counters. View writes are best effort; a failed write is logged and
// dropped. On context cancellation it drains remaining ids before
// returning.
func runViewWriter(ctx context.Context, ch <-chan string, problems *content.ProblemService) {
	record := func(ctx context.Context, id string) {
		if err := problems.RecordView(ctx, id); err != nil {
			metrics.ViewRecordErrorsTotal.Inc()
			log.Error().Err(err).Str("problem_id", id).Msg("view write error")
			return
		}
		metrics.ViewsRecordedTotal.Inc()
	}

	for {
		select {
		case id, ok := <-ch:
			if !ok {
				return
			}
			record(ctx, id)
		case <-ctx.Done():
			for {
				select {
				case id, ok := <-ch:
					if !ok {
						return
					}
					record(context.Background(), id)
				default:
					return
				}
			}
		}
	}
}
