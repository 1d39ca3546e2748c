package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PublishesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "probank_publishes_total",
		Help: "Successful problem publish transitions.",
	})

	EngagementOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "probank_engagement_ops_total",
		Help: "Engagement add/remove calls by kind and outcome.",
	}, []string{"kind", "op", "outcome"})

	ShareResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "probank_share_resolutions_total",
		Help: "Share-link lookups by result.",
	}, []string{"status"})

	ViewsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "probank_views_recorded_total",
		Help: "View increments successfully written to the database.",
	})

	ViewRecordErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "probank_view_record_errors_total",
		Help: "View increment write failures.",
	})

	ProblemsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "probank_problems_total",
		Help: "Total number of problems in the database.",
	})

	UsersTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "probank_users_total",
		Help: "Total number of registered users in the database.",
	})
)
