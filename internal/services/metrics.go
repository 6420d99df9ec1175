package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	awayPagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cultivate_away_pages_total",
		Help: "Archive pages served, by item type",
	}, []string{"type"})

	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cultivate_searches_total",
		Help: "Search requests served, by scope",
	}, []string{"scope"})

	metadataFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cultivate_metadata_fetches_total",
		Help: "Page title fetch attempts, by outcome",
	}, []string{"outcome"})

	inviteCodesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cultivate_invite_codes_generated_total",
		Help: "Invite codes generated",
	})

	mcpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cultivate_mcp_requests_total",
		Help: "MCP tool invocations, by tool",
	}, []string{"tool"})
)

// RecordMCPRequest counts one MCP tool invocation
func RecordMCPRequest(tool string) {
	mcpRequestsTotal.WithLabelValues(tool).Inc()
}
