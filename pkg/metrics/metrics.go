// Package metrics exposes prometheus counters for the cart flow and the
// /metrics handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CartMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "panier_mutations_total",
		Help: "Cart mutations by operation (add, update, remove, clear, sync).",
	}, []string{"op"})

	SyncConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "panier_sync_conflicts_total",
		Help: "Article conflicts resolved during cart reconciliation.",
	})

	CheckoutTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "panier_checkouts_total",
		Help: "Carts converted to orders.",
	})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
