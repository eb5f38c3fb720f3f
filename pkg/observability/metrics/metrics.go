package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	sharesCreated      atomic.Int64
	sharesRejected     atomic.Int64
	shortLinksCreated  atomic.Int64
	shortLinksResolved atomic.Int64
	reportsViewed      atomic.Int64
	viewsFailed        atomic.Int64
	lastURLBytes       atomic.Int64
	auditRedactions    atomic.Int64
)

func ObserveShare(urlBytes int, shortLink bool) {
	sharesCreated.Add(1)
	lastURLBytes.Store(int64(urlBytes))
	if shortLink {
		shortLinksCreated.Add(1)
	}
}

// ObserveShareRejected counts shares refused because the link would not
// fit in a QR code.
func ObserveShareRejected() {
	sharesRejected.Add(1)
}

func ObserveView(ok bool) {
	if ok {
		reportsViewed.Add(1)
		return
	}
	viewsFailed.Add(1)
}

func ObserveLinkResolved() {
	shortLinksResolved.Add(1)
}

func ObserveAuditRedaction() {
	auditRedactions.Add(1)
}

type sample struct {
	name string
	help string
	kind string
	v    *atomic.Int64
}

var samples = []sample{
	{"pulseid_shares_created_total", "Share links generated.", "counter", &sharesCreated},
	{"pulseid_shares_rejected_total", "Shares refused because the link exceeds QR capacity.", "counter", &sharesRejected},
	{"pulseid_short_links_created_total", "Short links stored.", "counter", &shortLinksCreated},
	{"pulseid_short_links_resolved_total", "Short links resolved to a viewer URL.", "counter", &shortLinksResolved},
	{"pulseid_reports_viewed_total", "Reports rendered from a share payload.", "counter", &reportsViewed},
	{"pulseid_report_views_failed_total", "Report requests whose payload could not be decoded or was incomplete.", "counter", &viewsFailed},
	{"pulseid_share_url_bytes", "Size of the most recently generated viewer URL.", "gauge", &lastURLBytes},
	{"pulseid_audit_redactions_total", "Audit events whose metadata had identifiers masked.", "counter", &auditRedactions},
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	for _, s := range samples {
		fmt.Fprintf(w, "# HELP %s %s\n", s.name, s.help)
		fmt.Fprintf(w, "# TYPE %s %s\n", s.name, s.kind)
		fmt.Fprintf(w, "%s %d\n", s.name, s.v.Load())
	}
}

func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		WritePrometheus(w)
	}
}
