package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics(domains []string) {
	for _, domain := range domains {
		for _, status := range []string{"success", "error"} {
			ScanRunsTotal.WithLabelValues(domain, status)
		}
		ScanLastRunDuration.WithLabelValues(domain)
		ScanLastRunTimestamp.WithLabelValues(domain)
		ScanTracks.WithLabelValues(domain)
		ScansInFlight.WithLabelValues(domain).Set(0)

		for _, result := range []string{"success", "failure"} {
			TranscodeRunsTotal.WithLabelValues(domain, result)
		}
		TranscodeDuration.WithLabelValues(domain)

		for _, reason := range []string{"busy", "debounce"} {
			GuardRejectionsTotal.WithLabelValues(domain, reason)
		}

		WatcherEventsTotal.WithLabelValues(domain)
	}
}
