package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// gatherer is the registry the stats command reads; replaced in tests.
var gatherer prometheus.Gatherer = prometheus.DefaultGatherer

const statsPrefix = "recipes_"

// Stats prints the client's request and search counters collected since
// startup, one sample per line.
func (a *App) Stats(ctx context.Context) error {
	families, err := gatherer.Gather()
	if err != nil {
		a.log.Warn(ctx, "failed to gather metrics", "error", err)
		return err
	}

	printed := 0
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), statsPrefix) {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			printlnFn(fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
			printed++
		}
	}
	if printed == 0 {
		printlnFn("No requests yet.")
	}
	return nil
}
