// Package aggregator merges completed collection tasks into the final
// ordered dataset. It runs single-threaded after every task is terminal,
// which keeps result handling free of concurrent writes.
package aggregator

import (
	"sort"
	"strings"

	"github.com/go-tangra/go-tangra-fleetreport/internal/inventory"
	"github.com/go-tangra/go-tangra-fleetreport/internal/scheduler"
)

// Dataset is the aggregation result handed to the report sinks.
type Dataset struct {
	Rows      []inventory.HostRecord
	Completed int
	Failed    int
}

// Aggregate drains the rows of every Completed task in drain order, strips
// transport metadata, and establishes the total report order: (endpoint,
// hostname) ascending, case-insensitive, stable for ties. Failed tasks
// contribute zero rows and no placeholder.
func Aggregate(tasks []*scheduler.Task) *Dataset {
	ds := &Dataset{}

	for _, t := range tasks {
		switch t.State() {
		case scheduler.Completed:
			ds.Completed++
			rows := t.TakeRows()
			for i := range rows {
				rows[i].Meta = inventory.RowMeta{}
			}
			ds.Rows = append(ds.Rows, rows...)
		case scheduler.Failed:
			ds.Failed++
		}
	}

	sort.SliceStable(ds.Rows, func(i, j int) bool {
		a, b := &ds.Rows[i], &ds.Rows[j]
		ae, be := strings.ToLower(a.Endpoint), strings.ToLower(b.Endpoint)
		if ae != be {
			return ae < be
		}
		return strings.ToLower(a.Hostname) < strings.ToLower(b.Hostname)
	})

	return ds
}
