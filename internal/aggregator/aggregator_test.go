package aggregator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-tangra/go-tangra-fleetreport/internal/inventory"
	"github.com/go-tangra/go-tangra-fleetreport/internal/logger"
	"github.com/go-tangra/go-tangra-fleetreport/internal/scheduler"
)

// runTasks drives a real scheduler over the fixture so the aggregator sees
// tasks exactly as production hands them over.
func runTasks(t *testing.T, fixtures map[string][]string, failing map[string]bool, endpoints []string, maxConcurrent int) []*scheduler.Task {
	t.Helper()

	collect := func(ctx context.Context, endpoint string) ([]inventory.HostRecord, error) {
		if failing[endpoint] {
			return nil, fmt.Errorf("connect %s: unreachable", endpoint)
		}
		rows := make([]inventory.HostRecord, len(fixtures[endpoint]))
		for i, h := range fixtures[endpoint] {
			rows[i] = inventory.HostRecord{
				Endpoint: endpoint,
				Hostname: h,
				Meta:     inventory.RowMeta{SessionID: "sess-" + endpoint},
			}
		}
		return rows, nil
	}

	s := scheduler.New(collect, time.Second, logger.NewTest())
	return s.Submit(context.Background(), endpoints, maxConcurrent).AwaitAll()
}

func TestAggregateSortsCaseInsensitively(t *testing.T) {
	fixtures := map[string][]string{
		"VC-Beta":  {"esx01", "ESX03"},
		"vc-alpha": {"Esx02", "esx10"},
	}
	tasks := runTasks(t, fixtures, nil, []string{"VC-Beta", "vc-alpha"}, 2)

	ds := Aggregate(tasks)
	require.Len(t, ds.Rows, 4)

	var got []string
	for _, r := range ds.Rows {
		got = append(got, r.Endpoint+"/"+r.Hostname)
	}
	assert.Equal(t, []string{
		"vc-alpha/Esx02",
		"vc-alpha/esx10",
		"VC-Beta/esx01",
		"VC-Beta/ESX03",
	}, got)
}

func TestAggregateRowCountMatchesCompletedTasks(t *testing.T) {
	fixtures := map[string][]string{
		"a": {"h1", "h2"},
		"b": {"h1"},
		"c": {"h1", "h2", "h3"},
	}
	tasks := runTasks(t, fixtures, map[string]bool{"b": true}, []string{"a", "b", "c"}, 2)

	ds := Aggregate(tasks)
	assert.Equal(t, 2, ds.Completed)
	assert.Equal(t, 1, ds.Failed)
	assert.Len(t, ds.Rows, 5)

	for _, r := range ds.Rows {
		assert.NotEqual(t, "b", r.Endpoint)
	}
}

func TestAggregateStripsTransportMetadata(t *testing.T) {
	tasks := runTasks(t, map[string][]string{"a": {"h1"}}, nil, []string{"a"}, 1)

	ds := Aggregate(tasks)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, inventory.RowMeta{}, ds.Rows[0].Meta)
}

func TestAggregateFailedTaskLeavesNoSentinel(t *testing.T) {
	tasks := runTasks(t, nil, map[string]bool{"only": true}, []string{"only"}, 1)

	ds := Aggregate(tasks)
	assert.Empty(t, ds.Rows)
	assert.Equal(t, 1, ds.Failed)
	assert.Equal(t, 0, ds.Completed)
}

func TestAggregateTiesKeepIntraEndpointOrder(t *testing.T) {
	// Two rows with identical (endpoint, hostname) keys: the collector's
	// emission order must survive the stable sort.
	collect := func(ctx context.Context, endpoint string) ([]inventory.HostRecord, error) {
		return []inventory.HostRecord{
			{Endpoint: endpoint, Hostname: "esx01", Custom1: "first"},
			{Endpoint: endpoint, Hostname: "ESX01", Custom1: "second"},
		}, nil
	}
	s := scheduler.New(collect, time.Second, logger.NewTest())
	tasks := s.Submit(context.Background(), []string{"a"}, 1).AwaitAll()

	ds := Aggregate(tasks)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "first", ds.Rows[0].Custom1)
	assert.Equal(t, "second", ds.Rows[1].Custom1)
}

func TestAggregateIsIdempotentAcrossRuns(t *testing.T) {
	fixtures := map[string][]string{
		"A": {"h2", "h1"},
		"B": {"h1"},
		"C": {"h3", "h1"},
	}

	first := Aggregate(runTasks(t, fixtures, nil, []string{"A", "B", "C"}, 2))
	second := Aggregate(runTasks(t, fixtures, nil, []string{"A", "B", "C"}, 2))

	assert.Equal(t, first.Rows, second.Rows)
}

func TestScenarioThreeEndpointsTwoHostsEach(t *testing.T) {
	fixtures := map[string][]string{
		"A": {"h1", "h2"},
		"B": {"h1", "h2"},
		"C": {"h1", "h2"},
	}
	tasks := runTasks(t, fixtures, nil, []string{"A", "B", "C"}, 2)

	ds := Aggregate(tasks)
	require.Len(t, ds.Rows, 6)
	for i := 1; i < len(ds.Rows); i++ {
		a, b := ds.Rows[i-1], ds.Rows[i]
		assert.LessOrEqual(t, a.Endpoint+"/"+a.Hostname, b.Endpoint+"/"+b.Hostname)
	}
}
