// Package fetch coordinates a provider's cost and usage retrieval into a
// single outcome the dashboard can apply atomically.
package fetch

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/costwatch/costwatch/internal/core"
)

// Client is the vendor-neutral surface the aggregator drives. Both
// billing clients satisfy it.
type Client interface {
	Provider() core.Provider
	FetchCosts(ctx context.Context, start time.Time) ([]core.CostRecord, error)
	FetchUsage(ctx context.Context, start time.Time) ([]core.UsageRecord, error)
	ResolveKeyNames(ctx context.Context, ids []string) (map[string]string, error)
}

// StartTime returns the fetch window start: UTC midnight seven days ago.
func StartTime(now time.Time) time.Time {
	return core.Day(now.UTC()).AddDate(0, 0, -7)
}

// Run fetches costs and usage concurrently and resolves key names for
// the ids seen in usage. The fetch window starts at StartTime(now).
// Cost and usage failures are independent: one side failing still
// delivers the other side's records, with the failure recorded in the
// outcome's errors.
func Run(ctx context.Context, client Client, now time.Time) core.FetchOutcome {
	outcome := core.FetchOutcome{
		Provider: client.Provider(),
		KeyNames: make(map[string]string),
	}

	start := StartTime(now)

	type costResult struct {
		records []core.CostRecord
		err     error
	}
	type usageResult struct {
		records []core.UsageRecord
		err     error
	}

	costCh := make(chan costResult, 1)
	usageCh := make(chan usageResult, 1)
	go func() {
		records, err := client.FetchCosts(ctx, start)
		costCh <- costResult{records: records, err: err}
	}()
	go func() {
		records, err := client.FetchUsage(ctx, start)
		usageCh <- usageResult{records: records, err: err}
	}()

	cost := <-costCh
	usage := <-usageCh

	if cost.err != nil {
		outcome.Errors.AppendCost(cost.err.Error())
	} else {
		sort.Slice(cost.records, func(i, j int) bool {
			return cost.records[i].Date.Before(cost.records[j].Date)
		})
		outcome.CostRecords = cost.records
	}

	if usage.err != nil {
		outcome.Errors.AppendUsage("Usage fetch failed: " + usage.err.Error())
		return outcome
	}

	sort.Slice(usage.records, func(i, j int) bool {
		return usage.records[i].Date.Before(usage.records[j].Date)
	})
	outcome.UsageRecords = usage.records

	ids := keyIDs(usage.records)
	if len(ids) > 0 {
		names, err := client.ResolveKeyNames(ctx, ids)
		if err != nil {
			outcome.Errors.AppendUsage("API key name fetch failed: " + err.Error())
		} else {
			for id, name := range names {
				outcome.KeyNames[id] = name
			}
		}
	}

	return outcome
}

// keyIDs extracts the distinct resolvable API-key ids from usage rows.
func keyIDs(records []core.UsageRecord) []string {
	ids := lo.Uniq(lo.FilterMap(records, func(r core.UsageRecord, _ int) (string, bool) {
		id := r.APIKeyID
		return id, id != "" && id != core.UnknownCategory
	}))
	sort.Strings(ids)
	return ids
}
