package azure

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/monitor/armmonitor"
)

// Metric names and aggregation statistics per resource kind. Storage
// capacity is a near-constant gauge where average and latest coincide;
// database storage can spike, so the maximum over the window better
// approximates current consumption. Policy choice carried over unchanged;
// do not generalize to other metrics without matching evidence.
const (
	storageUsedCapacityMetric = "UsedCapacity"
	databaseStorageMetric     = "storage"

	aggregationAverage = "Average"
	aggregationMaximum = "Maximum"

	metricInterval = "PT1H"
)

// StorageAccountUsedBytes returns the most recent used-capacity sample of a
// storage account in bytes. ok=false means the series is empty, a normal
// condition for new accounts.
func (c *Client) StorageAccountUsedBytes(ctx context.Context, resourceID string) (float64, bool, error) {
	return c.latestMetric(ctx, resourceID, storageUsedCapacityMetric, aggregationAverage)
}

// DatabaseUsedBytes returns the most recent storage sample of a SQL
// database in bytes. ok=false means the series is empty.
func (c *Client) DatabaseUsedBytes(ctx context.Context, resourceID string) (float64, bool, error) {
	return c.latestMetric(ctx, resourceID, databaseStorageMetric, aggregationMaximum)
}

// latestMetric queries one metric over the configured lookback window and
// extracts the newest data point carrying the requested statistic.
func (c *Client) latestMetric(ctx context.Context, resourceID, metricName, aggregation string) (float64, bool, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	timespan := c.metricTimespan()
	resp, err := c.metrics.List(ctx, resourceID, &armmonitor.MetricsClientListOptions{
		Timespan:    to.Ptr(timespan),
		Interval:    to.Ptr(metricInterval),
		Metricnames: to.Ptr(metricName),
		Aggregation: to.Ptr(aggregation),
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to query metric %s: %w", metricName, err)
	}

	value, ok := latestValue(resp.Value, aggregation)
	if !ok {
		c.logger.Debug("Metric series is empty",
			"metric", metricName,
			"resource_id", resourceID,
			"timespan", timespan)
	}
	return value, ok, nil
}

// metricTimespan builds the ISO8601 start/end pair for the configured
// lookback window, ending now.
func (c *Client) metricTimespan() string {
	end := c.clock.Now().UTC()
	start := end.Add(-time.Duration(c.cfg.MetricWindowMinutes) * time.Minute)
	return fmt.Sprintf("%s/%s", start.Format(time.RFC3339), end.Format(time.RFC3339))
}

// latestValue picks the newest data point across all returned series that
// carries the requested statistic. Returns false when the response has no
// usable point at all.
func latestValue(metrics []*armmonitor.Metric, aggregation string) (float64, bool) {
	var (
		value float64
		at    time.Time
		found bool
	)

	for _, metric := range metrics {
		if metric == nil {
			continue
		}
		for _, series := range metric.Timeseries {
			if series == nil {
				continue
			}
			for _, point := range series.Data {
				v := statValue(point, aggregation)
				if v == nil {
					continue
				}
				if !found || (point.TimeStamp != nil && point.TimeStamp.After(at)) {
					value = *v
					found = true
					if point.TimeStamp != nil {
						at = *point.TimeStamp
					}
				}
			}
		}
	}

	return value, found
}

// statValue selects the requested statistic from one data point.
func statValue(point *armmonitor.MetricValue, aggregation string) *float64 {
	if point == nil {
		return nil
	}
	switch aggregation {
	case aggregationMaximum:
		return point.Maximum
	default:
		return point.Average
	}
}
