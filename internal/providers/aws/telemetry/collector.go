// Package telemetry builds anomaly-detector telemetry tables from CloudWatch
// EC2 metrics.
package telemetry

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/providers/files"
)

const (
	// DefaultWindow is how far back metrics are read.
	DefaultWindow = 24 * time.Hour

	// DefaultPeriod is the CloudWatch aggregation period.
	DefaultPeriod = 5 * time.Minute
)

// metric maps one telemetry feature to a CloudWatch metric.
type metric struct {
	feature   string
	namespace string
	name      string
	statistic cwtypes.Statistic
}

// metrics are queried per instance in models.TelemetryFeatures order. Memory
// is only published when the CloudWatch agent runs on the instance; rows
// without it read as 0.
var metrics = []metric{
	{"cpu", "AWS/EC2", "CPUUtilization", cwtypes.StatisticAverage},
	{"mem", "CWAgent", "mem_used_percent", cwtypes.StatisticAverage},
	{"net_in", "AWS/EC2", "NetworkIn", cwtypes.StatisticSum},
	{"net_out", "AWS/EC2", "NetworkOut", cwtypes.StatisticSum},
}

// Header is the column layout of collected tables.
var Header = []string{"timestamp", "instance_id", "cpu", "mem", "net_in", "net_out"}

// Source collects one telemetry row per instance and period.
type Source struct {
	Provider common.AWSClientProvider
	Profile  string
	Region   string

	// InstanceIDs limits collection to these instances. When empty every
	// running instance in the region is used.
	InstanceIDs []string

	Window time.Duration
	Period time.Duration

	// now is replaced in tests.
	now func() time.Time
}

// LoadTelemetry implements the telemetry source used by the anomaly
// collector.
func (s *Source) LoadTelemetry(ctx context.Context) (*models.TelemetryData, error) {
	profile, err := s.Provider.LoadProfile(ctx, s.Profile, s.Region)
	if err != nil {
		return nil, err
	}

	ids := s.InstanceIDs
	if len(ids) == 0 {
		ids, err = runningInstances(ctx, profile.Clients.EC2)
		if err != nil {
			return nil, err
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no running EC2 instances in %s", profile.Region)
	}

	window, period := s.Window, s.Period
	if window <= 0 {
		window = DefaultWindow
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	end := now().UTC().Truncate(period)
	start := end.Add(-window)

	var records [][]string
	for _, id := range ids {
		rows, err := instanceRows(ctx, profile.Clients.CloudWatch, id, start, end, period)
		if err != nil {
			return nil, err
		}
		records = append(records, rows...)
	}

	source := fmt.Sprintf("cloudwatch:%s:%s", profile.AccountID, profile.Region)
	return files.TelemetryFromTable(source, Header, records)
}

// Describe returns the input description for report metadata.
func (s *Source) Describe() []string {
	if len(s.InstanceIDs) == 0 {
		return []string{"cloudwatch:running-instances"}
	}
	out := make([]string, len(s.InstanceIDs))
	for i, id := range s.InstanceIDs {
		out[i] = "cloudwatch:" + id
	}
	return out
}

// runningInstances pages through DescribeInstances for running instances.
func runningInstances(ctx context.Context, client common.EC2Client) ([]string, error) {
	paginator := ec2svc.NewDescribeInstancesPaginator(client, &ec2svc.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("instance-state-name"),
				Values: []string{"running"},
			},
		},
	})

	var ids []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeInstances page: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				ids = append(ids, aws.ToString(inst.InstanceId))
			}
		}
	}
	return ids, nil
}

// instanceRows queries every metric for instanceID and joins the datapoints
// by timestamp. Rows are ordered by time; a metric without a datapoint at a
// timestamp leaves its cell empty.
func instanceRows(ctx context.Context, cw common.CloudWatchClient, instanceID string, start, end time.Time, period time.Duration) ([][]string, error) {
	cells := make(map[time.Time][]string)
	for j, m := range metrics {
		out, err := cw.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
			Namespace:  aws.String(m.namespace),
			MetricName: aws.String(m.name),
			Dimensions: []cwtypes.Dimension{
				{
					Name:  aws.String("InstanceId"),
					Value: aws.String(instanceID),
				},
			},
			StartTime:  aws.Time(start),
			EndTime:    aws.Time(end),
			Period:     aws.Int32(int32(period / time.Second)),
			Statistics: []cwtypes.Statistic{m.statistic},
		})
		if err != nil {
			return nil, fmt.Errorf("GetMetricStatistics %s/%s for %s: %w", m.namespace, m.name, instanceID, err)
		}
		for _, dp := range out.Datapoints {
			if dp.Timestamp == nil {
				continue
			}
			v := statisticValue(dp, m.statistic)
			if v == nil {
				continue
			}
			ts := dp.Timestamp.UTC()
			row, ok := cells[ts]
			if !ok {
				row = make([]string, len(metrics))
				cells[ts] = row
			}
			row[j] = strconv.FormatFloat(*v, 'f', -1, 64)
		}
	}

	stamps := make([]time.Time, 0, len(cells))
	for ts := range cells {
		stamps = append(stamps, ts)
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })

	rows := make([][]string, 0, len(stamps))
	for _, ts := range stamps {
		rows = append(rows, append([]string{ts.Format(time.RFC3339), instanceID}, cells[ts]...))
	}
	return rows, nil
}

func statisticValue(dp cwtypes.Datapoint, stat cwtypes.Statistic) *float64 {
	if stat == cwtypes.StatisticSum {
		return dp.Sum
	}
	return dp.Average
}
