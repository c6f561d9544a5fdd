package bqsource

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"crosswarped.com/springs/internal/config"
	"crosswarped.com/springs/pkg/primitives"
)

// Source loads condition records stored one text line per row in a
// BigQuery table with columns (scope STRING, line STRING).
type Source struct {
	cfg config.BigQueryConfig
}

func New(cfg config.BigQueryConfig) *Source {
	return &Source{cfg: cfg}
}

// Query returns the SQL used to load the records of one scope.
func (s *Source) Query() string {
	return fmt.Sprintf("SELECT line FROM `%s.%s.%s` WHERE scope = @scope", s.cfg.Project, s.cfg.Dataset, s.cfg.Table)
}

// Records loads and parses every record in scope.
func (s *Source) Records(ctx context.Context, scope string) ([]primitives.Record, error) {
	client, err := bigquery.NewClient(ctx, s.cfg.Project)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	q := client.Query(s.Query())
	q.Location = s.cfg.Location
	q.Parameters = []bigquery.QueryParameter{
		{Name: "scope", Value: scope},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("status.Err: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Read: %w", err)
	}

	var lines []string
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("it.Next: %w", err)
		}
		line, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("row[0] is not a string: %v", row[0])
		}
		lines = append(lines, line)
	}
	return parseLines(lines)
}

func parseLines(lines []string) ([]primitives.Record, error) {
	records := make([]primitives.Record, 0, len(lines))
	for i, line := range lines {
		rec, err := primitives.ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
