package daemon

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/sempr/cph-go/pkg/models"
)

const prefetchMultiplier = 8

// JobFetcher is a queue of run requests and the sink for their reports.
type JobFetcher interface {
	GetJobs(ctx context.Context, maxJobs int) ([]models.RunJob, error)
	CheckOut(ctx context.Context, job models.RunJob) (bool, error)
	Report(ctx context.Context, report models.JobReport) error
	Close() error
}

// NewFetcher is a factory for creating the appropriate JobFetcher based on the config.
func NewFetcher(cfg *Config) (JobFetcher, error) {
	switch cfg.Queue {
	case "redis":
		return NewRedisFetcher(cfg)
	case "mysql":
		return NewMySQLFetcher(cfg)
	default:
		return nil, fmt.Errorf("unknown queue %q (want redis or mysql)", cfg.Queue)
	}
}

// --- MySQL Fetcher ---

// Status values of the run_request.status column.
const (
	jobQueued  = 0
	jobRunning = 1
	jobDone    = 2
	jobFailed  = 3
)

// Schema is the table the MySQL fetcher expects.
const Schema = `CREATE TABLE IF NOT EXISTS run_request (
  id           BIGINT AUTO_INCREMENT PRIMARY KEY,
  workspace    VARCHAR(1024) NOT NULL,
  language     VARCHAR(16)   NOT NULL,
  manual_input TEXT          NULL,
  timeout_ms   INT           NOT NULL DEFAULT 0,
  status       TINYINT       NOT NULL DEFAULT 0,
  all_passed   TINYINT       NULL,
  report       MEDIUMTEXT    NULL,
  err_msg      TEXT          NULL,
  judgetime    DATETIME      NULL,
  KEY idx_status (status, id)
)`

type MySQLFetcher struct {
	db          *sql.DB
	table       string
	selectQuery string
}

func NewMySQLFetcher(cfg *Config) (*MySQLFetcher, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		cfg.UserName, cfg.Password, cfg.HostName, cfg.PortNumber, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxLifetime(time.Minute * 3)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT id, workspace, language, manual_input, timeout_ms FROM %s WHERE status=%d ORDER BY id LIMIT %d",
		cfg.TableName, jobQueued, prefetchMultiplier*cfg.MaxRunning)

	return &MySQLFetcher{db: db, table: cfg.TableName, selectQuery: query}, nil
}

func (f *MySQLFetcher) GetJobs(ctx context.Context, maxJobs int) ([]models.RunJob, error) {
	rows, err := f.db.QueryContext(ctx, f.selectQuery)
	if err != nil {
		return nil, fmt.Errorf("error querying for jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.RunJob
	for rows.Next() {
		var job models.RunJob
		var manual sql.NullString
		if err := rows.Scan(&job.ID, &job.Workspace, &job.Language, &manual, &job.TimeoutMs); err != nil {
			return nil, err
		}
		if manual.Valid {
			job.Manual = &manual.String
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// CheckOut marks a queued row as running. It reports false when another
// daemon took the row first.
func (f *MySQLFetcher) CheckOut(ctx context.Context, job models.RunJob) (bool, error) {
	query := fmt.Sprintf("UPDATE %s SET status=?, judgetime=NOW() WHERE id=? AND status=? LIMIT 1", f.table)
	res, err := f.db.ExecContext(ctx, query, jobRunning, job.ID, jobQueued)
	if err != nil {
		return false, err
	}
	rowsAffected, err := res.RowsAffected()
	return rowsAffected > 0, err
}

func (f *MySQLFetcher) Report(ctx context.Context, report models.JobReport) error {
	status := jobDone
	var allPassed sql.NullBool
	var body sql.NullString
	if report.Error != "" {
		status = jobFailed
	}
	if report.Report != nil {
		data, err := json.Marshal(report.Report)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		body = sql.NullString{String: string(data), Valid: true}
		allPassed = sql.NullBool{Bool: report.Report.AllStoredCasesPassed, Valid: true}
	}

	query := fmt.Sprintf("UPDATE %s SET status=?, all_passed=?, report=?, err_msg=?, judgetime=NOW() WHERE id=?", f.table)
	if _, err := f.db.ExecContext(ctx, query, status, allPassed, body, report.Error, report.JobID); err != nil {
		return fmt.Errorf("update job %d: %w", report.JobID, err)
	}
	return nil
}

func (f *MySQLFetcher) Close() error {
	return f.db.Close()
}

// --- Redis Fetcher ---

type RedisFetcher struct {
	client *redis.Client
	qname  string
	rqname string
}

func NewRedisFetcher(cfg *Config) (*RedisFetcher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisServer, cfg.RedisPort),
		Password: cfg.RedisAuth,
		DB:       0,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}

	return &RedisFetcher{client: rdb, qname: cfg.RedisQName, rqname: cfg.RedisRQName}, nil
}

func (f *RedisFetcher) GetJobs(ctx context.Context, maxJobs int) ([]models.RunJob, error) {
	var jobs []models.RunJob
	for i := 0; i < maxJobs; i++ {
		val, err := f.client.RPop(ctx, f.qname).Bytes()
		if errors.Is(err, redis.Nil) {
			break // Queue is empty
		}
		if err != nil {
			return jobs, fmt.Errorf("error getting job from Redis: %w", err)
		}
		job, err := decodeJob(val)
		if err != nil {
			slog.Warn("dropping malformed job", "queue", f.qname, "err", err)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// CheckOut is a no-op: RPOP already removed the job from the queue.
func (f *RedisFetcher) CheckOut(ctx context.Context, job models.RunJob) (bool, error) {
	return true, nil
}

func (f *RedisFetcher) Report(ctx context.Context, report models.JobReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return f.client.LPush(ctx, f.rqname, data).Err()
}

func (f *RedisFetcher) Close() error {
	return f.client.Close()
}

func decodeJob(data []byte) (models.RunJob, error) {
	var job models.RunJob
	if err := json.Unmarshal(data, &job); err != nil {
		return job, fmt.Errorf("decode job: %w", err)
	}
	if job.Workspace == "" || job.Language == "" {
		return job, fmt.Errorf("job %d: workspace and language are required", job.ID)
	}
	return job, nil
}
