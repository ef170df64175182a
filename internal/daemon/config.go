package daemon

import (
	"fmt"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores all configuration for the run daemon.
type Config struct {
	Home        string
	Debug       bool
	Once        bool
	MaxRunning  int
	SleepTime   int
	Timeout     time.Duration
	Compare     string
	Queue       string
	RedisServer string
	RedisPort   int
	RedisAuth   string
	RedisQName  string
	RedisRQName string
	HostName    string
	UserName    string
	Password    string
	DBName      string
	PortNumber  int
	TableName   string
}

// LoadConfig reads a KEY=VALUE file (etc/cph.conf) and returns a Config.
// Unknown keys are ignored; unparsable numbers keep their defaults.
func LoadConfig(path string) (*Config, error) {
	// Default values
	cfg := &Config{
		MaxRunning:  2,
		SleepTime:   1,
		Timeout:     10 * time.Second,
		Compare:     "exact",
		Queue:       "redis",
		RedisServer: "127.0.0.1",
		RedisPort:   6379,
		RedisQName:  "cph:run",
		RedisRQName: "cph:result",
		HostName:    "127.0.0.1",
		PortNumber:  3306,
		UserName:    "root",
		DBName:      "cph",
		TableName:   "run_request",
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	for key, value := range values {
		assignConfigValue(cfg, key, value)
	}
	return cfg, nil
}

func assignConfigValue(cfg *Config, key, value string) {
	switch key {
	case "CPH_RUNNING":
		if v, err := strconv.Atoi(value); err == nil && v > 0 {
			cfg.MaxRunning = v
		}
	case "CPH_SLEEP_TIME":
		if v, err := strconv.Atoi(value); err == nil && v > 0 {
			cfg.SleepTime = v
		}
	case "CPH_TIMEOUT":
		// milliseconds, 0 disables the limit
		if v, err := strconv.Atoi(value); err == nil && v >= 0 {
			cfg.Timeout = time.Duration(v) * time.Millisecond
		}
	case "CPH_COMPARE":
		cfg.Compare = value
	case "CPH_QUEUE":
		cfg.Queue = value
	case "CPH_REDIS_SERVER":
		cfg.RedisServer = value
	case "CPH_REDIS_PORT":
		cfg.RedisPort, _ = strconv.Atoi(value)
	case "CPH_REDIS_AUTH":
		cfg.RedisAuth = value
	case "CPH_REDIS_QNAME":
		cfg.RedisQName = value
	case "CPH_REDIS_RESULT_QNAME":
		cfg.RedisRQName = value
	case "CPH_DB_HOST":
		cfg.HostName = value
	case "CPH_DB_PORT":
		cfg.PortNumber, _ = strconv.Atoi(value)
	case "CPH_DB_USER":
		cfg.UserName = value
	case "CPH_DB_PASSWORD":
		cfg.Password = value
	case "CPH_DB_NAME":
		cfg.DBName = value
	case "CPH_DB_TABLE":
		cfg.TableName = value
	}
}
