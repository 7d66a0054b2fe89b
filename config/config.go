package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	CSVPath          string
	ResultsDir       string
	ResultFile       string
	TableName        string
	BatchSize        int
	Driver           string
	ConnectionString string
	ProgressEvery    int
	LogPath          string
	HistoryPath      string
	Labels           Labels
	S3               S3Config
}

// Labels tag the result file so runs of different setups can be compared.
type Labels struct {
	DB       string `yaml:"db"`
	Mode     string `yaml:"mode"`
	Variant  string `yaml:"variant"`
	Language string `yaml:"language"`
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
}

// Profile is the optional YAML file pointed to by BENCH_PROFILE.
type Profile struct {
	Labels     Labels `yaml:"labels"`
	Driver     string `yaml:"driver"`
	DSN        string `yaml:"dsn"`
	Table      string `yaml:"table"`
	BatchSize  int    `yaml:"batch_size"`
	CSVPath    string `yaml:"csv_path"`
	ResultsDir string `yaml:"results_dir"`
	ResultFile string `yaml:"result_file"`
}

var validDrivers = map[string]bool{
	"mysql":    true,
	"postgres": true,
	"sqlite3":  true,
}

// Default is the reference benchmark setup: MySQL, plain batched
// inserts of 1000 rows.
func Default() *Config {
	return &Config{
		CSVPath:          "test-file.csv",
		ResultsDir:       "results",
		ResultFile:       "mysql_boring_a_plain_go.json",
		TableName:        "products_mysql_boring_plain",
		BatchSize:        1000,
		Driver:           "mysql",
		ConnectionString: "root:@tcp(127.0.0.1:3306)/benchmark",
		ProgressEvery:    100000,
		LogPath:          "bench.log",
		Labels: Labels{
			DB:       "MySQL",
			Mode:     "Boring",
			Variant:  "Plain",
			Language: "Go",
		},
		S3: S3Config{Region: "us-east-1"},
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	cfg.CSVPath = getEnv("BENCH_CSV_PATH", cfg.CSVPath)
	cfg.ResultsDir = getEnv("BENCH_RESULTS_DIR", cfg.ResultsDir)
	cfg.ResultFile = getEnv("BENCH_RESULT_FILE", cfg.ResultFile)
	cfg.TableName = getEnv("BENCH_TABLE", cfg.TableName)
	cfg.BatchSize = getEnvInt("BENCH_BATCH_SIZE", cfg.BatchSize)
	cfg.Driver = getEnv("BENCH_DB_DRIVER", cfg.Driver)
	cfg.ConnectionString = getEnv("BENCH_DSN", cfg.ConnectionString)
	cfg.ProgressEvery = getEnvInt("BENCH_PROGRESS_EVERY", cfg.ProgressEvery)
	cfg.LogPath = getEnv("BENCH_LOG_PATH", cfg.LogPath)
	cfg.HistoryPath = os.Getenv("BENCH_HISTORY_PATH")
	cfg.S3 = S3Config{
		Bucket:          os.Getenv("BENCH_S3_BUCKET"),
		Region:          getEnv("BENCH_S3_REGION", cfg.S3.Region),
		Endpoint:        os.Getenv("BENCH_S3_ENDPOINT"),
		Prefix:          os.Getenv("BENCH_S3_PREFIX"),
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}

	if path := os.Getenv("BENCH_PROFILE"); path != "" {
		if err := cfg.applyProfile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyProfile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse profile %s: %w", path, err)
	}

	setString(&c.Labels.DB, p.Labels.DB)
	setString(&c.Labels.Mode, p.Labels.Mode)
	setString(&c.Labels.Variant, p.Labels.Variant)
	setString(&c.Labels.Language, p.Labels.Language)
	setString(&c.Driver, p.Driver)
	setString(&c.ConnectionString, p.DSN)
	setString(&c.TableName, p.Table)
	setString(&c.CSVPath, p.CSVPath)
	setString(&c.ResultsDir, p.ResultsDir)
	setString(&c.ResultFile, p.ResultFile)
	if p.BatchSize != 0 {
		c.BatchSize = p.BatchSize
	}
	return nil
}

func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if !validDrivers[c.Driver] {
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if c.CSVPath == "" || c.ResultsDir == "" || c.ResultFile == "" {
		return fmt.Errorf("csv path, results dir and result file are required")
	}
	if c.TableName == "" {
		return fmt.Errorf("table name is required")
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
