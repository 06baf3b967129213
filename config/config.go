package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/pflag"
)

const (
	DefaultAPIBaseURL = "http://order.huaqiaobang.com"
	DefaultShopID     = "323"
	DefaultHTTPAddr   = ":8080"
	OrdersTopic       = "orders"
)

type Config struct {
	APIBaseURL    string
	DefaultShopID string
	HTTPAddr      string
	QRBaseURL     string

	RedisHost string
	RedisPort string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string

	KafkaBroker string
}

// Load reads the environment and lets command-line flags override it.
// With --help it prints usage and returns pflag.ErrHelp.
func Load(args []string) (Config, error) {
	cfg := Config{
		APIBaseURL:    getEnv("API_BASE_URL", DefaultAPIBaseURL),
		DefaultShopID: getEnv("DEFAULT_SHOP_ID", DefaultShopID),
		HTTPAddr:      getEnv("HTTP_ADDR", DefaultHTTPAddr),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBName:        os.Getenv("DB_NAME"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
	}
	cfg.QRBaseURL = getEnv("QR_BASE_URL", cfg.APIBaseURL)

	flagSet := pflag.NewFlagSet("order-client", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "restaurant ordering API base URL")
	flagSet.StringVar(&cfg.DefaultShopID, "shop", cfg.DefaultShopID, "restaurant selected on first start and after reset")
	flagSet.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "listen address of the local API")
	flagSet.StringVar(&cfg.QRBaseURL, "qr-base-url", cfg.QRBaseURL, "URL encoded in generated table codes")
	flagSet.StringVar(&cfg.RedisHost, "redis-host", cfg.RedisHost, "Redis host for persisted state")
	flagSet.StringVar(&cfg.RedisPort, "redis-port", cfg.RedisPort, "Redis port")
	flagSet.StringVar(&cfg.DBHost, "db-host", cfg.DBHost, "Postgres host for the session archive (empty disables it)")
	flagSet.StringVar(&cfg.KafkaBroker, "kafka-broker", cfg.KafkaBroker, "Kafka broker for order events (empty disables them)")

	if err := flagSet.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) ArchiveEnabled() bool {
	return c.DBHost != ""
}

func (c Config) EventsEnabled() bool {
	return c.KafkaBroker != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func MustInitPostgres(cfg Config) *sql.DB {
	connStr := "host=" + cfg.DBHost + " port=" + cfg.DBPort + " user=" + cfg.DBUser +
		" password=" + cfg.DBPassword + " dbname=" + cfg.DBName + " sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisHost + ":" + cfg.RedisPort,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaWriter(cfg Config, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBroker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}
