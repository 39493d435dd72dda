package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MediaBucket    string

	RedisAddr     string
	RedisPassword string

	JWTSecret string

	// MaxUploadBytes is the hard ceiling on an incoming file, enforced before
	// anything touches storage. Distinct from VariantMaxBytes.
	MaxUploadBytes int64
	// VariantMaxBytes bounds the encoded size of the "full" variant.
	VariantMaxBytes int64
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	required := []string{
		"MARIADB_DSN",
		"MARIADB_MAX_OPEN_CONN",
		"MARIADB_MAX_IDLE_CONNS",
		"MARIADB_CONN_MAX_LIFETIME",
		"SERVER_PORT",
		"MINIO_ENDPOINT",
		"MINIO_ACCESS_KEY",
		"MINIO_SECRET_KEY",
	}
	for _, key := range required {
		if !viper.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	viper.SetDefault("MEDIA_BUCKET", "medias")
	viper.SetDefault("MAX_UPLOAD_BYTES", 25*1024*1024)
	viper.SetDefault("VARIANT_MAX_BYTES", 1024*1024)

	return &Settings{
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      viper.GetInt("SERVER_PORT"),
		MinioEndpoint:   viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:  viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:  viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:     viper.GetBool("MINIO_USE_SSL"),
		MediaBucket:     viper.GetString("MEDIA_BUCKET"),
		RedisAddr:       viper.GetString("REDIS_ADDR"),
		RedisPassword:   viper.GetString("REDIS_PASSWORD"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		MaxUploadBytes:  viper.GetInt64("MAX_UPLOAD_BYTES"),
		VariantMaxBytes: viper.GetInt64("VARIANT_MAX_BYTES"),
	}, nil
}
