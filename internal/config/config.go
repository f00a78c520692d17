package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string
	Port          string
	GinMode       string
	LogLevel      string
	LogFormat     string
	SessionSecret string
	CORSOrigins   []string

	DatabaseDriver   string
	DatabaseDSN      string
	DatabaseReadDSNs []string

	VerifyStore   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StorageProvider string
	StorageDomain   string
	UploadDir       string
	UploadURLPath   string
	COS             COSConfig
	OSS             OSSConfig
	Qiniu           QiniuConfig

	SiteDomain string

	KafkaBrokers      []string
	KafkaIndexTopic   string
	SearchReindexSpec string
	SearchIndexTagIDs []uint

	SuperRootUserName string
	SuperRootPassword string
	SuperRootMobile   string
}

// COSConfig 腾讯云对象存储配置。
type COSConfig struct {
	SecretID   string
	SecretKey  string
	BucketName string
	AppID      string
	Region     string
}

// OSSConfig 阿里云对象存储配置。
type OSSConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
}

// QiniuConfig 七牛云存储配置。
type QiniuConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := env("PORT", "8000")

	listenAddr := env("LISTEN_ADDR", "")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	driver := strings.ToLower(env("DATABASE_DRIVER", "sqlite"))
	dsn := env("DATABASE_DSN", "")
	if dsn == "" && driver == "sqlite" {
		dsn = "data/mydjango.db"
	}

	uploadURLPath := env("UPLOAD_URL_PATH", "/media")
	storageDomain := env("STORAGE_DOMAIN", "")
	if storageDomain == "" {
		storageDomain = strings.TrimSuffix(uploadURLPath, "/") + "/"
	}

	verifyStore := strings.ToLower(env("VERIFY_STORE", ""))
	redisAddr := env("REDIS_ADDR", "")
	if verifyStore == "" {
		verifyStore = "memory"
		if redisAddr != "" {
			verifyStore = "redis"
		}
	}

	return AppConfig{
		ListenAddr:    listenAddr,
		Port:          port,
		GinMode:       env("GIN_MODE", "release"),
		LogLevel:      env("LOG_LEVEL", "info"),
		LogFormat:     env("LOG_FORMAT", "json"),
		SessionSecret: env("SESSION_SECRET", "mydjango-dev-secret"),
		CORSOrigins:   splitList(env("CORS_ALLOW_ORIGINS", "")),

		DatabaseDriver:   driver,
		DatabaseDSN:      dsn,
		DatabaseReadDSNs: splitList(env("DATABASE_READ_DSNS", "")),

		VerifyStore:   verifyStore,
		RedisAddr:     redisAddr,
		RedisPassword: env("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		StorageProvider: strings.ToLower(env("STORAGE_PROVIDER", "local")),
		StorageDomain:   storageDomain,
		UploadDir:       env("UPLOAD_DIR", "data/media"),
		UploadURLPath:   uploadURLPath,
		COS: COSConfig{
			SecretID:   env("COS_SECRET_ID", ""),
			SecretKey:  env("COS_SECRET_KEY", ""),
			BucketName: env("COS_BUCKET", ""),
			AppID:      env("COS_APP_ID", ""),
			Region:     env("COS_REGION", ""),
		},
		OSS: OSSConfig{
			Endpoint:        env("OSS_ENDPOINT", ""),
			AccessKeyID:     env("OSS_ACCESS_KEY_ID", ""),
			AccessKeySecret: env("OSS_ACCESS_KEY_SECRET", ""),
			Bucket:          env("OSS_BUCKET", ""),
		},
		Qiniu: QiniuConfig{
			AccessKey: env("QINIU_ACCESS_KEY", ""),
			SecretKey: env("QINIU_SECRET_KEY", ""),
			Bucket:    env("QINIU_BUCKET", ""),
		},

		SiteDomain: env("SITE_DOMAIN", "http://127.0.0.1:"+port),

		KafkaBrokers:      splitList(env("KAFKA_BROKERS", "")),
		KafkaIndexTopic:   env("KAFKA_INDEX_TOPIC", "news-index"),
		SearchReindexSpec: env("SEARCH_REINDEX_SPEC", "@every 30m"),
		SearchIndexTagIDs: parseIDs(env("SEARCH_INDEX_TAG_IDS", "1,2,3,4,5,6")),

		SuperRootUserName: env("SUPER_ROOT_USER_NAME", ""),
		SuperRootPassword: env("SUPER_ROOT_PASSWORD", ""),
		SuperRootMobile:   env("SUPER_ROOT_MOBILE", ""),
	}
}

func env(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	raw := env(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func parseIDs(raw string) []uint {
	ids := make([]uint, 0)
	for _, part := range splitList(raw) {
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}
