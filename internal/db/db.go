package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Options 描述数据库连接方式。
type Options struct {
	Driver   string
	DSN      string
	ReadDSNs []string
	LogLevel logger.LogLevel
}

const (
	maxConnectRetries = 5
	retryInterval     = 2 * time.Second
)

// Init 打开数据库连接、按需注册读写分离并执行自动迁移，结果保存在 DB。
func Init(opts Options, log *zap.Logger) error {
	gdb, err := Open(opts, log)
	if err != nil {
		return err
	}
	if err := Migrate(gdb); err != nil {
		return fmt.Errorf("数据库自动迁移失败: %w", err)
	}
	DB = gdb
	return nil
}

// Open 根据驱动建立连接；配置了从库时启用 dbresolver 轮询读。
func Open(opts Options, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	if driver == "" {
		driver = "sqlite"
	}
	dsn := strings.TrimSpace(opts.DSN)
	if driver == "sqlite" {
		if dsn == "" {
			dsn = "mydjango.db"
		}
		if err := ensureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	dialector, err := openDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}
	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(level)}

	var gdb *gorm.DB
	attempts := 1
	if driver != "sqlite" {
		attempts = maxConnectRetries
	}
	for i := 0; i < attempts; i++ {
		gdb, err = gorm.Open(dialector, gormConfig)
		if err == nil {
			err = ping(gdb)
		}
		if err == nil {
			break
		}
		log.Warn("无法连接到数据库，尝试重试", zap.String("driver", driver), zap.Int("retry", i+1), zap.Error(err))
		if i < attempts-1 {
			time.Sleep(retryInterval)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("无法连接到数据库: %w", err)
	}

	replicas := make([]gorm.Dialector, 0, len(opts.ReadDSNs))
	for _, readDSN := range opts.ReadDSNs {
		replica, err := openDialector(driver, readDSN)
		if err != nil {
			return nil, err
		}
		replicas = append(replicas, replica)
	}
	if len(replicas) > 0 {
		if err := gdb.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.StrictRoundRobinPolicy(),
		})); err != nil {
			return nil, fmt.Errorf("配置读写分离失败: %w", err)
		}
		log.Info("已启用读写分离", zap.Int("replicas", len(replicas)))
	}

	if driver != "sqlite" {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Info("数据库连接成功", zap.String("driver", driver))
	return gdb, nil
}

// Migrate 为核心模型创建表。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&User{},
		&Tag{},
		&News{},
		&HotNews{},
		&Banner{},
		&Comment{},
		&Doc{},
		&Teacher{},
		&CourseCategory{},
		&Course{},
	)
}

func openDialector(driver, dsn string) (gorm.Dialector, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("database dsn is empty")
	}
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func ping(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") || strings.Contains(path, ":memory:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
