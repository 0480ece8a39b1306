// Package db 导出数据来源的数据库连接
package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	Mysql      = "mysql"
	Postgresql = "postgres"
	Sqlite3    = "sqlite3"
)

var ErrDB = errs.Class("DB")

// 驱动的其他写法
var driverAliases = map[string]string{
	"mariadb":    Mysql,
	"postgresql": Postgresql,
	"pg":         Postgresql,
	"sqlite":     Sqlite3,
}

type Config struct {
	Driver          string        `help:"数据库驱动[mysql|postgres|sqlite3]" default:"sqlite3"`
	Dsn             string        `help:"数据库连接" default:"$ROOT/sqlite.db"`
	LogLevel        string        `help:"数据库日志打印级别,可选[silent|error|warn|info]" default:"warn"`
	PrepareStmt     bool          `help:"缓存预编译语句，分页导出时重复执行同一条查询" default:"false"`
	MaxIdleConn     int           `help:"连接池中空闲连接的最大数量" default:"10"`
	MaxOpenConn     int           `help:"打开数据库连接的最大数量" default:"100"`
	ConnMaxLifetime time.Duration `help:"连接可复用的最大时间" default:"1h"`
	ConnMaxIdleTime time.Duration `help:"连接可以空闲的最长时间" default:"0"`
}

// DriverName 统一大小写和别名之后的驱动名
func (conf Config) DriverName() string {
	name := strings.ToLower(strings.TrimSpace(conf.Driver))
	if alias, ok := driverAliases[name]; ok {
		return alias
	}
	return name
}

func (conf Config) Dialector() (gorm.Dialector, error) {
	switch conf.DriverName() {
	case Mysql:
		return mysql.New(mysql.Config{
			DSN:                       conf.Dsn,
			DisableDatetimePrecision:  true, // MySQL 5.6 之前不支持 datetime 精度
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), nil
	case Postgresql:
		return postgres.New(postgres.Config{DSN: conf.Dsn}), nil
	case Sqlite3:
		return sqlite.Open(conf.Dsn), nil
	}
	return nil, ErrDB.New("unsupported driver %q", conf.Driver)
}

// pool 为 0 的配置保持 database/sql 的默认值
func (conf Config) pool(sqlDB *sql.DB) {
	if conf.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(conf.MaxIdleConn)
	}
	if conf.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(conf.MaxOpenConn)
	}
	if conf.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(conf.ConnMaxLifetime)
	}
	if conf.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(conf.ConnMaxIdleTime)
	}
}

// NewDB 打开数据库连接并设置连接池，SQL 日志写入 zapLog
func NewDB(zapLog *zap.Logger, cfg Config) (*gorm.DB, error) {
	dial, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dial, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		SkipDefaultTransaction:                   true,
		PrepareStmt:                              cfg.PrepareStmt,
		Logger:                                   getLogInterface(zapLog, cfg.LogLevel),
	})
	if err != nil {
		return nil, ErrDB.New("open %s: %w", cfg.DriverName(), err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, ErrDB.Wrap(err)
	}
	cfg.pool(sqlDB)
	return db, nil
}

// Close 关闭底层的连接池
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return ErrDB.Wrap(err)
	}
	return ErrDB.Wrap(sqlDB.Close())
}
