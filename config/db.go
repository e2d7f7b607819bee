package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-frontdesk/models"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormWriter sends gorm's log lines through zerolog.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	log.Debug().Str("component", "gorm").Msgf(format, args...)
}

// baseMySQLConfig pins the session to loc so DATE columns round-trip in the hotel's zone.
func baseMySQLConfig(loc *time.Location) *gomysql.Config {
	c := gomysql.NewConfig()
	c.Net = "tcp"
	c.ParseTime = true
	c.Loc = zoneOrLocal(loc)
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c
}

func zoneOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

func mysqlDSNFromURL(raw string, loc *time.Location) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	c := baseMySQLConfig(loc)
	c.User = u.User.Username()
	c.Passwd, _ = u.User.Password()
	c.Addr = u.Hostname() + ":" + port
	c.DBName = dbName
	for k, v := range u.Query() {
		if k == "parseTime" || k == "loc" {
			continue
		}
		if len(v) > 0 {
			c.Params[k] = v[0]
		}
	}
	return c.FormatDSN(), nil
}

func resolveMySQLDSN(loc *time.Location) (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw, loc)
		}
		// already a driver DSN; parse it so typos fail here rather than on first query
		c, err := gomysql.ParseDSN(raw)
		if err != nil {
			return "", err
		}
		c.ParseTime = true
		c.Loc = zoneOrLocal(loc)
		return c.FormatDSN(), nil
	}

	c := baseMySQLConfig(loc)
	c.User = envOrDefault("DB_USER", "root")
	c.Passwd = os.Getenv("DB_PASS")
	c.Addr = envOrDefault("DB_HOST", "127.0.0.1") + ":" + envOrDefault("DB_PORT", "3306")
	c.DBName = envOrDefault("DB_NAME", "hotel_frontdesk")
	return c.FormatDSN(), nil
}

// ConnectDatabase opens MySQL and migrates the room and guest history tables.
func ConnectDatabase(cfg Config) (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN(cfg.Location)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if !cfg.Production() {
		level = logger.Info
	}
	gormLogger := logger.New(gormWriter{}, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.AutoMigrate(&models.Room{}, &models.GuestHistory{}); err != nil {
		return nil, err
	}
	return db, nil
}
