package db

import (
	"embed"
	"fmt"
	"io/fs"
	"net/url"
	"sort"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/xxxsen/stickynote/internal/config"
)

//go:embed migrations
var migrationsFS embed.FS

func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}
	conn, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}
	if cfg.Driver == config.DriverSQLite {
		// sqlite serializes writers anyway; one connection keeps pragmas and
		// in-memory databases consistent.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

func buildDSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if cfg.DSN != "" {
			return cfg.DSN, nil
		}
		sslmode := cfg.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		port := cfg.Port
		if port == 0 {
			port = 5432
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, port, cfg.User, cfg.Password, cfg.DBName, sslmode), nil
	case config.DriverMySQL:
		var myCfg *mysql.Config
		if cfg.DSN != "" {
			parsed, err := mysql.ParseDSN(cfg.DSN)
			if err != nil {
				return "", fmt.Errorf("parse mysql dsn: %w", err)
			}
			myCfg = parsed
		} else {
			port := cfg.Port
			if port == 0 {
				port = 3306
			}
			myCfg = mysql.NewConfig()
			myCfg.Net = "tcp"
			myCfg.Addr = fmt.Sprintf("%s:%d", cfg.Host, port)
			myCfg.User = cfg.User
			myCfg.Passwd = cfg.Password
			myCfg.DBName = cfg.DBName
		}
		// updates that leave a row unchanged must still count as a match,
		// otherwise they would surface as not found.
		myCfg.ClientFoundRows = true
		return myCfg.FormatDSN(), nil
	case config.DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file:" + cfg.DBName
		}
		return withSQLitePragmas(dsn), nil
	}
	return "", fmt.Errorf("unsupported driver %q", cfg.Driver)
}

func withSQLitePragmas(dsn string) string {
	pragmas := []string{"foreign_keys(1)", "busy_timeout(5000)"}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range pragmas {
		name := p[:strings.Index(p, "(")]
		if strings.Contains(dsn, "_pragma="+name) {
			continue
		}
		dsn += sep + "_pragma=" + url.QueryEscape(p)
		sep = "&"
	}
	return dsn
}

// ApplyMigrations runs the embedded migrations for the driver db was opened with.
func ApplyMigrations(db *sqlx.DB) error {
	dir := "migrations/" + db.DriverName()
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("read migrations for %s: %w", db.DriverName(), err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	for _, file := range files {
		content, err := fs.ReadFile(migrationsFS, dir+"/"+file)
		if err != nil {
			return err
		}
		queries := strings.Split(string(content), ";")
		for _, q := range queries {
			q = strings.TrimSpace(q)
			if q == "" {
				continue
			}
			if _, err := db.Exec(q); err != nil {
				if strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "Duplicate key name") {
					continue
				}
				return fmt.Errorf("execute query in %s: %w", file, err)
			}
		}
	}
	return nil
}
