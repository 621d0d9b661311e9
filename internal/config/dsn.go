package config

import (
	"fmt"
	"net"
	neturl "net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// DSNValue renders the connection string handed to the gorm driver for c.Driver.
func (c DatabaseRuntimeConfig) DSNValue() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}
	switch c.Driver {
	case DriverPostgres:
		return c.postgresDSN()
	case DriverMySQL:
		return c.mysqlDSN()
	default:
		return c.sqliteDSN()
	}
}

// sqliteDSN accepts sqlite:///relative.db, sqlite:////abs/path.db and
// sqlite:///:memory: as well as plain paths.
func (c DatabaseRuntimeConfig) sqliteDSN() string {
	if u := strings.TrimSpace(c.URL); u != "" {
		if idx := strings.Index(u, "://"); idx > 0 {
			path := u[idx+3:]
			if strings.HasPrefix(path, "/") {
				path = path[1:]
			}
			if path != "" {
				return path
			}
		}
	}
	path := strings.TrimSpace(c.Path)
	if path == "" {
		path = defaultSQLitePath
	}
	return path
}

func (c DatabaseRuntimeConfig) postgresDSN() string {
	if u := strings.TrimSpace(c.URL); u != "" {
		// pgx only understands the postgres and postgresql schemes.
		if idx := strings.Index(u, "://"); idx > 0 {
			scheme := strings.ToLower(u[:idx])
			if plus := strings.Index(scheme, "+"); plus > 0 {
				return scheme[:plus] + u[idx:]
			}
		}
		return u
	}

	parts := []string{
		"host=" + c.Host,
		"port=" + strconv.Itoa(c.Port),
		"user=" + c.User,
		"dbname=" + c.Name,
	}
	if c.Password != "" {
		parts = append(parts, "password="+c.Password)
	}
	sslmode := strings.TrimSpace(c.SSLMode)
	if sslmode == "" {
		sslmode = "disable"
	}
	parts = append(parts, "sslmode="+sslmode)
	keys := make([]string, 0, len(c.Params))
	for key := range c.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		parts = append(parts, key+"="+c.Params[key])
	}
	return strings.Join(parts, " ")
}

func (c DatabaseRuntimeConfig) mysqlDSN() string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.DBName = c.Name
	cfg.ParseTime = c.ParseTime
	if loc, err := time.LoadLocation(c.Loc); err == nil {
		cfg.Loc = loc
	}
	cfg.Params = map[string]string{"charset": c.Charset}

	if u := strings.TrimSpace(c.URL); u != "" {
		if parsed, err := neturl.Parse(u); err == nil && parsed.Host != "" {
			cfg.Addr = parsed.Host
			if parsed.Port() == "" {
				cfg.Addr = net.JoinHostPort(parsed.Hostname(), strconv.Itoa(defaultMySQLPort))
			}
			if parsed.User != nil {
				cfg.User = parsed.User.Username()
				cfg.Passwd, _ = parsed.User.Password()
			}
			if name := strings.Trim(parsed.Path, "/"); name != "" {
				cfg.DBName = name
			}
			for key, values := range parsed.Query() {
				if len(values) > 0 {
					cfg.Params[key] = values[0]
				}
			}
		}
	}
	for key, value := range c.Params {
		cfg.Params[key] = value
	}
	return cfg.FormatDSN()
}

func (c RedisRuntimeConfig) URLValue() string {
	if u := normalizeRedisRawURL(c.URL); u != "" {
		return u
	}

	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultRedisHost
	}
	port := c.Port
	if port == 0 {
		port = defaultRedisPort
	}
	db := c.DB
	if db < 0 {
		db = defaultRedisDB
	}

	scheme := c.Scheme
	if scheme != "redis" && scheme != "rediss" {
		scheme = "redis"
	}

	u := &neturl.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + strconv.Itoa(db),
	}
	username := strings.TrimSpace(c.Username)
	password := strings.TrimSpace(c.Password)
	if username != "" {
		if password != "" {
			u.User = neturl.UserPassword(username, password)
		} else {
			u.User = neturl.User(username)
		}
	} else if password != "" {
		u.User = neturl.UserPassword("", password)
	}

	if len(c.Params) > 0 {
		query := neturl.Values{}
		for key, value := range c.Params {
			query.Set(key, value)
		}
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Describe renders a password-free summary of the database target for logs.
func (c DatabaseRuntimeConfig) Describe() string {
	switch c.Driver {
	case DriverSQLite:
		return fmt.Sprintf("sqlite %s", c.sqliteDSN())
	default:
		if u := strings.TrimSpace(c.URL); u != "" {
			if parsed, err := neturl.Parse(u); err == nil {
				return fmt.Sprintf("%s %s%s", c.Driver, parsed.Host, parsed.Path)
			}
		}
		return fmt.Sprintf("%s %s/%s", c.Driver, net.JoinHostPort(c.Host, strconv.Itoa(c.Port)), c.Name)
	}
}
