package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

var errUnknownDriver = errors.New("unknown DB_DRIVER")

func loadConfig() (config, error) {
	driver := engineKind(strings.ToLower(envOrDefault("DB_DRIVER", string(engineSQLite))))
	switch driver {
	case engineSQLite, engineMySQL, enginePostgres:
	default:
		return config{}, fmt.Errorf("%w %q: expected sqlite, mysql or postgres", errUnknownDriver, driver)
	}

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if driver != engineSQLite && dsn == "" {
		return config{}, fmt.Errorf("DB_DSN is required for driver %s", driver)
	}

	apiToken := strings.TrimSpace(os.Getenv("API_TOKEN"))
	if apiToken == "" {
		log.Printf("warning: API_TOKEN is empty, API is open")
	}

	rowLimit := envOrDefaultInt("SEARCH_ROW_LIMIT", 50)
	if rowLimit == 0 {
		rowLimit = 50
	}
	maxRows := envOrDefaultInt("SEARCH_MAX_ROWS", 500)
	if maxRows < rowLimit {
		maxRows = rowLimit
	}

	sortKey := envOrDefault("SEARCH_SORT", "name")
	if _, ok := resolveSortKey(sortKey); !ok {
		log.Printf("warning: SEARCH_SORT %q is not sortable, using name", sortKey)
		sortKey = "name"
	}

	return config{
		HTTPListen:     envOrDefault("HTTP_LISTEN", ":8080"),
		DBDriver:       driver,
		DBPath:         envOrDefault("DB_PATH", "zones.db"),
		DBDSN:          dsn,
		DBMaxOpenConns: envOrDefaultInt("DB_MAX_OPEN_CONNS", 0),
		APIToken:       apiToken,
		SearchRowLimit: rowLimit,
		SearchMaxRows:  maxRows,
		SearchSort:     sortKey,
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogPretty:      envOrDefaultBool("LOG_PRETTY", false),
	}, nil
}

// rowLimitFor picks the row cap for a request, falling back to the configured
// default and never exceeding SEARCH_MAX_ROWS.
func (c config) rowLimitFor(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return c.SearchRowLimit
	}
	if n > c.SearchMaxRows {
		return c.SearchMaxRows
	}
	return n
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envOrDefaultInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}

	return n
}

func envOrDefaultBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}

	return b
}
