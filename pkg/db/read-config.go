package db

import (
	"errors"
	"fmt"
	"net/url"
)

const (
	DEFAULT_DB_NAME           = "legal_quotation"
	DEFAULT_TIMEOUT           = 30
	DEFAULT_IDLE_CONN_TIMEOUT = 45
	DEFAULT_MAX_POOL_SIZE     = 8
)

// DBConfigFromYamlObj builds the connection config. Credentials are optional so a
// local instance without auth can be used.
func DBConfigFromYamlObj(yamlObj DBConfigYaml) (DBConfig, error) {
	if yamlObj.ConnectionStr == "" {
		return DBConfig{}, errors.New("missing db connection string")
	}

	URI := fmt.Sprintf(`mongodb%s://%s`, yamlObj.ConnectionPrefix, yamlObj.ConnectionStr)
	if yamlObj.Username != "" {
		URI = fmt.Sprintf(`mongodb%s://%s@%s`,
			yamlObj.ConnectionPrefix,
			url.UserPassword(yamlObj.Username, yamlObj.Password).String(),
			yamlObj.ConnectionStr,
		)
	}

	cfg := DBConfig{
		URI:              URI,
		DBName:           yamlObj.DBName,
		Timeout:          yamlObj.Timeout,
		IdleConnTimeout:  yamlObj.IdleConnTimeout,
		MaxPoolSize:      uint64(yamlObj.MaxPoolSize),
		NoCursorTimeout:  yamlObj.UseNoCursorTimeout,
		RunIndexCreation: yamlObj.RunIndexCreation,
	}
	if cfg.DBName == "" {
		cfg.DBName = DEFAULT_DB_NAME
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DEFAULT_TIMEOUT
	}
	if cfg.IdleConnTimeout <= 0 {
		cfg.IdleConnTimeout = DEFAULT_IDLE_CONN_TIMEOUT
	}
	if cfg.MaxPoolSize == 0 {
		cfg.MaxPoolSize = DEFAULT_MAX_POOL_SIZE
	}
	return cfg, nil
}
