package db

import "fmt"

type DBConfig struct {
	URI             string
	DBNamePrefix    string
	Timeout         int
	MaxPoolSize     uint64
	IdleConnTimeout int
}

type DBConfigYaml struct {
	ConnectionStr    string `json:"connection_str" yaml:"connection_str"`
	Username         string `json:"username" yaml:"username"`
	Password         string `json:"password" yaml:"password"`
	ConnectionPrefix string `json:"connection_prefix" yaml:"connection_prefix"`
	Timeout          int    `json:"timeout" yaml:"timeout"`
	IdleConnTimeout  int    `json:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxPoolSize      int    `json:"max_pool_size" yaml:"max_pool_size"`
	DBNamePrefix     string `json:"db_name_prefix" yaml:"db_name_prefix"`
}

// DBConfigFromYaml resolves the YAML representation into connection options.
// Credentials become part of the URI when username and password are set.
func DBConfigFromYaml(yamlConf DBConfigYaml) DBConfig {
	uri := yamlConf.ConnectionStr
	if yamlConf.Username != "" && yamlConf.Password != "" {
		uri = fmt.Sprintf("mongodb%s://%s:%s@%s", yamlConf.ConnectionPrefix, yamlConf.Username, yamlConf.Password, yamlConf.ConnectionStr)
	}

	timeout := yamlConf.Timeout
	if timeout <= 0 {
		timeout = 30
	}
	idleConnTimeout := yamlConf.IdleConnTimeout
	if idleConnTimeout <= 0 {
		idleConnTimeout = 45
	}
	maxPoolSize := yamlConf.MaxPoolSize
	if maxPoolSize <= 0 {
		maxPoolSize = 8
	}

	return DBConfig{
		URI:             uri,
		DBNamePrefix:    yamlConf.DBNamePrefix,
		Timeout:         timeout,
		IdleConnTimeout: idleConnTimeout,
		MaxPoolSize:     uint64(maxPoolSize),
	}
}
