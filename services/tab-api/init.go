package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/meetings-survey/survey-backend/pkg/db"
	"github.com/meetings-survey/survey-backend/pkg/surveyconfig"
	"github.com/meetings-survey/survey-backend/pkg/utils"
	"gopkg.in/yaml.v2"

	activityDB "github.com/meetings-survey/survey-backend/pkg/db/activity"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_ACTIVITY_DB_USERNAME = "ACTIVITY_DB_USERNAME"
	ENV_ACTIVITY_DB_PASSWORD = "ACTIVITY_DB_PASSWORD"
)

const defaultPort = "3007"

type TabApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`
	} `json:"gin_config" yaml:"gin_config"`

	// Upstream call configs
	GraphConfig struct {
		TimeoutSec int    `json:"timeout_sec" yaml:"timeout_sec"`
		TabName    string `json:"tab_name" yaml:"tab_name"`
	} `json:"graph_config" yaml:"graph_config"`

	TokenExchangeTimeoutSec int `json:"token_exchange_timeout_sec" yaml:"token_exchange_timeout_sec"`

	// Optional audit trail DB; activity recording is disabled when the
	// connection string is empty.
	ActivityDBConfig db.DBConfigYaml `json:"activity_db" yaml:"activity_db"`
}

var (
	surveyCfg         *surveyconfig.Config
	activityDBService *activityDB.ActivityDBService
)

func init() {
	readConfig()

	utils.InitLogger(
		conf.Logging.LogLevel,
		conf.Logging.IncludeSrc,
		conf.Logging.LogToFile,
		conf.Logging.Filename,
		conf.Logging.MaxSize,
		conf.Logging.MaxAge,
		conf.Logging.MaxBackups,
		conf.Logging.CompressOldLogs,
	)

	secretsOverride()

	// survey list schema, fails fast on missing keys
	cfg, err := surveyconfig.Load()
	if err != nil {
		slog.Error("Error loading survey configuration", slog.String("error", err.Error()))
		panic(err)
	}
	surveyCfg = cfg

	initActivityDB()

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
}

func readConfig() {
	configPath := os.Getenv(ENV_CONFIG_FILE_PATH)
	if configPath == "" {
		applyConfigDefaults()
		return
	}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}
	applyConfigDefaults()
}

func applyConfigDefaults() {
	if conf.GinConfig.Port == "" {
		conf.GinConfig.Port = defaultPort
	}
	if conf.GraphConfig.TimeoutSec <= 0 {
		conf.GraphConfig.TimeoutSec = 30
	}
	if conf.GraphConfig.TabName == "" {
		conf.GraphConfig.TabName = "Meetings Survey"
	}
	if conf.TokenExchangeTimeoutSec <= 0 {
		conf.TokenExchangeTimeoutSec = 15
	}
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_ACTIVITY_DB_USERNAME); dbUsername != "" {
		conf.ActivityDBConfig.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_ACTIVITY_DB_PASSWORD); dbPassword != "" {
		conf.ActivityDBConfig.Password = dbPassword
	}
}

func initActivityDB() {
	if conf.ActivityDBConfig.ConnectionStr == "" {
		slog.Info("Activity DB not configured, audit trail disabled")
		return
	}

	dbService, err := activityDB.NewActivityDBService(db.DBConfigFromYaml(conf.ActivityDBConfig))
	if err != nil {
		slog.Error("Error connecting to Activity DB", slog.String("error", err.Error()))
		panic(err)
	}
	activityDBService = dbService
}
