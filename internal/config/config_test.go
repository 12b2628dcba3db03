package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
	env map[string]string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) SetupTest() {
	s.env = map[string]string{}
}

func (s *ConfigSuite) getenv(key string) string {
	return s.env[key]
}

func (s *ConfigSuite) writeFile(content string) string {
	path := filepath.Join(s.T().TempDir(), "cyberstore.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := LoadWith("", s.getenv)
	s.Require().NoError(err)
	s.Equal(Default(), cfg)
	s.Equal(StorageMemory, cfg.Storage.Type)
	s.Equal(8080, cfg.HTTP.Port)
}

func (s *ConfigSuite) TestYAMLFile() {
	path := s.writeFile(`
http:
  port: 9090
  read_timeout: 5s
storage:
  type: badger
  badger:
    path: /tmp/cs
    gc_interval: 1m
ids:
  scheme: uuid
`)

	cfg, err := LoadWith(path, s.getenv)
	s.Require().NoError(err)
	s.Equal(9090, cfg.HTTP.Port)
	s.Equal(5*time.Second, cfg.HTTP.ReadTimeout)
	s.Equal(60*time.Second, cfg.HTTP.WriteTimeout, "unset keys keep defaults")
	s.Equal(StorageBadger, cfg.Storage.Type)
	s.Equal("/tmp/cs", cfg.Storage.Badger.Path)
	s.Equal(time.Minute, cfg.Storage.Badger.GCInterval)
	s.Equal("uuid", cfg.IDs.Scheme)
}

func (s *ConfigSuite) TestEnvOverridesFile() {
	path := s.writeFile("storage:\n  type: sqlite\n")
	s.env[EnvStorageType] = "REDIS"
	s.env[EnvRedisURL] = "redis://localhost:6379/0"
	s.env[EnvRedisPrefix] = "test"
	s.env[EnvHTTPPort] = "7000"
	s.env[EnvLogLevel] = "DEBUG"

	cfg, err := LoadWith(path, s.getenv)
	s.Require().NoError(err)
	s.Equal(StorageRedis, cfg.Storage.Type)
	s.Equal("redis://localhost:6379/0", cfg.Storage.Redis.URL)
	s.Equal("test", cfg.Storage.Redis.Prefix)
	s.Equal(7000, cfg.HTTP.Port)

	level, err := cfg.Log.SlogLevel()
	s.Require().NoError(err)
	s.Equal(slog.LevelDebug, level)
}

func (s *ConfigSuite) TestMissingFile() {
	_, err := LoadWith(filepath.Join(s.T().TempDir(), "nope.yaml"), s.getenv)
	s.ErrorContains(err, "failed to read config file")
}

func (s *ConfigSuite) TestMalformedFile() {
	path := s.writeFile("http: [unclosed")
	_, err := LoadWith(path, s.getenv)
	s.ErrorContains(err, "failed to parse config file")
}

func (s *ConfigSuite) TestBadPort() {
	s.env[EnvHTTPPort] = "eighty"
	_, err := LoadWith("", s.getenv)
	s.ErrorContains(err, "HTTP_PORT")
}

func (s *ConfigSuite) TestRedisRequiresURL() {
	s.env[EnvStorageType] = "redis"
	_, err := LoadWith("", s.getenv)
	s.ErrorContains(err, "storage.redis.url is required")
}

func (s *ConfigSuite) TestAllProblemsReportedTogether() {
	s.env[EnvStorageType] = "postgres"
	s.env[EnvIDScheme] = "snowflake"
	s.env[EnvLogLevel] = "loud"

	_, err := LoadWith("", s.getenv)
	s.Require().Error(err)
	s.Contains(err.Error(), "storage.type")
	s.Contains(err.Error(), "ids.scheme")
	s.Contains(err.Error(), "log.level")
}
