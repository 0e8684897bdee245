package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/hoepeyemi/fusee-sub001/node/config"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := config.Load("")
	req.NoError(err)
	req.Equal("fusee-node", cfg.NodeName)
	req.Equal("localhost:8080", cfg.ListenAddr)
	req.Equal("leveldb", cfg.Store.Driver)
	req.Equal("noop", cfg.Gateway.Driver)
	req.Equal("file", cfg.Events.Driver)
	req.True(cfg.Scheduler.Enabled)
	req.Equal(time.Minute, cfg.Scheduler.Interval())
	req.Equal(24*time.Hour, cfg.Lifecycle.FlagThreshold())
	req.Equal(48*time.Hour, cfg.Lifecycle.RemovalThreshold())
}

func TestLoad_Template(t *testing.T) {
	var (
		req  = require.New(t)
		path = "/tmp/fusee_test_config.yaml"
	)
	defer os.Remove(path)

	req.NoError(config.WriteDefault(path))
	req.Error(config.WriteDefault(path), "must refuse to overwrite")

	cfg, err := config.Load(path)
	req.NoError(err)
	req.NoError(cfg.Validate())
	req.Equal("fusee-node", cfg.NodeName)
	req.Equal(30*time.Second, cfg.Gateway.Timeout())
}

func TestLoad_EnvOverride(t *testing.T) {
	req := require.New(t)

	req.NoError(os.Setenv("FUSEE_NODE_NAME", "treasury-node"))
	defer os.Unsetenv("FUSEE_NODE_NAME")

	cfg, err := config.Load("")
	req.NoError(err)
	req.Equal("treasury-node", cfg.NodeName)
}

func TestValidate(t *testing.T) {
	req := require.New(t)

	cfg, err := config.Load("")
	req.NoError(err)

	cfg.Store.Driver = "mysql"
	req.Error(cfg.Validate())

	cfg, err = config.Load("")
	req.NoError(err)
	cfg.Lifecycle.InactivityRemovalHours = cfg.Lifecycle.InactivityFlagHours
	req.Error(cfg.Validate())
}
