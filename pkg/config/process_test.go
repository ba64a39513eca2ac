package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessConfig(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		in := `
version: mysqldumpall.config/v1
logging: debug
database:
  host: db.example.com
  port: 3307
  credentials:
    username: backup
    password: hunter2
dump:
  template: nightly_%Y%m%d
  mode: tar
  compress: true
  compression: bzip2
  regex: true
  patterns:
    - "^prod_"
    - ":^prod_scratch$"
  options:
    - --single-transaction
  workdir: /var/backups
  schedule:
    cron: "0 2 * * *"
`
		conf, err := ProcessConfig(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.Logging)
		assert.Equal(t, "db.example.com", conf.Database.Host)
		assert.Equal(t, 3307, conf.Database.Port)
		assert.Equal(t, "backup", conf.Database.Credentials.Username)
		assert.Equal(t, "hunter2", conf.Database.Credentials.Password)
		assert.Equal(t, "nightly_%Y%m%d", conf.Dump.Template)
		assert.Equal(t, "tar", conf.Dump.Mode)
		assert.True(t, conf.Dump.Compress)
		assert.Equal(t, "bzip2", conf.Dump.Compression)
		assert.True(t, conf.Dump.Regex)
		assert.Equal(t, []string{"^prod_", ":^prod_scratch$"}, conf.Dump.Patterns)
		assert.Equal(t, []string{"--single-transaction"}, conf.Dump.Options)
		assert.Equal(t, "/var/backups", conf.Dump.Workdir)
		assert.Equal(t, "0 2 * * *", conf.Dump.Schedule.Cron)
	})

	t.Run("minimal config", func(t *testing.T) {
		conf, err := ProcessConfig(strings.NewReader("version: mysqldumpall.config/v1\n"))
		require.NoError(t, err)
		assert.Equal(t, Version, conf.Version)
	})

	t.Run("unknown version", func(t *testing.T) {
		_, err := ProcessConfig(strings.NewReader("version: mysqldumpall.config/v2\n"))
		assert.ErrorContains(t, err, "unknown config version")
	})

	t.Run("not yaml", func(t *testing.T) {
		_, err := ProcessConfig(strings.NewReader("\t{nope"))
		assert.ErrorContains(t, err, "fatal error reading config file")
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := ProcessConfig(strings.NewReader("version: mysqldumpall.config/v1\ndumps: {}\n"))
		assert.Error(t, err)
	})
}
