package config

// Version identifies the config file layout this build understands.
const Version = "mysqldumpall.config/v1"

// Config is the root of a configuration file. Every field the command line
// accepts has a counterpart here; command-line flags and environment
// variables override what the file sets.
type Config struct {
	Version  string   `yaml:"version"`
	Logging  string   `yaml:"logging"`
	Database Database `yaml:"database"`
	Dump     Dump     `yaml:"dump"`
}

// Database holds the connection details for the server to dump.
type Database struct {
	Host        string      `yaml:"host"`
	Port        int         `yaml:"port"`
	Socket      string      `yaml:"socket"`
	Credentials Credentials `yaml:"credentials"`
}

// Credentials to authenticate to the database.
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Dump holds the dump behaviour settings.
type Dump struct {
	Template    string   `yaml:"template"`
	Mode        string   `yaml:"mode"` // directory, tar or zip
	Compress    bool     `yaml:"compress"`
	Compression string   `yaml:"compression"` // gzip or bzip2
	Regex       bool     `yaml:"regex"`
	Patterns    []string `yaml:"patterns"`
	Options     []string `yaml:"options"` // passed through to mysqldump
	Workdir     string   `yaml:"workdir"`
	Schedule    Schedule `yaml:"schedule"`
}

// Schedule holds the run scheduling settings.
type Schedule struct {
	Once      bool   `yaml:"once"`
	Cron      string `yaml:"cron"`
	Begin     string `yaml:"begin"`
	Frequency int    `yaml:"frequency"`
}
