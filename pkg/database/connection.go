package database

import (
	"fmt"
	"strconv"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
)

// Connection identifies the server to dump. The fields are opaque: they are
// forwarded to the SQL driver for listing and to mysqldump for dumping,
// never interpreted here.
type Connection struct {
	User   string
	Pass   string
	Host   string
	Socket string
	Port   int
}

// MySQL renders the connection as a go-sql-driver DSN. A socket path wins
// over host/port, as it does for the mysql client; a host starting with "/"
// is treated as a socket path too.
func (c Connection) MySQL() string {
	config := mysql.NewConfig()
	config.User = c.User
	config.Passwd = c.Pass
	switch {
	case c.Socket != "":
		config.Net = "unix"
		config.Addr = c.Socket
	case strings.HasPrefix(c.Host, "/"):
		config.Net = "unix"
		config.Addr = c.Host
	case c.Host != "":
		config.Net = "tcp"
		config.Addr = c.Host
		if c.Port != 0 {
			config.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
		}
	}
	return config.FormatDSN()
}

// DumpArgs assembles the argument vector for one mysqldump invocation.
// The extra options sit between the connection flags and the database name,
// and are passed through without validation.
func (c Connection) DumpArgs(dbName string, extra []string) []string {
	var args []string
	if c.User != "" {
		args = append(args, "-u", c.User)
	}
	if c.Pass != "" {
		args = append(args, "-p"+c.Pass)
	}
	if c.Socket != "" {
		args = append(args, "--socket="+c.Socket)
	}
	if c.Host != "" {
		args = append(args, "-h", c.Host)
	}
	if c.Port != 0 {
		args = append(args, "-P", strconv.Itoa(c.Port))
	}
	args = append(args, extra...)
	return append(args, dbName)
}
