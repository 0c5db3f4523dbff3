package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/winelog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-k string   Telegram bot token
//	-d string   PostgreSQL DSN
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-s string   session backend ("memory" or "sqlite")
//	-f string   sqlite session file path
//	-t int      idle session TTL, minutes (0 disables)
//	-w int      upload worker count
//	-a string   web bind address
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-k", "-d", "-u", "-p", "-b", "-g", "-e", "-s", "-f", "-t", "-w", "-a"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.BotToken, "k", config.BotToken, "Telegram bot token")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.SessionBackend, "s", config.SessionBackend, "session backend (memory or sqlite)")
	fs.StringVar(&config.SessionFilePath, "f", config.SessionFilePath, "sqlite session file path")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "idle session TTL (in minutes, 0 disables)")

	fs.IntVar(&config.UploadWorkers, "w", config.UploadWorkers, "upload worker count")
	fs.StringVar(&config.WebAddr, "a", config.WebAddr, "web bind address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
}
