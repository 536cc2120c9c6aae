package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the server configuration flags from os.Args.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "168h")
//	-password-hash-cost bcrypt cost factor
//	-reset-token-hash-key reset token digest key
//	-reset-token-ttl reset token lifetime (e.g., "15m")
//	-expose-reset-token return reset tokens in API responses
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-reset-purge-interval expired reset token sweep interval
func ParseFlags() *StructuredConfig {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		// flag.ExitOnError has already reported the problem
		os.Exit(2)
	}
	return cfg
}

func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("go-cert-server", flag.ContinueOnError)

	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var passwordHashCost int
	var resetTokenHashKey string
	var resetTokenTTL time.Duration
	var exposeResetToken bool
	var requestTimeout time.Duration
	var resetPurgeInterval time.Duration

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 168h)")
	fs.IntVar(&passwordHashCost, "password-hash-cost", 0, "bcrypt cost factor")
	fs.StringVar(&resetTokenHashKey, "reset-token-hash-key", "", "Password reset token digest key")
	fs.DurationVar(&resetTokenTTL, "reset-token-ttl", 0, "Password reset token lifetime (e.g., 15m)")
	fs.BoolVar(&exposeResetToken, "expose-reset-token", false, "Return reset tokens in API responses")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&resetPurgeInterval, "reset-purge-interval", 0, "Expired reset token sweep interval")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:      tokenSignKey,
			TokenIssuer:       tokenIssuer,
			TokenDuration:     tokenDuration,
			PasswordHashCost:  passwordHashCost,
			ResetTokenHashKey: resetTokenHashKey,
			ResetTokenTTL:     resetTokenTTL,
			ExposeResetToken:  exposeResetToken,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			ResetTokenPurgeInterval: resetPurgeInterval,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
