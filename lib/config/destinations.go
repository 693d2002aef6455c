package config

import (
	"cmp"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/snowflakedb/gosnowflake"

	"github.com/artie-labs/bulkload/lib/awslib"
	"github.com/artie-labs/bulkload/lib/cryptography"
	"github.com/artie-labs/bulkload/lib/typing"
)

func (m MySQL) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = m.Username
	cfg.Passwd = m.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(m.Host, strconv.Itoa(cmp.Or(m.Port, 3306)))
	cfg.DBName = m.Database
	if m.QueryTimeoutSeconds > 0 {
		cfg.Params = map[string]string{"max_execution_time": strconv.Itoa(m.QueryTimeoutSeconds * 1000)}
	}

	return cfg.FormatDSN()
}

func (r Redshift) DSN() string {
	query := url.Values{}
	if r.DisableSSL {
		query.Add("sslmode", "disable")
	}
	if r.QueryTimeoutSeconds > 0 {
		query.Add("statement_timeout", strconv.Itoa(r.QueryTimeoutSeconds*1000))
	}

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(r.Username, r.Password),
		Host:     net.JoinHostPort(r.Host, strconv.Itoa(cmp.Or(r.Port, 5439))),
		Path:     "/" + r.Database,
		RawQuery: query.Encode(),
	}

	return u.String()
}

func (s Snowflake) ToConfig() (*gosnowflake.Config, error) {
	cfg := &gosnowflake.Config{
		Account:     s.AccountID,
		User:        s.Username,
		Warehouse:   s.Warehouse,
		Database:    s.Database,
		Role:        s.Role,
		Region:      s.Region,
		Application: s.Application,
		Params: map[string]*string{
			// This parameter will cancel in-progress queries if connectivity is lost.
			// https://docs.snowflake.com/en/sql-reference/parameters#abort-detached-query
			"ABORT_DETACHED_QUERY": typing.ToPtr("true"),
			// This parameter must be set to prevent the auth token from expiring after 4 hours.
			// https://docs.snowflake.com/en/user-guide/session-policies#considerations
			"CLIENT_SESSION_KEEP_ALIVE": typing.ToPtr("true"),
		},
	}

	if s.QueryTimeoutSeconds > 0 {
		cfg.Params["STATEMENT_TIMEOUT_IN_SECONDS"] = typing.ToPtr(strconv.Itoa(s.QueryTimeoutSeconds))
	}

	for key, value := range s.AdditionalParameters {
		cfg.Params[key] = &value
		slog.Info("Setting additional parameters for Snowflake", slog.String("key", key), slog.String("value", value))
	}

	if s.PathToPrivateKey != "" {
		key, err := cryptography.LoadRSAKey(s.PathToPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load private key: %w", err)
		}

		cfg.PrivateKey = key
		cfg.Authenticator = gosnowflake.AuthTypeJwt
	} else {
		cfg.Password = s.Password
	}

	if s.Host != "" {
		// If the host is specified
		cfg.Host = s.Host
		cfg.Region = ""
	}

	return cfg, nil
}

func (s Snowflake) DSN() (string, error) {
	cfg, err := s.ToConfig()
	if err != nil {
		return "", err
	}

	return gosnowflake.DSN(cfg)
}

func (a AWS) Credentials() awslib.Credentials {
	return awslib.Credentials{
		AccessKeyID:     a.AccessKeyID,
		SecretAccessKey: a.SecretAccessKey,
		SessionToken:    a.SessionToken,
	}
}
