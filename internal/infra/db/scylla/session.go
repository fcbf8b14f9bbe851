package scylla

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/gocql/gocql"
)

var keyspacePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

type Config struct {
	Hosts             []string
	Keyspace          string
	Timeout           time.Duration
	Username          string
	Password          string
	ReplicationFactor int
}

// NewSession ensures the keyspace and tables exist and returns a session bound
// to the keyspace.
func NewSession(ctx context.Context, cfg Config, logger *slog.Logger) (*gocql.Session, error) {
	if !keyspacePattern.MatchString(cfg.Keyspace) {
		return nil, fmt.Errorf("scylla: invalid keyspace name %q", cfg.Keyspace)
	}
	if len(cfg.Hosts) == 0 {
		return nil, fmt.Errorf("scylla: at least one host is required")
	}

	baseSession, err := newCluster(cfg, "").CreateSession()
	if err != nil {
		return nil, fmt.Errorf("scylla: connect: %w", err)
	}
	defer baseSession.Close()
	if err := baseSession.Query(keyspaceStatement(cfg)).WithContext(ctx).Exec(); err != nil {
		return nil, fmt.Errorf("scylla: create keyspace: %w", err)
	}

	session, err := newCluster(cfg, cfg.Keyspace).CreateSession()
	if err != nil {
		return nil, fmt.Errorf("scylla: connect to keyspace %s: %w", cfg.Keyspace, err)
	}
	for _, stmt := range tableStatements(cfg.Keyspace) {
		if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			session.Close()
			return nil, fmt.Errorf("scylla: create tables: %w", err)
		}
	}
	if logger != nil {
		logger.Info("scylla connected", "hosts", cfg.Hosts, "keyspace", cfg.Keyspace)
	}
	return session, nil
}

func newCluster(cfg Config, keyspace string) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	if cfg.Timeout > 0 {
		cluster.Timeout = cfg.Timeout
		cluster.ConnectTimeout = cfg.Timeout
	}
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}
	return cluster
}

func keyspaceStatement(cfg Config) string {
	rf := cfg.ReplicationFactor
	if rf <= 0 {
		rf = 1
	}
	return fmt.Sprintf(
		"CREATE KEYSPACE IF NOT EXISTS %s WITH replication = {'class': 'SimpleStrategy', 'replication_factor': %d}",
		cfg.Keyspace, rf,
	)
}

func tableStatements(keyspace string) []string {
	return []string{
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s.threads (
	id text PRIMARY KEY,
	kind text,
	listing_id text,
	participant_a text,
	participant_b text,
	last_message text,
	last_message_at timestamp,
	created_at timestamp
);`, keyspace),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s.threads_by_user (
	user_id text,
	thread_id text,
	PRIMARY KEY (user_id, thread_id)
);`, keyspace),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s.threads_by_listing (
	listing_id text,
	participant_a text,
	participant_b text,
	thread_id text,
	PRIMARY KEY (listing_id, participant_a, participant_b)
);`, keyspace),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s.messages (
	thread_id text,
	sent_at timestamp,
	id text,
	sender_id text,
	content text,
	read boolean,
	PRIMARY KEY (thread_id, sent_at, id)
) WITH CLUSTERING ORDER BY (sent_at ASC, id ASC);`, keyspace),
	}
}
