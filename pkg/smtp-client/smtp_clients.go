package smtp_client

import (
	"crypto/tls"
	"errors"
	"log/slog"
	"net/smtp"
	"strconv"
	"sync"
	"time"

	"github.com/knadh/smtppool"
)

type SmtpClients struct {
	servers        SmtpServerList
	connectionPool []*smtppool.Pool
	// serverIndex maps a pool to its entry in servers.Servers
	serverIndex []int
	counter     uint64
	mu          sync.RWMutex
}

func NewSmtpClients(config SmtpServerList) (*SmtpClients, error) {
	sc := &SmtpClients{
		servers: config,
		counter: 0,
	}
	for i, server := range config.Servers {
		pool, err := connectToPool(server)
		if err != nil {
			slog.Error("error setting up connection pool", slog.String("error", err.Error()), slog.String("server", server.Address()))
			continue
		}
		sc.connectionPool = append(sc.connectionPool, pool)
		sc.serverIndex = append(sc.serverIndex, i)
	}
	if len(sc.connectionPool) < 1 {
		return nil, errors.New("no smtp server connection in the pool")
	}
	return sc, nil
}

func connectToPool(server SmtpServer) (*smtppool.Pool, error) {
	var auth smtp.Auth
	if server.AuthData.Username != "" || server.AuthData.Password != "" {
		auth = smtp.PlainAuth(
			"",
			server.AuthData.Username,
			server.AuthData.Password,
			server.Host,
		)
	}

	tlsOpts := &tls.Config{
		InsecureSkipVerify: server.InsecureSkipVerify,
		ServerName:         server.Host,
	}
	port, err := strconv.Atoi(server.Port)
	if err != nil {
		return nil, err
	}

	connections := server.Connections
	if connections < 1 {
		connections = 1
	}

	return smtppool.New(smtppool.Opt{
		Host:            server.Host,
		Port:            port,
		MaxConns:        connections,
		IdleTimeout:     time.Duration(server.SendTimeout) * time.Second,
		PoolWaitTimeout: time.Duration(server.SendTimeout) * time.Second,
		TLSConfig:       tlsOpts,
		Auth:            auth,
	})
}
