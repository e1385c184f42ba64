package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/benmeehan/threadpool/internal/constants"
	"github.com/benmeehan/threadpool/pkg/file"
	"github.com/benmeehan/threadpool/pkg/threadpool"
	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"
)

// JobExecutor accepts jobs for asynchronous execution. *threadpool.ThreadPool satisfies it.
type JobExecutor interface {
	Execute(job threadpool.Job) error
}

// ConnectionService accepts TCP connections and hands each one to the pool.
type ConnectionService struct {
	Address       string
	StaticDir     string
	ReadTimeout   time.Duration
	SleepDuration time.Duration
	Pool          JobExecutor
	FileClient    file.FileOperations
	Logger        zerolog.Logger

	listener net.Listener
	active   cmap.ConcurrentMap[string, net.Conn]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConnectionService initializes a new ConnectionService.
func NewConnectionService(address, staticDir string, readTimeout, sleepDuration time.Duration,
	pool JobExecutor, fileClient file.FileOperations, logger zerolog.Logger) *ConnectionService {

	return &ConnectionService{
		Address:       address,
		StaticDir:     staticDir,
		ReadTimeout:   readTimeout,
		SleepDuration: sleepDuration,
		Pool:          pool,
		FileClient:    fileClient,
		Logger:        logger,
		active:        cmap.New[net.Conn](),
	}
}

// Start opens the listener and launches the accept loop.
func (s *ConnectionService) Start() error {
	if s.ctx != nil {
		s.Logger.Warn().Msg("ConnectionService is already running")
		return errors.New("connection service is already running")
	}

	listener, err := net.Listen("tcp", s.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Address, err)
	}
	s.listener = listener
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop()
	}()

	s.Logger.Info().Str("address", listener.Addr().String()).Msg("ConnectionService started successfully")
	return nil
}

// Stop closes the listener and waits for the accept loop to exit.
// Connections already handed to the pool finish on the pool's workers.
func (s *ConnectionService) Stop() error {
	if s.ctx == nil {
		s.Logger.Warn().Msg("ConnectionService is not running")
		return errors.New("connection service is not running")
	}

	s.cancel()
	err := s.listener.Close()
	s.wg.Wait()

	s.ctx = nil
	s.cancel = nil

	if err != nil && !errors.Is(err, net.ErrClosed) {
		s.Logger.Error().Err(err).Msg("Failed to close listener")
		return err
	}

	s.Logger.Info().Int("active_connections", s.active.Count()).Msg("ConnectionService stopped successfully")
	return nil
}

// Addr returns the bound listener address, or nil when not running.
func (s *ConnectionService) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ActiveConnections returns the number of connections accepted and not yet closed.
func (s *ConnectionService) ActiveConnections() int {
	return s.active.Count()
}

// acceptLoop accepts connections until the listener is closed.
func (s *ConnectionService) acceptLoop() {
	ctx := s.ctx
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.Logger.Info().Msg("ConnectionService stopping gracefully")
				return
			}
			s.Logger.Error().Err(err).Msg("Failed to accept connection")
			continue
		}

		requestID := uuid.New().String()
		s.active.Set(requestID, conn)

		err = s.Pool.Execute(threadpool.JobFunc(func() {
			s.handleConnection(ctx, requestID, conn)
		}))
		if err != nil {
			s.Logger.Error().Err(err).Str("request_id", requestID).Msg("Failed to submit connection to pool")
			s.active.Remove(requestID)
			conn.Close()
		}
	}
}

// handleConnection reads the request line and writes back a static page.
func (s *ConnectionService) handleConnection(ctx context.Context, requestID string, conn net.Conn) {
	defer func() {
		s.active.Remove(requestID)
		conn.Close()
	}()

	logger := s.Logger.With().
		Str("request_id", requestID).
		Str("remote", conn.RemoteAddr().String()).
		Logger()

	if s.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			logger.Warn().Err(err).Msg("Failed to set read deadline")
		}
	}

	line, err := bufio.NewReader(io.LimitReader(conn, constants.MaxRequestLineBytes)).ReadString('\n')
	if err != nil && len(line) >= constants.MaxRequestLineBytes {
		logger.Warn().Int("limit", constants.MaxRequestLineBytes).Msg("Request line too long")
		return
	}
	if err != nil && line == "" {
		logger.Warn().Err(err).Msg("Failed to read request line")
		return
	}
	requestLine := strings.TrimRight(line, "\r\n")

	status, page := s.route(ctx, requestLine)

	body, err := s.FileClient.ReadFileRaw(filepath.Join(s.StaticDir, page))
	if err != nil {
		logger.Error().Err(err).Str("page", page).Msg("Failed to read static page")
		status, body = constants.StatusInternalError, nil
	}

	response := fmt.Sprintf("%s\r\nContent-Length: %d\r\n\r\n", status, len(body))
	if _, err := conn.Write(append([]byte(response), body...)); err != nil {
		logger.Error().Err(err).Msg("Failed to write response")
		return
	}

	logger.Debug().Str("request", requestLine).Str("status", status).Msg("Request served")
}

// route maps a request line to a status line and page name.
func (s *ConnectionService) route(ctx context.Context, requestLine string) (string, string) {
	switch requestLine {
	case constants.RequestRoot:
		return constants.StatusOK, constants.PageHello
	case constants.RequestSleep:
		timer := time.NewTimer(s.SleepDuration)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
		return constants.StatusOK, constants.PageHello
	default:
		return constants.StatusNotFound, constants.PageNotFound
	}
}
