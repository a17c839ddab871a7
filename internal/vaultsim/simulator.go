// Package vaultsim is an in-memory simulator of the remote secret service. It speaks the
// HTTP wire protocol of a transit engine and a versioned key-value engine and enforces the
// server-side semantics with the same lifecycle models the client uses.
//
// The simulator backs the dev-server command and the wire-level tests of the orchestrators.
// State lives in memory only and is lost when the process exits.
package vaultsim

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/allisson/vaultops/internal/crypto/service"
	apperrors "github.com/allisson/vaultops/internal/errors"
	"github.com/allisson/vaultops/internal/httputil"
)

// TokenHeader carries the client token on every request.
const TokenHeader = "X-Vault-Token"

var errPermissionDenied = apperrors.Wrap(apperrors.ErrForbidden, "permission denied")

// Options configures a Simulator.
type Options struct {
	// Token is required on every request. Empty disables the check.
	Token string
	// TransitMount is the mount path of the transit engine (default "transit").
	TransitMount string
	// KVMount is the mount path of the versioned key-value engine (default "secret").
	KVMount string
	Logger  *slog.Logger
	// Clock returns the current time; defaults to time.Now.
	Clock func() time.Time
}

// Simulator serves the simulated API under /v1/.
type Simulator struct {
	token        string
	transitMount string
	kvMount      string
	logger       *slog.Logger
	transit      *transitEngine
	kv           *kvEngine
}

// New creates a Simulator with empty engines.
func New(opts Options) *Simulator {
	if opts.TransitMount == "" {
		opts.TransitMount = "transit"
	}
	if opts.KVMount == "" {
		opts.KVMount = "secret"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Simulator{
		token:        opts.Token,
		transitMount: strings.Trim(opts.TransitMount, "/"),
		kvMount:      strings.Trim(opts.KVMount, "/"),
		logger:       opts.Logger,
		transit:      newTransitEngine(service.NewAEADManager(), opts.Clock),
		kv:           newKVEngine(opts.Clock),
	}
}

// Register adds the API routes to router.
func (s *Simulator) Register(router gin.IRoutes) {
	router.Any("/v1/*path", s.handle)
	router.Handle("LIST", "/v1/*path", s.handle)
}

// Handler returns a standalone handler serving only the API routes.
func (s *Simulator) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	s.Register(router)
	return router
}

func (s *Simulator) handle(c *gin.Context) {
	if s.token != "" && c.GetHeader(TokenHeader) != s.token {
		httputil.HandleErrorGin(c, errPermissionDenied, s.logger)
		return
	}

	req, err := parseRequest(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, s.logger)
		return
	}

	resp, err := s.dispatch(req)
	if err != nil {
		httputil.HandleErrorGin(c, err, s.logger)
		return
	}
	if resp == nil {
		resp = &response{}
	}
	status := resp.status
	if status == 0 {
		status = http.StatusOK
	}
	httputil.WriteData(c, status, resp.data, resp.warnings)
}

func (s *Simulator) dispatch(req *request) (*response, error) {
	if rest, ok := underMount(req.fullPath, s.transitMount); ok {
		req.path = splitPath(rest)
		return s.transit.handle(req)
	}
	if rest, ok := underMount(req.fullPath, s.kvMount); ok {
		req.path = splitPath(rest)
		return s.kv.handle(req)
	}
	return nil, apperrors.Wrapf(apperrors.ErrNotFound, "no handler for route %q", req.fullPath)
}

func underMount(fullPath, mount string) (string, bool) {
	if fullPath == mount {
		return "", true
	}
	return strings.CutPrefix(fullPath, mount+"/")
}

func splitPath(rest string) []string {
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

// operation is the logical operation of a request, independent of the HTTP verb used.
type operation int

const (
	opRead operation = iota
	opList
	opWrite
	opDelete
)

func (o operation) String() string {
	switch o {
	case opRead:
		return "read"
	case opList:
		return "list"
	case opWrite:
		return "write"
	default:
		return "delete"
	}
}

type request struct {
	op       operation
	fullPath string
	path     []string
	query    map[string][]string
	body     map[string]any
}

type response struct {
	status   int
	data     map[string]any
	warnings []string
}

func parseRequest(c *gin.Context) (*request, error) {
	req := &request{
		fullPath: strings.Trim(c.Param("path"), "/"),
		query:    c.Request.URL.Query(),
	}

	switch c.Request.Method {
	case http.MethodGet:
		req.op = opRead
		if c.Query("list") == "true" {
			req.op = opList
		}
	case "LIST":
		req.op = opList
	case http.MethodPost, http.MethodPut:
		req.op = opWrite
	case http.MethodDelete:
		req.op = opDelete
	default:
		return nil, errors.New("unsupported method " + c.Request.Method)
	}

	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req.body); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.New("failed to parse JSON input: " + err.Error())
	}
	if req.body == nil {
		req.body = map[string]any{}
	}
	return req, nil
}

func unsupportedOperation(req *request) error {
	return apperrors.Wrapf(apperrors.ErrUnsupported, "unsupported operation %s on %q", req.op, req.fullPath)
}
