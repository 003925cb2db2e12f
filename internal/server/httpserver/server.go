// Package httpserver exposes the GraphQL schema over HTTP using gin.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/staffql/internal/logging"
	gql "github.com/dmitrijs2005/staffql/internal/server/graphql"
	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

const shutdownTimeout = 5 * time.Second

// TokenParser resolves a bearer token to a user id.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

type HTTPServer struct {
	address string
	schema  graphql.Schema
	tokens  TokenParser
	logger  logging.Logger
	engine  *gin.Engine
}

func NewHTTPServer(address string, l logging.Logger, schema graphql.Schema, tokens TokenParser) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	s := &HTTPServer{
		address: address,
		schema:  schema,
		tokens:  tokens,
		logger:  logging.ForModule(l, "http_server"),
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.bearerAuth())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.POST("/graphql", s.handleGraphQL)
	r.GET("/graphql", s.handleGraphQL)

	s.engine = r
	return s
}

// Handler returns the routed gin engine.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) handleGraphQL(c *gin.Context) {
	var req gql.Request

	if c.Request.Method == http.MethodGet {
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
			return
		}
		if v := c.Query("variables"); v != "" {
			if err := decodeVariables(v, &req.Variables); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid variables"})
				return
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	if c.Request.Method == http.MethodGet {
		if op, err := gql.OperationType(req); err == nil && op != ast.OperationTypeQuery {
			c.Header("Allow", http.MethodPost)
			c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "only queries are allowed over GET"})
			return
		}
	}

	ctx := c.Request.Context()
	result := gql.Execute(ctx, s.schema, req)

	for _, e := range result.Errors {
		code, _ := e.Extensions["code"].(string)
		s.logger.Warn(ctx, "graphql error", "operation", req.OperationName, "code", code, "message", e.Message)
	}

	c.JSON(http.StatusOK, result)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(context.Background(), "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
