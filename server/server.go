package server

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/tliron/commonlog"

	"github.com/chazu/loxbc/pkg/store"
)

var log = commonlog.GetLogger("loxbc.server")

// ChunkServer serves the chunk service over Connect. Clients may speak the
// Connect, gRPC or gRPC-Web protocols; messages are CBOR.
type ChunkServer struct {
	service *ChunkService
	mux     *http.ServeMux
}

// New creates a ChunkServer backed by st.
func New(st *store.Store) *ChunkServer {
	s := &ChunkServer{
		service: NewChunkService(st),
		mux:     http.NewServeMux(),
	}

	opts := []connect.HandlerOption{connect.WithCodec(cborCodec{})}
	s.mux.Handle(PutProcedure, connect.NewUnaryHandler(PutProcedure, s.service.Put, opts...))
	s.mux.Handle(GetProcedure, connect.NewUnaryHandler(GetProcedure, s.service.Get, opts...))
	s.mux.Handle(ListProcedure, connect.NewUnaryHandler(ListProcedure, s.service.List, opts...))
	s.mux.Handle(DeleteProcedure, connect.NewUnaryHandler(DeleteProcedure, s.service.Delete, opts...))
	s.mux.Handle(DisassembleProcedure, connect.NewUnaryHandler(DisassembleProcedure, s.service.Disassemble, opts...))

	return s
}

// Handler returns the HTTP handler serving every procedure.
func (s *ChunkServer) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the HTTP server on the given address.
// The address should be in the form "host:port" or ":port".
func (s *ChunkServer) ListenAndServe(addr string) error {
	log.Noticef("chunk service listening on %s", addr)
	log.Infof("  Connect (HTTP/CBOR): http://%s%s", addr, DisassembleProcedure)
	return http.ListenAndServe(addr, s.mux)
}
