package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"

	"github.com/chazu/loxbc/pkg/bytecode"
	"github.com/chazu/loxbc/pkg/store"
	"github.com/chazu/loxbc/pkg/wire"
)

// ChunkService implements the chunk service handlers on top of a store.
type ChunkService struct {
	store *store.Store
}

// NewChunkService creates a ChunkService.
func NewChunkService(st *store.Store) *ChunkService {
	return &ChunkService{store: st}
}

// Put stores a chunk.
func (s *ChunkService) Put(
	ctx context.Context,
	req *connect.Request[PutRequest],
) (*connect.Response[PutResponse], error) {
	env := &req.Msg.Envelope
	if env.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("envelope name is required"))
	}
	c, err := wire.Open(env)
	if err != nil {
		return nil, connectError(err)
	}
	e, err := s.store.Put(ctx, env.Name, c)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&PutResponse{Entry: entryInfo(e)}), nil
}

// Get returns a stored chunk sealed in an envelope.
func (s *ChunkService) Get(
	ctx context.Context,
	req *connect.Request[GetRequest],
) (*connect.Response[GetResponse], error) {
	c, err := s.load(ctx, req.Msg.Name)
	if err != nil {
		return nil, err
	}
	env, err := wire.Seal(req.Msg.Name, c)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&GetResponse{Envelope: *env}), nil
}

// List returns every stored chunk.
func (s *ChunkService) List(
	ctx context.Context,
	req *connect.Request[ListRequest],
) (*connect.Response[ListResponse], error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, connectError(err)
	}
	resp := &ListResponse{Entries: make([]EntryInfo, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, entryInfo(e))
	}
	return connect.NewResponse(resp), nil
}

// Delete removes a stored chunk.
func (s *ChunkService) Delete(
	ctx context.Context,
	req *connect.Request[DeleteRequest],
) (*connect.Response[DeleteResponse], error) {
	if req.Msg.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name is required"))
	}
	if err := s.store.Delete(ctx, req.Msg.Name); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&DeleteResponse{}), nil
}

// Disassemble returns the listing of a stored or inline chunk.
func (s *ChunkService) Disassemble(
	ctx context.Context,
	req *connect.Request[DisassembleRequest],
) (*connect.Response[DisassembleResponse], error) {
	var (
		c    *bytecode.Chunk
		name = req.Msg.Name
		err  error
	)
	if req.Msg.Envelope != nil {
		if c, err = wire.Open(req.Msg.Envelope); err != nil {
			return nil, connectError(err)
		}
		if req.Msg.Envelope.Name != "" {
			name = req.Msg.Envelope.Name
		}
	} else if c, err = s.load(ctx, name); err != nil {
		return nil, err
	}

	var sb strings.Builder
	d := bytecode.NewDisassembler(&sb)
	d.Header = req.Msg.Header
	if err := d.DisassembleChunk(c, name); err != nil {
		log.Errorf("disassembling %q: %s", name, err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&DisassembleResponse{Listing: sb.String()}), nil
}

func (s *ChunkService) load(ctx context.Context, name string) (*bytecode.Chunk, error) {
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name is required"))
	}
	c, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, connectError(err)
	}
	return c, nil
}

// connectError maps store, wire and bytecode errors to Connect codes.
func connectError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, bytecode.ErrLineNotFound):
		return connect.NewError(connect.CodeDataLoss, err)
	case errors.Is(err, wire.ErrHashMismatch),
		errors.Is(err, bytecode.ErrBadMagic),
		errors.Is(err, bytecode.ErrUnsupportedVersion),
		errors.Is(err, bytecode.ErrCorruptImage),
		errors.Is(err, bytecode.ErrIndexOutOfRange),
		errors.Is(err, bytecode.ErrTooManyConstants):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
