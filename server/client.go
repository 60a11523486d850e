package server

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/chazu/loxbc/pkg/bytecode"
	"github.com/chazu/loxbc/pkg/wire"
)

// Client calls a remote chunk service.
type Client struct {
	put         *connect.Client[PutRequest, PutResponse]
	get         *connect.Client[GetRequest, GetResponse]
	list        *connect.Client[ListRequest, ListResponse]
	delete      *connect.Client[DeleteRequest, DeleteResponse]
	disassemble *connect.Client[DisassembleRequest, DisassembleResponse]
}

// NewClient creates a client for the service at baseURL, e.g.
// "http://localhost:4568".
func NewClient(httpClient connect.HTTPClient, baseURL string) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	opt := connect.WithCodec(cborCodec{})
	return &Client{
		put:         connect.NewClient[PutRequest, PutResponse](httpClient, baseURL+PutProcedure, opt),
		get:         connect.NewClient[GetRequest, GetResponse](httpClient, baseURL+GetProcedure, opt),
		list:        connect.NewClient[ListRequest, ListResponse](httpClient, baseURL+ListProcedure, opt),
		delete:      connect.NewClient[DeleteRequest, DeleteResponse](httpClient, baseURL+DeleteProcedure, opt),
		disassemble: connect.NewClient[DisassembleRequest, DisassembleResponse](httpClient, baseURL+DisassembleProcedure, opt),
	}
}

// Put stores c under name.
func (c *Client) Put(ctx context.Context, name string, chunk *bytecode.Chunk) (EntryInfo, error) {
	env, err := wire.Seal(name, chunk)
	if err != nil {
		return EntryInfo{}, err
	}
	resp, err := c.put.CallUnary(ctx, connect.NewRequest(&PutRequest{Envelope: *env}))
	if err != nil {
		return EntryInfo{}, err
	}
	return resp.Msg.Entry, nil
}

// Get fetches the chunk stored under name.
func (c *Client) Get(ctx context.Context, name string) (*bytecode.Chunk, error) {
	resp, err := c.get.CallUnary(ctx, connect.NewRequest(&GetRequest{Name: name}))
	if err != nil {
		return nil, err
	}
	return wire.Open(&resp.Msg.Envelope)
}

// List returns every stored chunk.
func (c *Client) List(ctx context.Context) ([]EntryInfo, error) {
	resp, err := c.list.CallUnary(ctx, connect.NewRequest(&ListRequest{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Entries, nil
}

// Delete removes the chunk stored under name.
func (c *Client) Delete(ctx context.Context, name string) error {
	_, err := c.delete.CallUnary(ctx, connect.NewRequest(&DeleteRequest{Name: name}))
	return err
}

// Disassemble returns the listing of the chunk stored under name.
func (c *Client) Disassemble(ctx context.Context, name string, header bool) (string, error) {
	resp, err := c.disassemble.CallUnary(ctx, connect.NewRequest(&DisassembleRequest{Name: name, Header: header}))
	if err != nil {
		return "", err
	}
	return resp.Msg.Listing, nil
}

// DisassembleChunk sends chunk inline and returns its listing.
func (c *Client) DisassembleChunk(ctx context.Context, name string, chunk *bytecode.Chunk, header bool) (string, error) {
	env, err := wire.Seal(name, chunk)
	if err != nil {
		return "", err
	}
	resp, err := c.disassemble.CallUnary(ctx, connect.NewRequest(&DisassembleRequest{Envelope: env, Header: header}))
	if err != nil {
		return "", err
	}
	return resp.Msg.Listing, nil
}
