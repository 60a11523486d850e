package server

import (
	"time"

	"github.com/chazu/loxbc/pkg/store"
	"github.com/chazu/loxbc/pkg/wire"
)

// Procedure names of the chunk service.
const (
	ServiceName = "loxbc.v1.ChunkService"

	PutProcedure         = "/" + ServiceName + "/Put"
	GetProcedure         = "/" + ServiceName + "/Get"
	ListProcedure        = "/" + ServiceName + "/List"
	DeleteProcedure      = "/" + ServiceName + "/Delete"
	DisassembleProcedure = "/" + ServiceName + "/Disassemble"
)

// EntryInfo describes a stored chunk.
type EntryInfo struct {
	Name       string   `cbor:"1,keyasint"`
	Hash       [32]byte `cbor:"2,keyasint"`
	CodeLen    int      `cbor:"3,keyasint"`
	ConstCount int      `cbor:"4,keyasint"`
	RunCount   int      `cbor:"5,keyasint"`
	UpdatedAt  int64    `cbor:"6,keyasint"` // Unix seconds
}

func entryInfo(e store.Entry) EntryInfo {
	return EntryInfo{
		Name:       e.Name,
		Hash:       e.Hash,
		CodeLen:    e.CodeLen,
		ConstCount: e.ConstCount,
		RunCount:   e.RunCount,
		UpdatedAt:  e.UpdatedAt.Unix(),
	}
}

// Updated returns UpdatedAt as a time.
func (e EntryInfo) Updated() time.Time {
	return time.Unix(e.UpdatedAt, 0).UTC()
}

// PutRequest stores the chunk in Envelope under Envelope.Name.
type PutRequest struct {
	Envelope wire.Envelope `cbor:"1,keyasint"`
}

type PutResponse struct {
	Entry EntryInfo `cbor:"1,keyasint"`
}

type GetRequest struct {
	Name string `cbor:"1,keyasint"`
}

type GetResponse struct {
	Envelope wire.Envelope `cbor:"1,keyasint"`
}

type ListRequest struct{}

type ListResponse struct {
	Entries []EntryInfo `cbor:"1,keyasint,omitempty"`
}

type DeleteRequest struct {
	Name string `cbor:"1,keyasint"`
}

type DeleteResponse struct{}

// DisassembleRequest names a stored chunk, or carries one inline in
// Envelope. Envelope wins when both are set.
type DisassembleRequest struct {
	Name     string         `cbor:"1,keyasint,omitempty"`
	Envelope *wire.Envelope `cbor:"2,keyasint,omitempty"`
	Header   bool           `cbor:"3,keyasint"`
}

type DisassembleResponse struct {
	Listing string `cbor:"1,keyasint"`
}
